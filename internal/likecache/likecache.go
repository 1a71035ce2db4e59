// Package likecache persists the per-user set of liked post IDs. The feed
// list endpoint does not reliably report the caller's like status, so this
// set seeds optimistic like state across sessions. The cache is advisory:
// the server's per-toggle verdict always overwrites it.
package likecache

import (
	"context"
	"encoding/json"
	"sort"
)

// Set is an unordered collection of post IDs with no TTL semantics.
type Set map[string]struct{}

// NewSet builds a Set from the given post IDs.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts a post ID.
func (s Set) Add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

// Remove deletes a post ID.
func (s Set) Remove(id string) {
	delete(s, id)
}

// MarshalJSON serializes the set as a sorted JSON array for a stable
// persisted representation.
func (s Set) MarshalJSON() ([]byte, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return json.Marshal(ids)
}

// UnmarshalJSON reads a JSON array of post IDs (strings or numbers).
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Set, len(raw))
	for _, r := range raw {
		var str string
		if err := json.Unmarshal(r, &str); err == nil {
			out.Add(str)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err == nil {
			out.Add(n.String())
		}
	}
	*s = out
	return nil
}

// Store is the narrow interface the reconciliation engine depends on. It is
// constructed once and injected; page code never touches the backing store
// directly.
//
// Neither method surfaces errors: a missing or unparsable entry reads as the
// empty set (silent recovery) and persistence failures are logged by the
// implementation. An empty userID is a no-op both ways — anonymous sessions
// never read or write like state.
type Store interface {
	GetLiked(ctx context.Context, userID string) Set
	SetLiked(ctx context.Context, userID string, liked Set)
}

// decode parses a persisted payload, treating any failure as the empty set.
func decode(payload []byte) (Set, bool) {
	var s Set
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, false
	}
	if s == nil {
		s = Set{}
	}
	return s, true
}

// encode serializes a set for persistence.
func encode(liked Set) ([]byte, error) {
	if liked == nil {
		liked = Set{}
	}
	return json.Marshal(liked)
}
