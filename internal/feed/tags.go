// Package feed implements the reconciliation engine: it merges
// server-authoritative post, comment, and user data with locally remembered
// like state, resolves author identity through the backend's inconsistent
// field spellings, and normalizes heterogeneous tag representations into
// view-ready items.
package feed

import (
	"strings"

	"glimpse/internal/models"
)

// NormalizeTags converts a tag field of unknown shape into a canonical
// ordered list of tag strings. Arrays pass through in order with empty
// entries dropped; a single string is split on commas with each segment
// trimmed and empties dropped; any other shape yields nil. The result is
// stable: normalizing an already-normalized list returns it element for
// element.
func NormalizeTags(tags models.FlexTags) []string {
	if tags.IsList {
		out := make([]string, 0, len(tags.List))
		for _, t := range tags.List {
			if t == "" {
				continue
			}
			out = append(out, t)
		}
		return out
	}
	if tags.Raw == "" {
		return nil
	}
	parts := strings.Split(tags.Raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FormatHashtag prepends a "#" to a tag that lacks one. Formatting an
// already-formatted tag is a no-op.
func FormatHashtag(tag string) string {
	if strings.HasPrefix(tag, "#") {
		return tag
	}
	return "#" + tag
}

// FormatHashtags applies FormatHashtag to every tag, preserving order.
func FormatHashtags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = FormatHashtag(t)
	}
	return out
}
