package feed

import (
	"context"
	"sync"

	"glimpse/internal/likecache"
	"glimpse/internal/models"
	"glimpse/internal/observability"
)

// LikeToggler is the slice of the upstream client the coordinator depends on.
type LikeToggler interface {
	ToggleLike(ctx context.Context, token string, postID string) (models.ToggleResult, error)
}

// ToggleCoordinator executes like toggles against the server and keeps the
// like cache consistent with the server's verdict. There is no optimistic
// pre-flip: view state changes only after a successful round trip, and a
// failed call leaves both the view and the cache exactly as they were.
type ToggleCoordinator struct {
	client LikeToggler
	store  likecache.Store

	// Keyed locks, refcounted so idle entries are reclaimed. Two concerns
	// share the map under distinct key prefixes: toggles for the same post
	// are serialized so rapid repeated clicks cannot race each other against
	// the server, and each user's cache write is serialized because the
	// stored set is a whole-value read-modify-write.
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func postLockKey(postID string) string { return "post:" + postID }
func userLockKey(userID string) string { return "user:" + userID }

// NewToggleCoordinator returns a coordinator using the given upstream client
// and like store.
func NewToggleCoordinator(client LikeToggler, store likecache.Store) *ToggleCoordinator {
	return &ToggleCoordinator{
		client: client,
		store:  store,
		locks:  make(map[string]*keyedLock),
	}
}

func (t *ToggleCoordinator) acquire(key string) *keyedLock {
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &keyedLock{}
		t.locks[key] = l
	}
	l.refs++
	t.mu.Unlock()
	l.Lock()
	return l
}

func (t *ToggleCoordinator) release(key string, l *keyedLock) {
	l.Unlock()
	t.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(t.locks, key)
	}
	t.mu.Unlock()
}

// Toggle issues exactly one toggle request for the post and reconciles the
// authoritative response into the like cache. An anonymous session fails
// fast without touching the network.
func (t *ToggleCoordinator) Toggle(ctx context.Context, token string, postID models.FlexID, current *models.User) (models.ToggleResult, error) {
	if current == nil || current.ID.IsZero() {
		return models.ToggleResult{}, models.NewAuthRequiredError("Sign in to like posts")
	}

	id := postID.String()
	pl := t.acquire(postLockKey(id))
	defer t.release(postLockKey(id), pl)

	result, err := t.client.ToggleLike(ctx, token, id)
	if err != nil {
		observability.LikeToggles.WithLabelValues("error").Inc()
		return models.ToggleResult{}, err
	}

	// The response's boolean is authoritative; the cache is rewritten from
	// it rather than by flipping the previous local state. The whole set is
	// read, modified, and written back, so the section is serialized per
	// user: two toggles on different posts must not interleave here, or the
	// later write would erase the earlier verdict.
	userID := current.ID.String()
	ul := t.acquire(userLockKey(userID))
	liked := t.store.GetLiked(ctx, userID)
	if result.Liked {
		liked.Add(id)
	} else {
		liked.Remove(id)
	}
	t.store.SetLiked(ctx, userID, liked)
	t.release(userLockKey(userID), ul)

	if result.Liked {
		observability.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	}
	return result, nil
}
