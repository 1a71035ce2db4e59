package server

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"glimpse/internal/cache"
	"glimpse/internal/likecache"
	"glimpse/internal/middleware"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// respondError maps the error taxonomy to an HTTP status and writes the
// standard error body.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// requireConfirmation enforces the explicit confirm gate on destructive
// endpoints. Deletes only proceed when the client passes ?confirm=true; a
// bare delete is rejected before anything reaches the upstream API.
func requireConfirmation(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return models.NewValidationError("Deletion requires confirm=true")
	}
	return nil
}

// tokenDigest keys the session cache by a digest so raw bearer tokens never
// land in Redis.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// currentUser resolves the caller's profile from the bearer token, via a
// short-lived cache in front of the upstream /auth/me endpoint. Anonymous
// callers and rejected tokens both come back as nil.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	token := middleware.Token(c)
	if token == "" {
		return nil
	}

	ctx := c.UserContext()
	ttl := cache.DefaultSessionTTL
	if s.config.MeCacheTTL > 0 {
		ttl = time.Duration(s.config.MeCacheTTL) * time.Second
	}

	user, err := cache.CacheAside(ctx, cache.SessionKey(tokenDigest(token)), ttl, func() (*models.User, error) {
		return s.upstream.Me(ctx, token)
	})
	if err != nil {
		return nil
	}
	return user
}

// likedSetFor loads the caller's liked-post set, or an empty set for
// anonymous viewers.
func (s *Server) likedSetFor(c *fiber.Ctx, user *models.User) likecache.Set {
	if user == nil || user.ID.IsZero() {
		return likecache.Set{}
	}
	return s.likes.GetLiked(c.UserContext(), user.ID.String())
}
