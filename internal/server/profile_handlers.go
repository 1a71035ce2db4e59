package server

import (
	"glimpse/internal/cache"
	"glimpse/internal/feed"
	"glimpse/internal/middleware"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// profileView is the composite profile page payload.
type profileView struct {
	ID          models.FlexID      `json:"id"`
	DisplayName string             `json:"display_name"`
	AvatarURL   *string            `json:"avatar_url"`
	Nickname    string             `json:"nickname,omitempty"`
	Username    string             `json:"username,omitempty"`
	Bio         string             `json:"bio,omitempty"`
	Posts       []feed.Item        `json:"posts"`
	Comments    []feed.CommentItem `json:"comments"`
}

// GetProfile handles GET /api/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil || user.ID.IsZero() {
		return respondError(c, models.NewAuthRequiredError("Sign in to view your profile"))
	}
	token := middleware.Token(c)

	posts, err := s.upstream.MyPosts(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}
	comments, err := s.upstream.MyComments(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}

	liked := s.likedSetFor(c, user)
	identity := s.resolver.ResolveIdentityForUser(user)
	thread := feed.NewThread(s.resolver, comments, 0, user)

	view := profileView{
		ID:          user.ID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		Nickname:    user.Nickname,
		Username:    user.Username,
		Bio:         user.Bio,
		Posts:       s.reconciler.Reconcile(posts, liked, user),
		Comments:    thread.Items,
	}
	if view.Posts == nil {
		view.Posts = []feed.Item{}
	}
	if view.Comments == nil {
		view.Comments = []feed.CommentItem{}
	}
	return c.JSON(view)
}

// UpdateProfile handles PATCH /api/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if user == nil || user.ID.IsZero() {
		return respondError(c, models.NewAuthRequiredError("Sign in to edit your profile"))
	}
	token := middleware.Token(c)

	var req struct {
		Nickname        *string `json:"nickname"`
		Bio             *string `json:"bio"`
		ProfileImageURL *string `json:"profile_image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	patch := map[string]any{}
	if req.Nickname != nil {
		patch["nickname"] = *req.Nickname
	}
	if req.Bio != nil {
		patch["bio"] = *req.Bio
	}
	if req.ProfileImageURL != nil {
		patch["profile_image_url"] = *req.ProfileImageURL
	}
	if len(patch) == 0 {
		return respondError(c, models.NewValidationError("Nothing to update"))
	}

	updated, err := s.upstream.UpdateProfile(c.UserContext(), token, patch)
	if err != nil {
		return respondError(c, err)
	}

	// The cached session profile is stale now.
	cache.Invalidate(c.UserContext(), cache.SessionKey(tokenDigest(token)))

	identity := s.resolver.ResolveIdentityForUser(updated)
	return c.JSON(fiber.Map{
		"id":           updated.ID,
		"display_name": identity.DisplayName,
		"avatar_url":   identity.AvatarURL,
		"nickname":     updated.Nickname,
		"bio":          updated.Bio,
	})
}
