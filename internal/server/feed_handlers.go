package server

import (
	"glimpse/internal/middleware"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, s.config.FeedPageSize)
	user := s.currentUser(c)
	token := middleware.Token(c)

	posts, err := s.upstream.ListPosts(c.UserContext(), token, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	liked := s.likedSetFor(c, user)
	items := s.reconciler.Reconcile(posts, liked, user)

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// GetFeedItem handles GET /api/feed/:id
func (s *Server) GetFeedItem(c *fiber.Ctx) error {
	postID := c.Params("id")
	if postID == "" {
		return respondError(c, models.NewValidationError("Post ID is required"))
	}

	user := s.currentUser(c)
	token := middleware.Token(c)

	post, err := s.upstream.GetPost(c.UserContext(), token, postID)
	if err != nil {
		return respondError(c, err)
	}
	if post.IsDeleted() {
		return respondError(c, models.NewNotFoundError("Post", postID))
	}

	liked := s.likedSetFor(c, user)
	return c.JSON(s.reconciler.ReconcilePost(post, liked, user))
}

// ToggleLike handles POST /api/feed/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID := c.Params("id")
	if postID == "" {
		return respondError(c, models.NewValidationError("Post ID is required"))
	}

	user := s.currentUser(c)
	token := middleware.Token(c)

	result, err := s.toggler.Toggle(c.UserContext(), token, models.FlexID(postID), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// UpdateFeedItem handles PATCH /api/feed/:id
func (s *Server) UpdateFeedItem(c *fiber.Ctx) error {
	postID := c.Params("id")
	if postID == "" {
		return respondError(c, models.NewValidationError("Post ID is required"))
	}

	var req struct {
		Body *string  `json:"body"`
		Tags []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	patch := map[string]any{}
	if req.Body != nil {
		patch["content"] = *req.Body
	}
	if req.Tags != nil {
		patch["tags"] = req.Tags
	}
	if len(patch) == 0 {
		return respondError(c, models.NewValidationError("Nothing to update"))
	}

	user := s.currentUser(c)
	token := middleware.Token(c)

	post, err := s.upstream.UpdatePost(c.UserContext(), token, postID, patch)
	if err != nil {
		return respondError(c, err)
	}

	liked := s.likedSetFor(c, user)
	return c.JSON(s.reconciler.ReconcilePost(post, liked, user))
}

// DeleteFeedItem handles DELETE /api/feed/:id?confirm=true
func (s *Server) DeleteFeedItem(c *fiber.Ctx) error {
	postID := c.Params("id")
	if postID == "" {
		return respondError(c, models.NewValidationError("Post ID is required"))
	}
	if err := requireConfirmation(c); err != nil {
		return respondError(c, err)
	}

	token := middleware.Token(c)
	if err := s.upstream.DeletePost(c.UserContext(), token, postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
