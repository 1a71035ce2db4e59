package server

import (
	"glimpse/internal/feed"
	"glimpse/internal/middleware"
	"glimpse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/feed/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID := c.Params("id")
	if postID == "" {
		return respondError(c, models.NewValidationError("Post ID is required"))
	}

	user := s.currentUser(c)
	token := middleware.Token(c)

	comments, err := s.upstream.ListComments(c.UserContext(), token, postID)
	if err != nil {
		return respondError(c, err)
	}

	thread := feed.NewThread(s.resolver, comments, 0, user)
	items := thread.Items
	if items == nil {
		items = []feed.CommentItem{}
	}
	return c.JSON(fiber.Map{
		"items": items,
		"count": thread.Count(),
	})
}

// CreateComment handles POST /api/feed/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID := c.Params("id")
	if postID == "" {
		return respondError(c, models.NewValidationError("Post ID is required"))
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}
	// Reject empty text before the round trip.
	if err := feed.ValidateCommentText(req.Content); err != nil {
		return respondError(c, err)
	}

	user := s.currentUser(c)
	token := middleware.Token(c)

	resp, err := s.upstream.CreateComment(c.UserContext(), token, postID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	// Synthesize the view item from the (possibly partial) create response so
	// the new comment renders without a re-fetch.
	thread := feed.NewThread(s.resolver, nil, 0, user)
	item, err := thread.Append(resp, req.Content, user)
	if err != nil {
		return respondError(c, err)
	}
	if item.PostID.IsZero() {
		item.PostID = models.FlexID(postID)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateComment handles PATCH /api/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID := c.Params("commentId")
	if commentID == "" {
		return respondError(c, models.NewValidationError("Comment ID is required"))
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}
	if err := feed.ValidateCommentText(req.Content); err != nil {
		return respondError(c, err)
	}

	user := s.currentUser(c)
	token := middleware.Token(c)
	resp, err := s.upstream.UpdateComment(c.UserContext(), token, commentID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	// Reconcile the (possibly partial) server echo the same way the create
	// path does, with the submitted text outranking the echoed body.
	seed := models.Comment{ID: models.FlexID(commentID)}
	if resp != nil {
		seed = *resp
		if seed.ID.IsZero() {
			seed.ID = models.FlexID(commentID)
		}
	}
	thread := feed.NewThread(s.resolver, []models.Comment{seed}, 0, user)
	item, err := thread.Edit(seed.ID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// DeleteComment handles DELETE /api/comments/:commentId?confirm=true
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID := c.Params("commentId")
	if commentID == "" {
		return respondError(c, models.NewValidationError("Comment ID is required"))
	}
	if err := requireConfirmation(c); err != nil {
		return respondError(c, err)
	}

	token := middleware.Token(c)
	if err := s.upstream.DeleteComment(c.UserContext(), token, commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
