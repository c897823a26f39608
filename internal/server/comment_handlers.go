package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/comment/:id
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	var req struct {
		Text   string `json:"text"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.AddComment(c.Context(), service.AddCommentInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(post)
}

// RemoveComment handles DELETE /api/posts/comment/:id/:comment_id
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := parseID(c, "id", "post ID")
	if err != nil {
		return nil
	}
	commentID, err := parseID(c, "comment_id", "comment ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.RemoveComment(c.Context(), service.RemoveCommentInput{
		UserID:    userID,
		PostID:    postID,
		CommentID: commentID,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(post)
}
