package server

import (
	"ladle/internal/models"
	"ladle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/recipes/:id/comments
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), recipeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/recipes/:id/comments
// @Summary Comment on a recipe
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body object{content=string} true "Comment content"
// @Security BearerAuth
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		Identity: identity,
		RecipeID: recipeID,
		Content:  req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/recipes/:id/comments/:commentId
// @Summary Edit a comment
// @Description Edit a comment. The author or an admin may edit.
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param commentId path int true "Comment ID"
// @Param request body object{content=string} true "New content"
// @Security BearerAuth
// @Success 200 {object} models.Comment
// @Failure 403 {object} models.ErrorResponse
// @Router /recipes/{id}/comments/{commentId} [put]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		Identity:  identity,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/recipes/:id/comments/:commentId
// @Summary Delete a comment
// @Description Remove a comment. Admin only; authors cannot delete their own.
// @Tags comments
// @Param id path int true "Recipe ID"
// @Param commentId path int true "Comment ID"
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 403 {object} models.ErrorResponse
// @Router /recipes/{id}/comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	if _, err := s.commentService.DeleteComment(c.Context(), identity, commentID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
