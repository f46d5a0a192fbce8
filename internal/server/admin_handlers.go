package server

import (
	"ladle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard handles GET /api/admin/dashboard
// @Summary Admin dashboard
// @Description Aggregate counters plus the head of the moderation queue
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/dashboard [get]
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	dash, err := s.moderationService.GetDashboard(c.Context(), identity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dash)
}

// GetPendingRecipes handles GET /api/admin/recipes/pending
// @Summary Moderation queue
// @Description List pending recipes, oldest submissions first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/recipes/pending [get]
func (s *Server) GetPendingRecipes(c *fiber.Ctx) error {
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	recipes, err := s.moderationService.ListPending(c.Context(), identity, page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipes)
}

// ApproveRecipe handles PUT /api/admin/recipes/:id/approve
// @Summary Approve a recipe
// @Description Move a recipe to approved. Approving an approved recipe is a no-op.
// @Tags admin
// @Produce json
// @Param id path int true "Recipe ID"
// @Security BearerAuth
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/recipes/{id}/approve [put]
func (s *Server) ApproveRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	recipe, err := s.moderationService.ApproveRecipe(c.Context(), identity, recipeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

// RejectRecipe handles PUT /api/admin/recipes/:id/reject
// @Summary Reject a recipe
// @Description Move a recipe to rejected with an optional note for the author.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body object{admin_note=string} false "Rejection note"
// @Security BearerAuth
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/recipes/{id}/reject [put]
func (s *Server) RejectRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		AdminNote string `json:"admin_note"`
	}
	// The body is optional; a missing note falls back to the default.
	_ = c.BodyParser(&req)

	recipe, err := s.moderationService.RejectRecipe(c.Context(), identity, recipeID, req.AdminNote)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

// SetUserRole handles PUT /api/admin/users/:id/role
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "New role"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (s *Server) SetUserRole(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.SetRole(c.Context(), identity, userID, models.Role(req.Role))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/users [get]
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}
