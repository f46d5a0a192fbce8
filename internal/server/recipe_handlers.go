package server

import (
	"ladle/internal/models"
	"ladle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetRecipes handles GET /api/recipes
// @Summary List recipes
// @Description List recipes for the feed. Non-admin callers only see approved recipes.
// @Tags recipes
// @Produce json
// @Param status query string false "Status filter (admin only)"
// @Param sort query string false "Sort order: new, top, rated, popular"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Recipe
// @Router /recipes [get]
func (s *Server) GetRecipes(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	recipes, err := s.recipeService.ListRecipes(c.Context(), service.ListRecipesInput{
		Identity: s.optionalIdentity(c),
		Status:   models.RecipeStatus(c.Query("status")),
		Limit:    page.Limit,
		Offset:   page.Offset,
		Sort:     c.Query("sort", "new"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipes)
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get a recipe
// @Description Fetch a single recipe with engagement counters. Counts a view.
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.GetRecipe(c.Context(), s.optionalIdentity(c), recipeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

// SearchRecipes handles GET /api/recipes/search
// @Summary Search recipes
// @Description Search approved recipes by title or ingredient
// @Tags recipes
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {array} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes/search [get]
func (s *Server) SearchRecipes(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	identity := s.optionalIdentity(c)

	recipes, err := s.recipeService.SearchRecipes(c.Context(), c.Query("q"), page.Limit, page.Offset, identity.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipes)
}

// GetUserRecipes handles GET /api/users/:id/recipes
// @Summary List a user's recipes
// @Tags recipes
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {array} models.Recipe
// @Router /users/{id}/recipes [get]
func (s *Server) GetUserRecipes(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	recipes, err := s.recipeService.GetUserRecipes(c.Context(), userID, page.Limit, page.Offset, identity.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipes)
}

// SubmitRecipe handles POST /api/recipes
// @Summary Submit a recipe
// @Description Submit a new recipe. Every submission starts in the pending moderation queue.
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string,ingredients=string,image_url=string} true "Recipe submission"
// @Security BearerAuth
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes [post]
func (s *Server) SubmitRecipe(c *fiber.Ctx) error {
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Ingredients string `json:"ingredients"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.moderationService.SubmitRecipe(c.Context(), service.SubmitRecipeInput{
		Identity:    identity,
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// UpdateRecipe handles PUT /api/recipes/:id
// @Summary Update a recipe
// @Description Edit a recipe. Owners may edit their own; only admins may set status.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Security BearerAuth
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Router /recipes/{id} [put]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Ingredients string `json:"ingredients"`
		ImageURL    string `json:"image_url"`
		Status      string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.UpdateRecipe(c.Context(), service.UpdateRecipeInput{
		Identity:    identity,
		RecipeID:    recipeID,
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		ImageURL:    req.ImageURL,
		Status:      models.RecipeStatus(req.Status),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 403 {object} models.ErrorResponse
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	if err := s.recipeService.DeleteRecipe(c.Context(), identity, recipeID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/recipes/:id/like
// @Summary Toggle a like
// @Description Like the recipe, or remove the like if it already exists.
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Security BearerAuth
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	recipe, err := s.recipeService.ToggleLike(c.Context(), identity, recipeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}

// RateRecipe handles POST /api/recipes/:id/rate
// @Summary Rate a recipe
// @Description Record a 1-5 rating, replacing the caller's previous rating.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body object{value=int} true "Rating value"
// @Security BearerAuth
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes/{id}/rate [post]
func (s *Server) RateRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	identity, err := s.identity(c)
	if err != nil {
		return nil
	}

	var req struct {
		Value int `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	recipe, err := s.recipeService.RateRecipe(c.Context(), identity, recipeID, req.Value)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recipe)
}
