package service

import (
	"context"
	"errors"
	"log/slog"

	"ladle/internal/models"
	"ladle/internal/repository"

	"gorm.io/gorm"
)

// RecipeService provides read and engagement logic for recipes.
type RecipeService struct {
	recipeRepo repository.RecipeRepository
	logger     *slog.Logger
}

// NewRecipeService returns a new RecipeService.
func NewRecipeService(recipeRepo repository.RecipeRepository, logger *slog.Logger) *RecipeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecipeService{recipeRepo: recipeRepo, logger: logger}
}

// ListRecipesInput carries paging and filter options for recipe listings.
type ListRecipesInput struct {
	Identity models.Identity
	Status   models.RecipeStatus
	Limit    int
	Offset   int
	Sort     string
}

// ListRecipes returns recipes for the feed. Non-admin callers only ever see
// approved recipes regardless of the requested status filter.
func (s *RecipeService) ListRecipes(ctx context.Context, in ListRecipesInput) ([]*models.Recipe, error) {
	status := in.Status
	if !in.Identity.IsAdmin() {
		status = models.RecipeStatusApproved
	} else if status != "" && !status.Valid() {
		return nil, models.NewValidationError("Unknown recipe status")
	}
	return s.recipeRepo.List(ctx, status, in.Limit, in.Offset, in.Identity.UserID, in.Sort)
}

// SearchRecipes searches approved recipes by title or ingredient.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Recipe, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.recipeRepo.Search(ctx, query, limit, offset, currentUserID)
}

// GetRecipe fetches a single recipe and counts the view. Pending and
// rejected recipes are only visible to their owner and to admins.
func (s *RecipeService) GetRecipe(ctx context.Context, identity models.Identity, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID, identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", recipeID)
		}
		return nil, err
	}

	if recipe.Status != models.RecipeStatusApproved &&
		recipe.UserID != identity.UserID && !identity.IsAdmin() {
		return nil, models.NewNotFoundError("Recipe", recipeID)
	}

	if err := s.recipeRepo.IncrementViews(ctx, recipeID); err != nil {
		// A lost view count never blocks the read.
		s.logger.ErrorContext(ctx, "view increment failed", "recipe_id", recipeID, "error", err)
	} else {
		recipe.Views++
	}

	return recipe, nil
}

// GetUserRecipes lists recipes submitted by a given user.
func (s *RecipeService) GetUserRecipes(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Recipe, error) {
	return s.recipeRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// ToggleLike flips the caller's like on a recipe and returns the recipe with
// refreshed counters. The insert path relies on the unique (user, recipe)
// constraint, so two racing toggles settle into one like.
func (s *RecipeService) ToggleLike(ctx context.Context, identity models.Identity, recipeID uint) (*models.Recipe, error) {
	if _, err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	inserted, err := s.recipeRepo.Like(ctx, identity.UserID, recipeID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Already liked: the toggle removes it.
		if err := s.recipeRepo.Unlike(ctx, identity.UserID, recipeID); err != nil {
			return nil, err
		}
	}

	return s.recipeRepo.GetByID(ctx, recipeID, identity.UserID)
}

// RateRecipe records the caller's 1-5 rating, replacing any previous value.
// Out-of-range values are rejected, not clamped.
func (s *RecipeService) RateRecipe(ctx context.Context, identity models.Identity, recipeID uint, value int) (*models.Recipe, error) {
	if value < models.RatingMin || value > models.RatingMax {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}

	if _, err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	if err := s.recipeRepo.Rate(ctx, identity.UserID, recipeID, value); err != nil {
		return nil, err
	}

	return s.recipeRepo.GetByID(ctx, recipeID, identity.UserID)
}

// UpdateRecipeInput carries a recipe edit.
type UpdateRecipeInput struct {
	Identity    models.Identity
	RecipeID    uint
	Title       string
	Description string
	Ingredients string
	ImageURL    string
	// Status may only be set by admins.
	Status models.RecipeStatus
}

// UpdateRecipe edits a recipe. Owners may edit their own content; only
// admins may set the status directly.
func (s *RecipeService) UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.requireRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}

	if recipe.UserID != in.Identity.UserID && !in.Identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("You can only update your own recipes")
	}

	if in.Title != "" {
		recipe.Title = in.Title
	}
	if in.Description != "" {
		recipe.Description = in.Description
	}
	if in.Ingredients != "" {
		recipe.Ingredients = in.Ingredients
	}
	if in.ImageURL != "" {
		recipe.ImageURL = in.ImageURL
	}
	if in.Status != "" {
		if !in.Identity.IsAdmin() {
			return nil, models.NewPermissionDeniedError("Only admins can set recipe status")
		}
		if !in.Status.Valid() {
			return nil, models.NewValidationError("Unknown recipe status")
		}
		recipe.Status = in.Status
	}

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, in.RecipeID, in.Identity.UserID)
}

// DeleteRecipe removes a recipe. Owners may delete their own; admins any.
func (s *RecipeService) DeleteRecipe(ctx context.Context, identity models.Identity, recipeID uint) error {
	recipe, err := s.requireRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.UserID != identity.UserID && !identity.IsAdmin() {
		return models.NewPermissionDeniedError("You can only delete your own recipes")
	}
	return s.recipeRepo.Delete(ctx, recipeID)
}

func (s *RecipeService) requireRecipe(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", recipeID)
		}
		return nil, err
	}
	return recipe, nil
}
