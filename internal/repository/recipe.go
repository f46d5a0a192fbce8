// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"ladle/internal/cache"
	"ladle/internal/models"
	"ladle/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository defines the interface for recipe data operations
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Recipe, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Recipe, error)
	List(ctx context.Context, status models.RecipeStatus, limit, offset int, currentUserID uint, sort string) ([]*models.Recipe, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Recipe, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.RecipeStatus) (int64, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	UpdateModeration(ctx context.Context, id uint, status models.RecipeStatus, adminNote string) (bool, error)
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, recipeID uint) (bool, error)
	Unlike(ctx context.Context, userID, recipeID uint) error
	IsLiked(ctx context.Context, userID, recipeID uint) (bool, error)
	CountLikes(ctx context.Context, recipeID uint) (int64, error)
	Rate(ctx context.Context, userID, recipeID uint, value int) error
	GetRating(ctx context.Context, userID, recipeID uint) (*models.Rating, error)
}

// recipeRepository implements RecipeRepository
type recipeRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db, log: observability.NewRepoLogger("recipes")}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).Create(recipe).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PendingCountKey)
		cache.Invalidate(ctx, cache.DashboardKey)
	}
	return err
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	key := cache.RecipeKey(id)

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, key, &recipe, cache.RecipeTTL, func() error {
			return r.applyRecipeDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&recipe, id).Error
		})
	} else {
		err = r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&recipe, id).Error
	}

	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	err := r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) List(ctx context.Context, status models.RecipeStatus, limit, offset int, currentUserID uint, sort string) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	base := r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User")
	if status != "" {
		base = base.Where("status = ?", status)
	}
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

// applySort appends the ORDER BY clause for the requested sort type.
// likes_count and avg_rating are SELECT aliases from applyRecipeDetails.
func (r *recipeRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("likes_count DESC, created_at DESC")
	case "rated":
		return db.Order("avg_rating DESC, ratings_count DESC")
	case "popular":
		return db.Order("views DESC, created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *recipeRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	like := "%" + query + "%"
	err := r.applyRecipeDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("status = ?", models.RecipeStatusApproved).
		Where("title LIKE ? OR ingredients LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).Count(&count).Error
	return count, err
}

func (r *recipeRepository) CountByStatus(ctx context.Context, status models.RecipeStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// applyRecipeDetails adds subqueries to fetch counts, rating aggregates and
// liked status in a single query.
func (r *recipeRepository) applyRecipeDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "recipes.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.recipe_id = recipes.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.recipe_id = recipes.id) as likes_count, " +
		"(SELECT COALESCE(AVG(ratings.value), 0) FROM ratings WHERE ratings.recipe_id = recipes.id) as avg_rating, " +
		"(SELECT COUNT(*) FROM ratings WHERE ratings.recipe_id = recipes.id) as ratings_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.recipe_id = recipes.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return err
	}
	cache.InvalidateRecipe(ctx, recipe.ID)
	return nil
}

// UpdateModeration moves a recipe into the given status with a single
// conditional UPDATE. It returns false when the recipe was already in that
// status, which is what makes repeated approvals emit nothing.
func (r *recipeRepository) UpdateModeration(ctx context.Context, id uint, status models.RecipeStatus, adminNote string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND status <> ?", id, status).
		Updates(map[string]interface{}{
			"status":     status,
			"admin_note": adminNote,
		})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update_moderation")
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.InvalidateRecipe(ctx, id)
		r.log.LogWrite(ctx, "update_moderation", map[string]interface{}{
			"recipe_id": id,
			"status":    status,
		})
	}
	return result.RowsAffected > 0, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Recipe{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}

// IncrementViews bumps the view counter in the database so concurrent reads
// never lose increments.
func (r *recipeRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// Like inserts the (user, recipe) pair, relying on the unique index to make
// concurrent duplicate likes collapse into one row. Returns whether a new
// like was recorded.
func (r *recipeRepository) Like(ctx context.Context, userID, recipeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(&models.Like{UserID: userID, RecipeID: recipeID})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.RecipeKey(recipeID))
	}
	return result.RowsAffected > 0, nil
}

func (r *recipeRepository) Unlike(ctx context.Context, userID, recipeID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.Invalidate(ctx, cache.RecipeKey(recipeID))
	}
	return err
}

func (r *recipeRepository) IsLiked(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) CountLikes(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error
	return count, err
}

// Rate upserts the caller's rating so a user holds at most one value per
// recipe.
func (r *recipeRepository) Rate(ctx context.Context, userID, recipeID uint, value int) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&models.Rating{UserID: userID, RecipeID: recipeID, Value: value}).Error
	if err == nil {
		cache.Invalidate(ctx, cache.RecipeKey(recipeID))
	}
	return err
}

func (r *recipeRepository) GetRating(ctx context.Context, userID, recipeID uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}
