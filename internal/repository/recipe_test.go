package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepository_CreateDefaultsToPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := &models.Recipe{Title: "Jollof Deluxe", Ingredients: "rice", UserID: user.ID}
	require.NoError(t, repo.Create(ctx, recipe))

	got, err := repo.GetByID(ctx, recipe.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RecipeStatusPending, got.Status)
	assert.Equal(t, "Jollof Deluxe", got.Title)
}

func TestRecipeRepository_GetByIDComputesDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	recipe := createTestRecipe(t, db, author.ID, "Suya Skewers", models.RecipeStatusApproved)

	inserted, err := repo.Like(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, inserted)
	require.NoError(t, repo.Rate(ctx, fan.ID, recipe.ID, 4))
	require.NoError(t, db.Create(&models.Comment{Content: "tasty", UserID: fan.ID, RecipeID: recipe.ID}).Error)

	got, err := repo.GetByID(ctx, recipe.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, 1, got.RatingsCount)
	assert.InDelta(t, 4.0, got.AvgRating, 0.001)
	assert.True(t, got.Liked)

	// A stranger's view must not inherit the fan's liked flag.
	got, err = repo.GetByID(ctx, recipe.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
}

func TestRecipeRepository_LikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, user.ID, "Egusi Soup", models.RecipeStatusApproved)

	inserted, err := repo.Like(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Like(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, inserted, "second like of the same pair must not insert")

	count, err := repo.CountLikes(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Unlike(ctx, user.ID, recipe.ID))
	count, err = repo.CountLikes(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRecipeRepository_ConcurrentLikesDistinctUsers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	recipe := createTestRecipe(t, db, author.ID, "Moin Moin", models.RecipeStatusApproved)

	const n = 16
	users := make([]*models.User, n)
	for i := range users {
		users[i] = createTestUser(t, db, fmt.Sprintf("fan%d", i))
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, _ = repo.Like(ctx, userID, recipe.ID)
		}(u.ID)
	}
	wg.Wait()

	count, err := repo.CountLikes(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)
}

func TestRecipeRepository_RateUpsertsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, user.ID, "Pounded Yam", models.RecipeStatusApproved)

	require.NoError(t, repo.Rate(ctx, user.ID, recipe.ID, 2))
	require.NoError(t, repo.Rate(ctx, user.ID, recipe.ID, 5))

	rating, err := repo.GetRating(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Value)

	var total int64
	require.NoError(t, db.Model(&models.Rating{}).Where("recipe_id = ?", recipe.ID).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestRecipeRepository_UpdateModeration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, user.ID, "Okra Stew", models.RecipeStatusPending)

	changed, err := repo.UpdateModeration(ctx, recipe.ID, models.RecipeStatusApproved, "")
	require.NoError(t, err)
	assert.True(t, changed)

	// Approving an approved recipe changes nothing.
	changed, err = repo.UpdateModeration(ctx, recipe.ID, models.RecipeStatusApproved, "")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.UpdateModeration(ctx, recipe.ID, models.RecipeStatusRejected, "too salty")
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repo.GetByID(ctx, recipe.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RecipeStatusRejected, got.Status)
	assert.Equal(t, "too salty", got.AdminNote)
}

func TestRecipeRepository_IncrementViewsIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, user.ID, "Akara", models.RecipeStatusApproved)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementViews(ctx, recipe.ID)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, recipe.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(n), got.Views)
}

func TestRecipeRepository_ListFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	createTestRecipe(t, db, user.ID, "Approved One", models.RecipeStatusApproved)
	createTestRecipe(t, db, user.ID, "Pending One", models.RecipeStatusPending)
	createTestRecipe(t, db, user.ID, "Rejected One", models.RecipeStatusRejected)

	approved, err := repo.List(ctx, models.RecipeStatusApproved, 10, 0, 0, "new")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Approved One", approved[0].Title)

	all, err := repo.List(ctx, "", 10, 0, 0, "new")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := repo.CountByStatus(ctx, models.RecipeStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestRecipeRepository_SearchOnlyApproved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	createTestRecipe(t, db, user.ID, "Jollof Deluxe", models.RecipeStatusApproved)
	createTestRecipe(t, db, user.ID, "Jollof Draft", models.RecipeStatusPending)

	results, err := repo.Search(ctx, "Jollof", 10, 0, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Jollof Deluxe", results[0].Title)
}
