package repository

import (
	"context"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, user.ID, "Jollof Deluxe", models.RecipeStatusApproved)

	first := &models.Comment{Content: "first", UserID: user.ID, RecipeID: recipe.ID}
	second := &models.Comment{Content: "second", UserID: user.ID, RecipeID: recipe.ID}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	comments, err := repo.ListByRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "chef", comments[0].User.Username)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCommentRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "chef")
	recipe := createTestRecipe(t, db, user.ID, "Egusi Soup", models.RecipeStatusApproved)

	comment := &models.Comment{Content: "original", UserID: user.ID, RecipeID: recipe.ID}
	require.NoError(t, repo.Create(ctx, comment))

	comment.Content = "edited"
	require.NoError(t, repo.Update(ctx, comment))

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, comment.ID))
	_, err = repo.GetByID(ctx, comment.ID)
	assert.Error(t, err)
}
