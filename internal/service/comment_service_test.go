package service

import (
	"context"
	"strings"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentService_CreateComment(t *testing.T) {
	t.Parallel()

	t.Run("valid comment stored", func(t *testing.T) {
		t.Parallel()
		comments := noopCommentRepo()
		var created *models.Comment
		comments.createFn = func(_ context.Context, comment *models.Comment) error {
			comment.ID = 5
			created = comment
			return nil
		}
		svc := NewCommentService(comments, noopRecipeRepo())

		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			Identity: userIdentity,
			RecipeID: 1,
			Content:  "  needs more pepper  ",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "needs more pepper", created.Content)
		assert.Equal(t, userIdentity.UserID, created.UserID)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopRecipeRepo())
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			Identity: userIdentity,
			RecipeID: 1,
			Content:  "   ",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("content too long rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(noopCommentRepo(), noopRecipeRepo())
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			Identity: userIdentity,
			RecipeID: 1,
			Content:  strings.Repeat("x", 10001),
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("missing recipe", func(t *testing.T) {
		t.Parallel()
		recipes := noopRecipeRepo()
		recipes.getByIDFn = func(_ context.Context, _, _ uint) (*models.Recipe, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := NewCommentService(noopCommentRepo(), recipes)
		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			Identity: userIdentity,
			RecipeID: 404,
			Content:  "hello",
		})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_UpdateComment_OwnerOrAdmin(t *testing.T) {
	t.Parallel()

	author := uint(7)
	newRepo := func() *commentRepoStub {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: author, Content: "old"}, nil
		}
		return comments
	}
	ctx := context.Background()

	t.Run("author can edit", func(t *testing.T) {
		t.Parallel()
		comments := newRepo()
		var saved *models.Comment
		comments.updateFn = func(_ context.Context, comment *models.Comment) error {
			saved = comment
			return nil
		}
		svc := NewCommentService(comments, noopRecipeRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{
			Identity:  models.Identity{UserID: author},
			CommentID: 1,
			Content:   "new",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "new", saved.Content)
	})

	t.Run("stranger cannot edit", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(newRepo(), noopRecipeRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{
			Identity:  models.Identity{UserID: 1},
			CommentID: 1,
			Content:   "new",
		})
		assertAppErrorCode(t, err, models.CodePermissionDenied)
	})

	t.Run("admin can edit someone else's comment", func(t *testing.T) {
		t.Parallel()
		comments := newRepo()
		var saved *models.Comment
		comments.updateFn = func(_ context.Context, comment *models.Comment) error {
			saved = comment
			return nil
		}
		svc := NewCommentService(comments, noopRecipeRepo())
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{
			Identity:  adminIdentity,
			CommentID: 1,
			Content:   "moderated",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "moderated", saved.Content)
	})
}

func TestCommentService_DeleteComment_AdminOnly(t *testing.T) {
	t.Parallel()

	author := uint(7)
	newRepo := func() *commentRepoStub {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: author}, nil
		}
		return comments
	}
	ctx := context.Background()

	t.Run("admin can delete", func(t *testing.T) {
		t.Parallel()
		comments := newRepo()
		deleted := false
		comments.deleteFn = func(_ context.Context, _ uint) error {
			deleted = true
			return nil
		}
		svc := NewCommentService(comments, noopRecipeRepo())
		_, err := svc.DeleteComment(ctx, adminIdentity, 1)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("author cannot delete their own comment", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(newRepo(), noopRecipeRepo())
		_, err := svc.DeleteComment(ctx, models.Identity{UserID: author}, 1)
		assertAppErrorCode(t, err, models.CodePermissionDenied)
	})
}
