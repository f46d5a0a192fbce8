package service

import (
	"context"
	"errors"
	"strings"

	"ladle/internal/models"
	"ladle/internal/repository"

	"gorm.io/gorm"
)

// CommentService manages comments on recipes. The author or an admin may
// edit a comment, but removal is reserved for admins.
type CommentService struct {
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, recipeRepo repository.RecipeRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, recipeRepo: recipeRepo}
}

// CreateCommentInput carries a new comment.
type CreateCommentInput struct {
	Identity models.Identity
	RecipeID uint
	Content  string
}

// UpdateCommentInput carries a comment edit.
type UpdateCommentInput struct {
	Identity  models.Identity
	CommentID uint
	Content   string
}

const maxCommentLen = 10000

// CreateComment adds a comment to a recipe.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.recipeRepo.GetByID(ctx, in.RecipeID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", in.RecipeID)
		}
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content:  content,
		UserID:   in.Identity.UserID,
		RecipeID: in.RecipeID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the comments on a recipe, newest first.
func (s *CommentService) ListComments(ctx context.Context, recipeID uint) ([]*models.Comment, error) {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", recipeID)
		}
		return nil, err
	}
	return s.commentRepo.ListByRecipe(ctx, recipeID)
}

// UpdateComment edits a comment. The author or an admin may edit; note the
// asymmetry with DeleteComment, where the author has no say.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.getComment(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.Identity.UserID && !in.Identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("You can only update your own comments")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment. Only admins may delete comments, even the
// author's own.
func (s *CommentService) DeleteComment(ctx context.Context, identity models.Identity, commentID uint) (*models.Comment, error) {
	if !identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("Only admins can delete comments")
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) getComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	return comment, nil
}
