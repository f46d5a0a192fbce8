// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"ladle/internal/models"
	"ladle/internal/notifications"
	"ladle/internal/observability"
	"ladle/internal/repository"

	"gorm.io/gorm"
)

// DefaultRejectionNote is recorded when an admin rejects without giving a reason.
const DefaultRejectionNote = "no reason provided"

// EventPublisher fans moderation and submission events out to connected
// observers. Implementations must deliver events to each observer in the
// order they were published.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) error
	PublishUserEvent(ctx context.Context, userID uint, eventType string, payload interface{}) error
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalRecipes    int64 `json:"total_recipes"`
	PendingRecipes  int64 `json:"pending_recipes"`
	ApprovedRecipes int64 `json:"approved_recipes"`
	RejectedRecipes int64 `json:"rejected_recipes"`
	TotalUsers      int64 `json:"total_users"`
	TotalComments   int64 `json:"total_comments"`
}

// Dashboard is the full admin dashboard payload: the counters plus the head
// of the moderation queue, read in one pass.
type Dashboard struct {
	Stats          DashboardStats   `json:"stats"`
	PendingRecipes []*models.Recipe `json:"pending_recipes"`
}

// ModerationService owns the recipe moderation state machine. Every mutation
// writes to the store first and publishes events only after the write
// succeeded, so observers never see an event for a state that was not
// persisted.
type ModerationService struct {
	recipeRepo  repository.RecipeRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	events      EventPublisher
	logger      *slog.Logger
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	events EventPublisher,
	logger *slog.Logger,
) *ModerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModerationService{
		recipeRepo:  recipeRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		events:      events,
		logger:      logger,
	}
}

// SubmitRecipeInput carries a new recipe submission.
type SubmitRecipeInput struct {
	Identity    models.Identity
	Title       string
	Description string
	Ingredients string
	ImageURL    string
}

// SubmitRecipe stores a new recipe in the pending state and announces it to
// the feed. Callers cannot choose a status; every submission starts pending.
func (s *ModerationService) SubmitRecipe(ctx context.Context, in SubmitRecipeInput) (*models.Recipe, error) {
	const maxTitleLen = 200

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Ingredients) == "" {
		return nil, models.NewValidationError("Ingredients are required")
	}

	recipe := &models.Recipe{
		Title:       title,
		Description: in.Description,
		Ingredients: in.Ingredients,
		ImageURL:    in.ImageURL,
		UserID:      in.Identity.UserID,
		Status:      models.RecipeStatusPending,
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}

	s.announceCreated(ctx, recipe)

	return s.recipeRepo.GetByID(ctx, recipe.ID, in.Identity.UserID)
}

// announceCreated publishes a submission to the feed. The created payload
// carries the author's display name and the fresh queue depth so feed clients
// can render the announcement from this one event; the depth is then repeated
// on its own pendingCount event for dashboard listeners.
func (s *ModerationService) announceCreated(ctx context.Context, recipe *models.Recipe) {
	if s.events == nil {
		return
	}

	payload := recipePayload(recipe)
	if author, err := s.userRepo.GetByID(ctx, recipe.UserID); err == nil {
		payload["author"] = author.Username
	} else {
		s.logger.ErrorContext(ctx, "author lookup for feed event failed",
			"user_id", recipe.UserID, "error", err)
	}

	count, err := s.recipeRepo.CountByStatus(ctx, models.RecipeStatusPending)
	if err != nil {
		s.logger.ErrorContext(ctx, "pending count read failed", "error", err)
		s.publish(ctx, notifications.EventRecipeCreated, payload)
		return
	}

	payload["pending_count"] = count
	s.publish(ctx, notifications.EventRecipeCreated, payload)
	s.publish(ctx, notifications.EventPendingCount, map[string]interface{}{"count": count})
}

// ApproveRecipe moves a recipe to approved and clears any rejection note.
// Approving an already-approved recipe succeeds without emitting events.
func (s *ModerationService) ApproveRecipe(ctx context.Context, identity models.Identity, recipeID uint) (*models.Recipe, error) {
	if !identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("Only admins can approve recipes")
	}

	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	changed, err := s.recipeRepo.UpdateModeration(ctx, recipeID, models.RecipeStatusApproved, "")
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if changed {
		observability.RecordModerationDecision("approved")
		s.publish(ctx, notifications.EventRecipeApproved, recipePayload(recipe))
		s.publishPendingCount(ctx)
		s.publishToOwner(ctx, recipe.UserID, notifications.EventRecipeApproved, recipePayload(recipe))
	}

	return s.recipeRepo.GetByID(ctx, recipeID, 0)
}

// RejectRecipe moves a recipe to rejected, recording the admin's note. A
// rejection is a status update; the row is never deleted. An empty note is
// replaced with DefaultRejectionNote.
func (s *ModerationService) RejectRecipe(ctx context.Context, identity models.Identity, recipeID uint, adminNote string) (*models.Recipe, error) {
	if !identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("Only admins can reject recipes")
	}

	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	note := strings.TrimSpace(adminNote)
	if note == "" {
		note = DefaultRejectionNote
	}

	changed, err := s.recipeRepo.UpdateModeration(ctx, recipeID, models.RecipeStatusRejected, note)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if changed {
		observability.RecordModerationDecision("rejected")
		payload := recipePayload(recipe)
		payload["admin_note"] = note
		s.publish(ctx, notifications.EventRecipeRejected, payload)
		s.publishPendingCount(ctx)
		s.publishToOwner(ctx, recipe.UserID, notifications.EventRecipeRejected, payload)
	}

	return s.recipeRepo.GetByID(ctx, recipeID, 0)
}

// ListPending returns the moderation queue, oldest submissions first.
func (s *ModerationService) ListPending(ctx context.Context, identity models.Identity, limit, offset int) ([]*models.Recipe, error) {
	if !identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("Only admins can view the moderation queue")
	}
	return s.pendingOldestFirst(ctx, identity.UserID, limit, offset)
}

// pendingOldestFirst loads the moderation queue in submission order.
func (s *ModerationService) pendingOldestFirst(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Recipe, error) {
	recipes, err := s.recipeRepo.List(ctx, models.RecipeStatusPending, limit, offset, viewerID, "new")
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recipes)-1; i < j; i, j = i+1, j-1 {
		recipes[i], recipes[j] = recipes[j], recipes[i]
	}
	return recipes, nil
}

// dashboardQueueLimit caps how much of the moderation queue the dashboard
// embeds; the full queue lives behind ListPending.
const dashboardQueueLimit = 50

// GetDashboard returns the admin dashboard: aggregate counters and the head
// of the moderation queue. The reads are independent, so they run
// concurrently; the result is a consistent-enough snapshot, not a
// transaction.
func (s *ModerationService) GetDashboard(ctx context.Context, identity models.Identity) (*Dashboard, error) {
	if !identity.IsAdmin() {
		return nil, models.NewPermissionDeniedError("Only admins can view the dashboard")
	}

	dash := &Dashboard{}
	stats := &dash.Stats
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record(fn())
		}()
	}

	run(func() (err error) { stats.TotalRecipes, err = s.recipeRepo.Count(ctx); return })
	run(func() (err error) {
		stats.PendingRecipes, err = s.recipeRepo.CountByStatus(ctx, models.RecipeStatusPending)
		return
	})
	run(func() (err error) {
		stats.ApprovedRecipes, err = s.recipeRepo.CountByStatus(ctx, models.RecipeStatusApproved)
		return
	})
	run(func() (err error) {
		stats.RejectedRecipes, err = s.recipeRepo.CountByStatus(ctx, models.RecipeStatusRejected)
		return
	})
	run(func() (err error) { stats.TotalUsers, err = s.userRepo.Count(ctx); return })
	run(func() (err error) { stats.TotalComments, err = s.commentRepo.Count(ctx); return })
	run(func() (err error) {
		dash.PendingRecipes, err = s.pendingOldestFirst(ctx, identity.UserID, dashboardQueueLimit, 0)
		return
	})

	wg.Wait()
	if firstErr != nil {
		return nil, models.NewInternalError(firstErr)
	}
	if dash.PendingRecipes == nil {
		dash.PendingRecipes = []*models.Recipe{}
	}
	return dash, nil
}

// getRecipe loads a recipe and maps a missing row to a NotFound error before
// any moderation write happens.
func (s *ModerationService) getRecipe(ctx context.Context, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recipe", recipeID)
		}
		return nil, err
	}
	return recipe, nil
}

// publish sends a broadcast event; delivery failures are logged, never
// surfaced, because the store write has already succeeded.
func (s *ModerationService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	observability.RecordFeedEvent(eventType)
	if err := s.events.PublishEvent(ctx, eventType, payload); err != nil {
		s.logger.ErrorContext(ctx, "feed event publish failed",
			"event", eventType, "error", err)
	}
}

func (s *ModerationService) publishToOwner(ctx context.Context, ownerID uint, eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishUserEvent(ctx, ownerID, eventType, payload); err != nil {
		s.logger.ErrorContext(ctx, "owner event publish failed",
			"event", eventType, "user_id", ownerID, "error", err)
	}
}

// publishPendingCount pushes the current moderation queue depth so admin
// dashboards update live.
func (s *ModerationService) publishPendingCount(ctx context.Context) {
	if s.events == nil {
		return
	}
	count, err := s.recipeRepo.CountByStatus(ctx, models.RecipeStatusPending)
	if err != nil {
		s.logger.ErrorContext(ctx, "pending count read failed", "error", err)
		return
	}
	s.publish(ctx, notifications.EventPendingCount, map[string]interface{}{"count": count})
}

func recipePayload(recipe *models.Recipe) map[string]interface{} {
	return map[string]interface{}{
		"id":      recipe.ID,
		"title":   recipe.Title,
		"user_id": recipe.UserID,
	}
}
