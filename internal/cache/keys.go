package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	RecipeKeyPrefix    = "recipe:%d"
	DashboardKey       = "admin:dashboard"
	PendingCountKey    = "recipes:pending:count"
	ApprovedListPrefix = "recipes:approved:page:%d:%d"
)

const (
	UserTTL         = 5 * time.Minute
	RecipeTTL       = 10 * time.Minute
	DashboardTTL    = 30 * time.Second
	ApprovedListTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(RecipeKeyPrefix, recipeID)
}

func ApprovedListKey(page, limit int) string {
	return fmt.Sprintf(ApprovedListPrefix, page, limit)
}

// Aside implements the cache-aside pattern: it fills dest from the cached
// value for key when present, otherwise calls load and stores dest under key
// with the given TTL. A nil or unreachable Redis client degrades to calling
// load directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client != nil {
		if raw, err := client.Get(ctx, key).Result(); err == nil {
			if json.Unmarshal([]byte(raw), dest) == nil {
				return nil
			}
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if data, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, data, ttl)
		}
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateRecipe drops the cached recipe plus the derived aggregates that
// include it.
func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
	Invalidate(ctx, DashboardKey)
	Invalidate(ctx, PendingCountKey)
}
