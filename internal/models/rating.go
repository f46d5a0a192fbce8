package models

import "time"

// Rating is a user's 1-5 score for a recipe. A user holds at most one
// rating per recipe; re-rating overwrites the previous value.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_rating_user_recipe" json:"recipe_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	Recipe Recipe `gorm:"foreignKey:RecipeID" json:"recipe"`
}

const (
	// RatingMin is the lowest accepted rating value.
	RatingMin = 1
	// RatingMax is the highest accepted rating value.
	RatingMax = 5
)
