package models

import (
	"time"

	"gorm.io/gorm"
)

// RecipeStatus defines the moderation lifecycle states of a recipe.
type RecipeStatus string

const (
	// RecipeStatusPending indicates the recipe is awaiting admin review.
	RecipeStatusPending RecipeStatus = "pending"
	// RecipeStatusApproved indicates the recipe passed review and is public.
	RecipeStatusApproved RecipeStatus = "approved"
	// RecipeStatusRejected indicates the recipe was turned down by an admin.
	RecipeStatusRejected RecipeStatus = "rejected"
)

// Valid reports whether s is one of the known lifecycle states.
func (s RecipeStatus) Valid() bool {
	switch s {
	case RecipeStatusPending, RecipeStatusApproved, RecipeStatusRejected:
		return true
	}
	return false
}

// Recipe represents a recipe submission in the Ladle application.
// A recipe enters the store as pending and is only ever moved between
// states by admin moderation; rejection keeps the row (status update,
// never a delete).
type Recipe struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Ingredients string       `gorm:"type:text" json:"ingredients"`
	ImageURL    string       `json:"image_url"`
	Status      RecipeStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// AdminNote is meaningful only while status is rejected; approval clears it.
	AdminNote string `gorm:"type:text" json:"admin_note"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	Views     uint   `gorm:"not null;default:0" json:"views"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this recipe (computed)
	Liked bool `gorm:"->" json:"liked"`
	// AvgRating is the mean of all rating values, 0 when unrated (computed)
	AvgRating float64 `gorm:"->" json:"avg_rating"`
	// RatingsCount is not persisted; computed at query time
	RatingsCount int            `gorm:"->" json:"ratings_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
