package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a user comment on a recipe.
// The author or an admin may edit it; only an admin may delete it.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	RecipeID  uint           `gorm:"not null;index" json:"recipe_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
