// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ladle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(hashedPassword string, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: hashedPassword,
		Role:     models.RoleUser,
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRecipe constructs a recipe struct without persisting it. Useful for
// batching.
func (f *Factory) BuildRecipe(user *models.User, status models.RecipeStatus, overrides ...func(*models.Recipe)) *models.Recipe {
	recipe := &models.Recipe{
		Title:       f.dishName(),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Ingredients: f.ingredientList(),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		Status:      status,
		UserID:      user.ID,
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	recipe.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	if status == models.RecipeStatusApproved {
		recipe.Views = uint(f.rng.Intn(5000))
	}
	if status == models.RecipeStatusRejected {
		recipe.AdminNote = gofakeit.Sentence(8)
	}

	for _, override := range overrides {
		override(recipe)
	}
	return recipe
}

// CreateRecipesBatch persists multiple recipes in a single DB call.
func (f *Factory) CreateRecipesBatch(recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	return f.db.Create(&recipes).Error
}

// CreateComment persists a generated comment by the given user on a recipe.
func (f *Factory) CreateComment(user *models.User, recipe *models.Recipe) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(gofakeit.Number(5, 20)),
		UserID:   user.ID,
		RecipeID: recipe.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) dishName() string {
	meals := []string{
		gofakeit.Dinner(), gofakeit.Lunch(), gofakeit.Breakfast(),
		gofakeit.Dessert(), gofakeit.Snack(),
	}
	return meals[f.rng.Intn(len(meals))]
}

func (f *Factory) ingredientList() string {
	n := f.rng.Intn(6) + 3
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if f.rng.Intn(2) == 0 {
			items = append(items, gofakeit.Vegetable())
		} else {
			items = append(items, gofakeit.Fruit())
		}
	}
	return strings.Join(items, ", ")
}
