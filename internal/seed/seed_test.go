package seed

import (
	"testing"

	"ladle/internal/database"
	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestSeedCreatesUsersAndAdmin(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 5, NumRecipes: 20}))

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(6), userCount)

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin@example.com", admin.Email)

	// Every seeded account uses the documented demo password.
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(admin.Password), []byte("password123")))
}

func TestSeedRecipeStatusesAreValid(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 3, NumRecipes: 30}))

	var recipes []models.Recipe
	require.NoError(t, db.Find(&recipes).Error)
	assert.Len(t, recipes, 30)
	for _, r := range recipes {
		assert.True(t, r.Status.Valid(), "recipe %d has status %q", r.ID, r.Status)
		if r.Status == models.RecipeStatusRejected {
			assert.NotEmpty(t, r.AdminNote)
		}
	}
}

func TestSeedEngagementRespectsUniqueConstraints(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 8, NumRecipes: 40}))

	var likeCount, distinctLikes int64
	db.Model(&models.Like{}).Count(&likeCount)
	db.Model(&models.Like{}).Distinct("user_id", "recipe_id").Count(&distinctLikes)
	assert.Equal(t, likeCount, distinctLikes)

	var ratings []models.Rating
	require.NoError(t, db.Find(&ratings).Error)
	for _, r := range ratings {
		assert.GreaterOrEqual(t, r.Value, models.RatingMin)
		assert.LessOrEqual(t, r.Value, models.RatingMax)
	}
}

func TestClearAllEmptiesTables(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumUsers: 2, NumRecipes: 5}))
	require.NoError(t, s.ClearAll())

	for _, model := range []interface{}{
		&models.User{}, &models.Recipe{}, &models.Comment{},
		&models.Like{}, &models.Rating{},
	} {
		var count int64
		db.Model(model).Count(&count)
		assert.Zero(t, count, "%T not cleared", model)
	}
}
