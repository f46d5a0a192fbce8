package seed

import (
	"os"
	"path/filepath"
	"testing"

	"ladle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
users:
  - username: chef_ama
    email: ama@example.com
    role: user
  - username: mod
    email: mod@example.com
    role: admin
recipes:
  - title: Jollof Deluxe
    ingredients: rice, tomatoes, scotch bonnet
    author: chef_ama
    status: approved
  - title: Okra Stew
    ingredients: okra, palm oil
    author: chef_ama
  - title: Burnt Toast
    ingredients: bread
    author: chef_ama
    status: rejected
    admin_note: please retake the photo
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApplyFixture(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	fixture, err := LoadFixture(writeFixture(t, fixtureYAML))
	require.NoError(t, err)
	require.NoError(t, s.ApplyFixture(fixture))

	var admin models.User
	require.NoError(t, db.Where("username = ?", "mod").First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	var recipes []models.Recipe
	require.NoError(t, db.Order("id").Find(&recipes).Error)
	require.Len(t, recipes, 3)
	assert.Equal(t, models.RecipeStatusApproved, recipes[0].Status)
	// Status defaults to pending when the fixture omits it.
	assert.Equal(t, models.RecipeStatusPending, recipes[1].Status)
	assert.Equal(t, "please retake the photo", recipes[2].AdminNote)
}

func TestApplyFixture_UnknownAuthor(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db)

	err := s.ApplyFixture(&Fixture{
		Recipes: []FixtureRecipe{{Title: "Orphan Dish", Author: "ghost"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown author")
}

func TestLoadFixture_BadYAML(t *testing.T) {
	_, err := LoadFixture(writeFixture(t, "users: [not: valid: yaml"))
	require.Error(t, err)
}
