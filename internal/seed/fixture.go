package seed

import (
	"fmt"
	"os"

	"ladle/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Fixture describes a deterministic data set loaded from a YAML file,
// as an alternative to generated data. Recipes reference their author
// by username.
type Fixture struct {
	Users   []FixtureUser   `yaml:"users"`
	Recipes []FixtureRecipe `yaml:"recipes"`
}

// FixtureUser is a user entry in a fixture file.
type FixtureUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// FixtureRecipe is a recipe entry in a fixture file.
type FixtureRecipe struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Ingredients string `yaml:"ingredients"`
	Author      string `yaml:"author"`
	Status      string `yaml:"status"`
	AdminNote   string `yaml:"admin_note"`
}

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// ApplyFixture persists the fixture's users and recipes.
func (s *Seeder) ApplyFixture(fixture *Fixture) error {
	byUsername := make(map[string]*models.User, len(fixture.Users))

	for _, fu := range fixture.Users {
		if fu.Username == "" || fu.Email == "" {
			return fmt.Errorf("fixture user needs username and email")
		}
		role := models.RoleUser
		if fu.Role != "" {
			role = models.Role(fu.Role)
			if !role.Valid() {
				return fmt.Errorf("fixture user %q has unknown role %q", fu.Username, fu.Role)
			}
		}
		password := fu.Password
		if password == "" {
			password = "password123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := &models.User{
			Username: fu.Username,
			Email:    fu.Email,
			Password: string(hashed),
			Role:     role,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("create fixture user %q: %w", fu.Username, err)
		}
		byUsername[fu.Username] = user
	}

	for _, fr := range fixture.Recipes {
		author, ok := byUsername[fr.Author]
		if !ok {
			return fmt.Errorf("fixture recipe %q references unknown author %q", fr.Title, fr.Author)
		}
		status := models.RecipeStatusPending
		if fr.Status != "" {
			status = models.RecipeStatus(fr.Status)
			if !status.Valid() {
				return fmt.Errorf("fixture recipe %q has unknown status %q", fr.Title, fr.Status)
			}
		}

		recipe := &models.Recipe{
			Title:       fr.Title,
			Description: fr.Description,
			Ingredients: fr.Ingredients,
			Status:      status,
			AdminNote:   fr.AdminNote,
			UserID:      author.ID,
		}
		if err := s.db.Create(recipe).Error; err != nil {
			return fmt.Errorf("create fixture recipe %q: %w", fr.Title, err)
		}
	}

	return nil
}
