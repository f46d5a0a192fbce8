package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ladle/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures how much data the seeder generates.
type Options struct {
	NumUsers    int
	NumRecipes  int
	ShouldClean bool
}

// Seeder populates the database with generated demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rng     *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Rating{}, &models.Like{}, &models.Comment{},
		&models.Recipe{}, &models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database with an admin, users, recipes in every
// moderation state, and engagement rows (comments, likes, ratings).
func (s *Seeder) Seed(opts Options) error {
	log.Printf("Seeding %d users and %d recipes...", opts.NumUsers, opts.NumRecipes)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users (1 admin)", len(users))

	recipes, err := s.seedRecipes(users, opts.NumRecipes)
	if err != nil {
		return fmt.Errorf("failed to create recipes: %w", err)
	}
	log.Printf("created %d recipes", len(recipes))

	if err := s.seedEngagement(users, recipes); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	return nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count+1)

	admin, err := s.factory.CreateUser(string(hashed), func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@example.com"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser(string(hashed))
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// seedRecipes generates recipes weighted toward approved so the public
// feed looks alive, with enough pending rows to exercise the moderation
// queue.
func (s *Seeder) seedRecipes(users []*models.User, count int) ([]*models.Recipe, error) {
	recipes := make([]*models.Recipe, 0, count)
	for i := 0; i < count; i++ {
		user := users[s.rng.Intn(len(users))]

		var status models.RecipeStatus
		switch roll := s.rng.Intn(10); {
		case roll < 6:
			status = models.RecipeStatusApproved
		case roll < 9:
			status = models.RecipeStatusPending
		default:
			status = models.RecipeStatusRejected
		}

		recipes = append(recipes, s.factory.BuildRecipe(user, status))
	}
	if err := s.factory.CreateRecipesBatch(recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *Seeder) seedEngagement(users []*models.User, recipes []*models.Recipe) error {
	comments, likes, ratings := 0, 0, 0

	for _, recipe := range recipes {
		if recipe.Status != models.RecipeStatusApproved {
			continue
		}

		for i := 0; i < s.rng.Intn(4); i++ {
			user := users[s.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(user, recipe); err != nil {
				return err
			}
			comments++
		}

		// Pick a distinct subset of users per recipe so the unique
		// (user, recipe) constraints on likes and ratings hold.
		for _, idx := range s.rng.Perm(len(users))[:s.rng.Intn(len(users)+1)] {
			user := users[idx]
			if err := s.db.Create(&models.Like{
				UserID: user.ID, RecipeID: recipe.ID,
			}).Error; err != nil {
				return err
			}
			likes++

			if s.rng.Intn(2) == 0 {
				if err := s.db.Create(&models.Rating{
					UserID:   user.ID,
					RecipeID: recipe.ID,
					Value:    s.rng.Intn(models.RatingMax-models.RatingMin+1) + models.RatingMin,
				}).Error; err != nil {
					return err
				}
				ratings++
			}
		}
	}

	log.Printf("created %d comments, %d likes, %d ratings", comments, likes, ratings)
	return nil
}
