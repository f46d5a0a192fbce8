// Command main runs the database seeder for Ladle.
package main

import (
	"flag"
	"log"

	"ladle/internal/config"
	"ladle/internal/database"
	"ladle/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numRecipes := flag.Int("recipes", 200, "Number of recipes to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixturePath := flag.String("fixture", "", "Seed from a YAML fixture file instead of generating data")
	flag.Parse()

	log.Println("Database Seeder")
	if *fixturePath != "" {
		log.Printf("Fixture: %s, clean=%v\n", *fixturePath, *shouldClean)
	} else {
		log.Printf("Target: %d users, %d recipes, clean=%v\n", *numUsers, *numRecipes, *shouldClean)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *fixturePath != "" {
		fixture, err := seed.LoadFixture(*fixturePath)
		if err != nil {
			log.Fatalf("Fixture load failed: %v", err)
		}
		if *shouldClean {
			if err := s.ClearAll(); err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
		}
		if err := s.ApplyFixture(fixture); err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else if err := s.Seed(seed.Options{
		NumUsers:    *numUsers,
		NumRecipes:  *numRecipes,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done. Your database is now populated with demo data.")
	log.Println("All demo users have the password: password123")
}
