// Command migrate applies the database schema explicitly. Production
// deployments disable automatic migration on connect, so this runs it
// as a deliberate step.
package main

import (
	"log"

	"ladle/internal/config"
	"ladle/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migration applied")
}
