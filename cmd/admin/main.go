// Package main provides admin management utilities for Ladle.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"ladle/internal/config"
	"ladle/internal/database"
	"ladle/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>     - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>      - Demote user from admin")
		fmt.Println("  go run ./cmd/admin list-admins           - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch command := os.Args[1]; command {
	case "promote":
		setRole(db, requireUserID(), models.RoleAdmin)
	case "demote":
		setRole(db, requireUserID(), models.RoleUser)
	case "list-admins":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func requireUserID() uint {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run ./cmd/admin <promote|demote> <user_id>")
		os.Exit(1)
	}
	id, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil || id == 0 {
		log.Fatalf("Invalid user ID %q", os.Args[2])
	}
	return uint(id)
}

func setRole(db *gorm.DB, userID uint, role models.Role) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("User %d not found", userID)
		}
		log.Fatalf("Failed to load user %d: %v", userID, err)
	}

	if user.Role == role {
		fmt.Printf("User %s (%d) already has role %s\n", user.Username, user.ID, role)
		return
	}

	if err := db.Model(&user).Update("role", role).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("User %s (%d) is now %s\n", user.Username, user.ID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}
	for _, admin := range admins {
		fmt.Printf("%d\t%s\t%s\n", admin.ID, admin.Username, admin.Email)
	}
}
