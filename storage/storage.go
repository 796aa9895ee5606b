// Package storage opens the catalog store and prepares its schema.
package storage

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/greenbasket/storefront/config"
	"github.com/greenbasket/storefront/models"
)

// Open connects to the configured database and migrates the schema.
// Foreign key constraints are not created: deleting a category must leave
// its products in place, stale category_id and all.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// cart_items is a legacy table: migrated, never touched by a handler.
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Seed inserts a default admin and a demo customer when the users table is
// empty. Users are otherwise created out-of-band; no handler writes them.
func Seed(db *gorm.DB) error {
	users := models.NewUsersRepository(db)

	count, err := users.CountUsers()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", models.RoleAdmin},
		{"demo", "demo123", models.RoleCustomer},
	}

	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := users.CreateUser(&models.User{
			Username:     s.username,
			PasswordHash: string(hash),
			Role:         s.role,
		}); err != nil {
			return err
		}
		log.Printf("seeded user %q (role %s)", s.username, s.role)
	}
	return nil
}
