package database

import (
	"fmt"
	"log"

	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},

		// Catalog
		&entity.Product{},
		&entity.CompositeUnit{},

		// Customers and loyalty
		&entity.Customer{},
		&entity.LoyaltyTransaction{},

		// Transaction lifecycle
		&entity.CartLine{},
		&entity.HeldTransaction{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.SalePayment{},
		&entity.VoidRecord{},

		// Tills
		&entity.Till{},
		&entity.TillSession{},
		&entity.CashDrop{},
		&entity.TillClosing{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedRolesAndPermissions creates the permission rows and the admin and cashier
// roles. Permissions are inserted before roles so the join rows get real IDs.
func SeedRolesAndPermissions(db *gorm.DB) error {
	log.Println("Seeding roles and permissions...")

	for _, name := range allPermissions {
		var existing entity.Permission
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			if err := db.Create(&entity.Permission{Name: name, GuardName: "web"}).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", name, err)
			}
		}
	}

	// Reload permissions with IDs
	var permissions []entity.Permission
	if err := db.Find(&permissions).Error; err != nil {
		return fmt.Errorf("failed to load permissions: %w", err)
	}

	for _, def := range defaultRoles {
		var role entity.Role
		if err := db.Where("name = ?", def.name).First(&role).Error; err == nil {
			continue
		}
		role = entity.Role{
			Name:        def.name,
			GuardName:   "web",
			Permissions: pickPermissions(permissions, def.permissions),
		}
		if err := db.Create(&role).Error; err != nil {
			log.Printf("Warning: failed to create %s role: %v", def.name, err)
		}
	}
	return nil
}

func pickPermissions(all []entity.Permission, names []string) []entity.Permission {
	var out []entity.Permission
	for _, name := range names {
		for _, p := range all {
			if p.Name == name {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
