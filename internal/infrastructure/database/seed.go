package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/utils"
	"github.com/spf13/viper"
)

var allPermissions = []string{
	entity.PermissionProcessSales,
	entity.PermissionCloseTill,
	entity.PermissionManageTills,
	entity.PermissionViewReports,
}

var defaultRoles = []struct {
	name        string
	permissions []string
}{
	{name: entity.RoleAdmin, permissions: allPermissions},
	{name: entity.RoleCashier, permissions: []string{entity.PermissionProcessSales, entity.PermissionCloseTill}},
}

// SeedRepositories are the stores the default data is written through
type SeedRepositories struct {
	Users      repository.UserRepository
	Roles      repository.RoleRepository
	Customers  repository.CustomerRepository
	Tills      repository.TillRepository
	Products   repository.ProductRepository
	Composites repository.CompositeUnitRepository
}

// SeedDefaultData creates the roles, the admin account, the walk-in customer,
// a first till and a starter catalog when they are missing. It is safe to run
// on every start.
func SeedDefaultData(ctx context.Context, repos SeedRepositories) error {
	log.Println("Seeding default data...")

	for _, def := range defaultRoles {
		existing, err := repos.Roles.GetByName(ctx, def.name)
		if err != nil {
			return fmt.Errorf("failed to look up role %s: %w", def.name, err)
		}
		if existing != nil {
			continue
		}
		role := &entity.Role{Name: def.name, GuardName: "web"}
		for _, name := range def.permissions {
			role.Permissions = append(role.Permissions, entity.Permission{Name: name, GuardName: "web"})
		}
		if err := repos.Roles.Create(ctx, role); err != nil {
			log.Printf("Warning: failed to create %s role: %v", def.name, err)
		}
	}

	if err := seedAdmin(ctx, repos); err != nil {
		log.Printf("Warning: failed to create admin user: %v", err)
	}

	walkIn, err := repos.Customers.GetWalkIn(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up walk-in customer: %w", err)
	}
	if walkIn == nil {
		if err := repos.Customers.Create(ctx, &entity.Customer{
			Name:           "Walk-in Customer",
			IsWalkIn:       true,
			MembershipTier: enum.MembershipBronze,
		}); err != nil {
			return fmt.Errorf("failed to create walk-in customer: %w", err)
		}
	}

	tills, err := repos.Tills.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tills: %w", err)
	}
	if len(tills) == 0 {
		if err := repos.Tills.Create(ctx, &entity.Till{Code: "T01", Name: "Front Till", Status: enum.TillStatusClosed}); err != nil {
			return fmt.Errorf("failed to create till: %w", err)
		}
	}

	if err := seedCatalog(ctx, repos); err != nil {
		log.Printf("Warning: failed to seed catalog: %v", err)
	}

	log.Println("Default data seeding completed")
	return nil
}

// seedAdmin creates the admin account configured via ADMIN_EMAIL and ADMIN_PASSWORD
func seedAdmin(ctx context.Context, repos SeedRepositories) error {
	adminEmail := strings.ToLower(viper.GetString("ADMIN_EMAIL"))
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	existing, err := repos.Users.GetByEmail(ctx, adminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("Admin user already exists: %s", adminEmail)
		return nil
	}

	role, err := repos.Roles.GetByName(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("admin role missing")
	}

	hashedPassword, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	if adminName == "" {
		adminName = "Store Admin"
	}
	firstName, lastName, _ := strings.Cut(adminName, " ")

	if err := repos.Users.Create(ctx, &entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  strings.SplitN(adminEmail, "@", 2)[0],
		Email:     adminEmail,
		Password:  hashedPassword,
		IsActive:  true,
		Roles:     []entity.Role{*role},
	}); err != nil {
		return err
	}
	log.Printf("Admin user created: %s", adminEmail)
	return nil
}

// seedCatalog adds a handful of products to an empty catalog
func seedCatalog(ctx context.Context, repos SeedRepositories) error {
	existing, err := repos.Products.GetByCode(ctx, "EGG-1")
	if err != nil || existing != nil {
		return err
	}

	products := []entity.Product{
		{Name: "Egg", Code: "EGG-1", SellingPrice: 2000, Quantity: 360, QuantityAlert: 60, TrackInventory: true, IsActive: true},
		{Name: "White Bread 400g", Code: "BRD-400", SellingPrice: 6000, Quantity: 40, QuantityAlert: 10, TrackInventory: true, IsActive: true},
		{Name: "Milk 500ml", Code: "MLK-500", SellingPrice: 5500, Quantity: 60, QuantityAlert: 12, TrackInventory: true, IsActive: true},
		{Name: "Carrier Bag", Code: "BAG", SellingPrice: 1000, TrackInventory: false, IsActive: true},
	}
	for i := range products {
		if err := repos.Products.Create(ctx, &products[i]); err != nil {
			return err
		}
	}

	return repos.Composites.Create(ctx, &entity.CompositeUnit{
		Name:                "Egg Tray (30)",
		Code:                "EGG-30",
		BaseProductID:       products[0].ID,
		BaseQuantityPerUnit: 30,
		SellingPrice:        55000,
		IsActive:            true,
	})
}
