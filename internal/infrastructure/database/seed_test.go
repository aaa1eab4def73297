package database

import (
	"context"
	"testing"

	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/memory"
	"github.com/spf13/viper"
)

func TestSeedDefaultDataIsIdempotent(t *testing.T) {
	viper.Set("ADMIN_EMAIL", "Owner@Shop.test")
	viper.Set("ADMIN_PASSWORD", "changeme")
	viper.Set("ADMIN_NAME", "Shop Owner")
	t.Cleanup(viper.Reset)

	ctx := context.Background()
	r := memory.NewStore().Repositories()
	repos := SeedRepositories{
		Users:      r.Users,
		Roles:      r.Roles,
		Customers:  r.Customers,
		Tills:      r.Tills,
		Products:   r.Products,
		Composites: r.Composites,
	}

	for i := 0; i < 2; i++ {
		if err := SeedDefaultData(ctx, repos); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	cashier, _ := r.Roles.GetByName(ctx, entity.RoleCashier)
	if cashier == nil || len(cashier.Permissions) != 2 {
		t.Fatalf("cashier role = %+v", cashier)
	}

	admin, _ := r.Users.GetByEmail(ctx, "owner@shop.test")
	if admin == nil || admin.FirstName != "Shop" || admin.LastName != "Owner" {
		t.Fatalf("admin = %+v", admin)
	}
	withRoles, _ := r.Users.GetWithRoles(ctx, admin.ID)
	if !withRoles.HasRole(entity.RoleAdmin) {
		t.Error("admin user lacks the admin role")
	}

	walkIn, _ := r.Customers.GetWalkIn(ctx)
	if walkIn == nil {
		t.Error("walk-in customer missing")
	}
	tills, _ := r.Tills.List(ctx)
	if len(tills) != 1 {
		t.Errorf("tills = %d, want 1", len(tills))
	}
	egg, _ := r.Products.GetByCode(ctx, "EGG-1")
	if egg == nil {
		t.Fatal("catalog not seeded")
	}
	trays, _ := r.Composites.ListByBaseProduct(ctx, egg.ID)
	if len(trays) != 1 || trays[0].BaseQuantityPerUnit != 30 {
		t.Errorf("egg trays = %+v", trays)
	}
}
