package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/application/service"
	"github.com/sangkips/tillpoint-api/internal/config"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/database"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/memory"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/repository"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/handler"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/middleware"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/routes"
	"github.com/sangkips/tillpoint-api/pkg/identifier"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// backend is the persistence selected by STORAGE_DRIVER
type backend struct {
	repos      memory.Repositories
	transactor domainRepo.Transactor
	sessions   domainRepo.SessionStore
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var store *backend
	switch cfg.Storage.Driver {
	case "memory":
		log.Printf("Using in-memory storage; data is lost on restart")
		store = newMemoryBackend()
	default:
		var err error
		store, err = newPostgresBackend(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	// Seed default data
	if cfg.Storage.Seed {
		if err := database.SeedDefaultData(context.Background(), database.SeedRepositories{
			Users:      store.repos.Users,
			Roles:      store.repos.Roles,
			Customers:  store.repos.Customers,
			Tills:      store.repos.Tills,
			Products:   store.repos.Products,
			Composites: store.repos.Composites,
		}); err != nil {
			log.Printf("Warning: Failed to seed default data: %v", err)
		}
	}

	ids, err := newIdentifierGenerator(&cfg.Identifier)
	if err != nil {
		log.Fatalf("Invalid identifier configuration: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize services
	r := store.repos
	inventoryService := service.NewInventoryService(r.Products, r.Composites)
	loyaltyService := service.NewLoyaltyService(r.Customers, r.Loyalty, cfg.Loyalty)
	voidService := service.NewVoidService(r.Voids)
	cartService := service.NewCartService(store.transactor, r.Cart, inventoryService, voidService, cfg.POS.TaxRate)
	heldService := service.NewHeldService(store.transactor, r.Held, r.Cart, inventoryService, cartService, voidService)
	saleService := service.NewSaleService(store.transactor, r.Cart, r.Sales, r.Customers, r.Tills,
		inventoryService, loyaltyService, cartService, ids, cfg.POS)
	tillService := service.NewTillService(store.transactor, r.Tills, r.TillSessions, r.CashDrops, r.TillClosings,
		r.Sales, r.Cart, r.Held, store.sessions, cfg.Till)
	authService := service.NewAuthService(r.Users, r.Cart, store.sessions, jwtManager, cfg.Till.ReauthTTL)
	userService := service.NewUserService(r.Users, r.Roles)
	productService := service.NewProductService(r.Products, r.Composites)
	customerService := service.NewCustomerService(r.Customers)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService, loyaltyService),
		Cart:     handler.NewCartHandler(cartService),
		Held:     handler.NewHeldHandler(heldService),
		Sale:     handler.NewSaleHandler(saleService),
		Till:     handler.NewTillHandler(tillService),
		Void:     handler.NewVoidHandler(voidService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: r.Idempotency,
		Sessions:        store.sessions,
	})

	go middleware.PurgeExpiredIdempotencyKeys(context.Background(), r.Idempotency, time.Hour)

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s, storage: %s", cfg.App.Env, cfg.Storage.Driver)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func newMemoryBackend() *backend {
	s := memory.NewStore()
	return &backend{
		repos:      s.Repositories(),
		transactor: s,
		sessions:   session.NewMemoryStore(),
	}
}

func newPostgresBackend(cfg *config.Config) (*backend, error) {
	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		return nil, err
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	if cfg.Storage.Seed {
		if err := database.SeedRolesAndPermissions(db); err != nil {
			log.Printf("Warning: Failed to seed roles: %v", err)
		}
	}

	rdb, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	return &backend{
		repos: memory.Repositories{
			Users:        repository.NewUserRepository(db),
			Roles:        repository.NewRoleRepository(db),
			Products:     repository.NewProductRepository(db),
			Composites:   repository.NewCompositeUnitRepository(db),
			Customers:    repository.NewCustomerRepository(db),
			Loyalty:      repository.NewLoyaltyTransactionRepository(db),
			Cart:         repository.NewCartRepository(db),
			Held:         repository.NewHeldTransactionRepository(db),
			Sales:        repository.NewSaleRepository(db),
			Tills:        repository.NewTillRepository(db),
			TillSessions: repository.NewTillSessionRepository(db),
			CashDrops:    repository.NewCashDropRepository(db),
			TillClosings: repository.NewTillClosingRepository(db),
			Voids:        repository.NewVoidRecordRepository(db),
			Idempotency:  repository.NewIdempotencyRepository(db),
		},
		transactor: repository.NewTransactor(db),
		sessions:   session.NewRedisStore(rdb),
	}, nil
}

func newIdentifierGenerator(cfg *config.IdentifierConfig) (*identifier.Generator, error) {
	txFormat, err := identifier.ParseTransactionFormat(cfg.TransactionFormat)
	if err != nil {
		return nil, err
	}
	receiptFormat, err := identifier.ParseReceiptFormat(cfg.ReceiptFormat)
	if err != nil {
		return nil, err
	}
	return identifier.NewGenerator(identifier.Config{
		TransactionFormat: txFormat,
		TransactionPrefix: cfg.TransactionPrefix,
		RandomLength:      cfg.RandomLength,
		ReceiptFormat:     receiptFormat,
		ReceiptPrefix:     cfg.ReceiptPrefix,
		Separator:         cfg.Separator,
		ReceiptPadding:    cfg.ReceiptPadding,
	}), nil
}
