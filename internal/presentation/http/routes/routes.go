package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/handler"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/middleware"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Cart     *handler.CartHandler
	Held     *handler.HeldHandler
	Sale     *handler.SaleHandler
	Till     *handler.TillHandler
	Void     *handler.VoidHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Sessions        domainRepo.SessionStore
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig(&deps.Cfg.RateLimit))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		registerAuthRoutes(v1, h, rateLimiter)

		// Authenticated routes, limited per user
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware(deps.JWTManager))
		authed.Use(rateLimiter.Middleware())
		authed.Use(middleware.SelectedTill(deps.Sessions))

		// Reachable while a re-authentication is pending
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/reauth", h.Auth.Reauthenticate)
		authed.GET("/auth/me", h.Auth.Me)

		fresh := authed.Group("")
		fresh.Use(middleware.RequireFreshSession(deps.Sessions))
		registerProtectedRoutes(fresh, h, deps)
	}

	return router
}

func rateLimiterConfig(cfg *config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return rl
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, rateLimiter *middleware.RateLimiter) {
	auth := v1.Group("/auth")
	auth.Use(rateLimiter.Middleware())
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Catalog
	registerProductRoutes(protected, h)

	// Loyalty customers
	registerCustomerRoutes(protected, h)

	// Cart, held transactions and checkout
	registerSaleRoutes(protected, h, deps)

	// Tills
	registerTillRoutes(protected, h)

	// Void audit trail
	voids := protected.Group("/voids")
	voids.Use(middleware.RequirePermission(entity.PermissionViewReports))
	voids.GET("", h.Void.List)

	// Staff (Admin)
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/code/:code", h.Product.GetByCode)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/composites", h.Product.CompositeUnits)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(entity.PermissionProcessSales))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.GET("/:id/loyalty", h.Customer.Loyalty)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos := protected.Group("")
	pos.Use(middleware.RequirePermission(entity.PermissionProcessSales))

	cart := pos.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/lines", h.Cart.AddLine)
		cart.PATCH("/lines/:id", h.Cart.UpdateLine)
		cart.DELETE("/lines/:id", h.Cart.RemoveLine)
		cart.POST("/lines/:id/void", h.Cart.VoidLine)
		cart.POST("/void", h.Cart.VoidCart)
	}

	held := pos.Group("/held")
	{
		held.GET("", h.Held.List)
		held.POST("", h.Held.Hold)
		held.GET("/:id", h.Held.Get)
		held.POST("/:id/resume", h.Held.Resume)
		held.POST("/:id/void", h.Held.Void)
	}

	pos.POST("/checkout", middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	}), h.Sale.Checkout)

	sales := pos.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/reprint", h.Sale.Reprint)
	}
}

func registerTillRoutes(protected *gin.RouterGroup, h *Handlers) {
	tills := protected.Group("/tills")
	{
		tills.GET("", h.Till.List)
		tills.POST("", middleware.RequirePermission(entity.PermissionManageTills), h.Till.Create)
		tills.GET("/:id", h.Till.Get)
		tills.POST("/:id/open", middleware.RequirePermission(entity.PermissionProcessSales), h.Till.Open)
		tills.POST("/:id/select", middleware.RequirePermission(entity.PermissionProcessSales), h.Till.Select)
		tills.POST("/drops", middleware.RequirePermission(entity.PermissionProcessSales), h.Till.CashDrop)
		tills.GET("/:id/expected", middleware.RequirePermission(entity.PermissionCloseTill), h.Till.Expected)
		tills.POST("/close", h.Till.Close)
		tills.GET("/:id/closings", middleware.RequirePermission(entity.PermissionViewReports), h.Till.Closings)
	}
}
