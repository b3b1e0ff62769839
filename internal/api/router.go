package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/zapastore/storefront/docs"
	"github.com/zapastore/storefront/internal/api/handler"
	"github.com/zapastore/storefront/internal/api/middleware"
	"github.com/zapastore/storefront/internal/core/domain"
	"github.com/zapastore/storefront/internal/core/ports"
	"github.com/zapastore/storefront/internal/core/service"
	"github.com/zapastore/storefront/internal/infrastructure/config"
	mongostore "github.com/zapastore/storefront/internal/infrastructure/db/mongo"
	redisstore "github.com/zapastore/storefront/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The catalog store and activity publisher are created by the caller so it
// can drive the periodic reload and worker lifecycle.
func NewRouter(
	cfg *config.Config,
	db *mongo.Database,
	rdb *redis.Client,
	catalog ports.CatalogService,
	products ports.ProductRepository,
	activity service.ActivityPublisher,
	logger zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	cartStore := redisstore.NewCartStore(rdb)
	checkoutGuard := redisstore.NewCheckoutGuard(rdb)
	cartManager := service.NewCartManager(
		catalog, cartStore, checkoutGuard, activity,
		cfg.ShippingFee, cfg.FreeShippingMin, logger,
	)
	cartHandler := handler.NewCartHandler(cartManager)

	catalogHandler := handler.NewCatalogHandler(catalog, products)

	// --- Catalog routes (public) ---
	e.GET("/products", catalogHandler.List)
	e.GET("/products/category/:category", catalogHandler.ListByCategory)
	e.GET("/products/search/:term", catalogHandler.Search)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Cart routes (authenticated) ---
	cart := e.Group("/v1/cart", authMiddleware)
	cart.GET("", cartHandler.Get)
	cart.POST("/items", cartHandler.AddItem)
	cart.PATCH("/items/:index", cartHandler.ChangeQuantity)
	cart.DELETE("/items/:index", cartHandler.RemoveItem)
	cart.POST("/checkout", cartHandler.Checkout)

	// --- Admin routes ---
	admin := e.Group("/v1", authMiddleware, adminOnly)
	admin.POST("/products", catalogHandler.Create)
	admin.PUT("/products/:id", catalogHandler.Update)
	admin.POST("/catalog/refresh", catalogHandler.Refresh)

	// --- Status probes (no auth required) ---
	statusHandler := handler.NewStatusHandler()
	statusDepsHandler := handler.NewStatusDependenciesHandler(db, rdb)

	e.GET("/status", statusHandler.Liveness)
	e.GET("/status/ready", statusDepsHandler.Readiness)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
