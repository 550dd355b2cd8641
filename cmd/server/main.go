package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	analyticsapp "github.com/dropship/backend/internal/application/analytics"
	catalogapp "github.com/dropship/backend/internal/application/catalog"
	identityapp "github.com/dropship/backend/internal/application/identity"
	orderingapp "github.com/dropship/backend/internal/application/ordering"
	reviewapp "github.com/dropship/backend/internal/application/review"
	shoppingapp "github.com/dropship/backend/internal/application/shopping"
	"github.com/dropship/backend/internal/infrastructure/auth"
	"github.com/dropship/backend/internal/infrastructure/bootstrap"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/dropship/backend/internal/infrastructure/config"
	"github.com/dropship/backend/internal/infrastructure/logger"
	"github.com/dropship/backend/internal/infrastructure/migration"
	"github.com/dropship/backend/internal/infrastructure/persistence"
	"github.com/dropship/backend/internal/interfaces/http/handler"
	"github.com/dropship/backend/internal/interfaces/http/middleware"
	"github.com/dropship/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting dropshipping backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)

	// Run the startup sequence: apply migrations, then make sure the
	// admin account exists. Any failure here is fatal; the server never
	// starts against a half-prepared database.
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}

	sequencer := bootstrap.NewSequencer(migrator, userRepo, cfg, log)
	if err := sequencer.Run(context.Background()); err != nil {
		log.Fatal("Bootstrap sequence failed", zap.Error(err))
	}

	// Initialize cache (Redis when reachable, in-memory otherwise)
	appCache := cache.New(cfg.Cache, cfg.Redis, log)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	userService := identityapp.NewUserService(userRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, appCache, cfg.Cache.TTL, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	supplierService := catalogapp.NewSupplierService(supplierRepo, productRepo)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo)
	wishlistService := shoppingapp.NewWishlistService(wishlistRepo, productRepo)
	orderService := orderingapp.NewOrderService(orderRepo, cartRepo, productRepo, couponRepo, log)
	couponService := orderingapp.NewCouponService(couponRepo, log)
	reviewService := reviewapp.NewReviewService(reviewRepo, productRepo, orderRepo)
	dashboardService := analyticsapp.NewDashboardService(orderRepo, productRepo, userRepo, appCache, cfg.Cache.TTL, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, userService, cartService, log)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	cartHandler := handler.NewCartHandler(cartService)
	wishlistHandler := handler.NewWishlistHandler(wishlistService, cartService)
	orderHandler := handler.NewOrderHandler(orderService)
	couponHandler := handler.NewCouponHandler(couponService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Anonymous shoppers get a session key so their cart survives
	engine.Use(middleware.Session())

	// Health endpoints outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Setup API routes. Storefront routes are public or optionally
	// authenticated; admin routes require a superuser token.
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.OptionalJWTAuthMiddleware(jwtService))

	// Auth routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Storefront catalog routes
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/featured", productHandler.Featured)
	catalogRoutes.GET("/products/bestsellers", productHandler.Bestsellers)
	catalogRoutes.GET("/products/:slug", productHandler.GetBySlug)
	catalogRoutes.GET("/categories", categoryHandler.List)
	catalogRoutes.GET("/categories/:slug", categoryHandler.GetBySlug)
	catalogRoutes.GET("/categories/:slug/children", categoryHandler.Children)

	// Cart routes (session or account scoped)
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:id", cartHandler.UpdateItem)
	cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
	cartRoutes.DELETE("", cartHandler.Clear)

	// Wishlist routes (account only)
	wishlistRoutes := router.NewDomainGroup("wishlist", "/wishlist")
	wishlistRoutes.GET("", wishlistHandler.Get)
	wishlistRoutes.POST("/items/:id", wishlistHandler.AddProduct)
	wishlistRoutes.POST("/items/:id/move", wishlistHandler.MoveToCart)
	wishlistRoutes.DELETE("/items/:id", wishlistHandler.RemoveProduct)

	// Order routes
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("/checkout", orderHandler.Checkout)
	orderRoutes.GET("/track", orderHandler.Track)
	orderRoutes.GET("/mine", orderHandler.MyOrders)
	orderRoutes.GET("/mine/:id", orderHandler.MyOrder)

	// Review routes
	reviewRoutes := router.NewDomainGroup("reviews", "/reviews")
	reviewRoutes.GET("/product/:id", reviewHandler.ListByProduct)
	reviewRoutes.POST("/product/:id", reviewHandler.Submit)
	reviewRoutes.GET("/mine", reviewHandler.MyReviews)
	reviewRoutes.DELETE("/:id", reviewHandler.Delete)

	// Admin routes require a superuser token
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.JWTAuthMiddleware(jwtService), middleware.RequireSuperuser())

	adminRoutes.POST("/products", productHandler.Create)
	adminRoutes.GET("/products/:id", productHandler.GetByID)
	adminRoutes.PUT("/products/:id", productHandler.Update)
	adminRoutes.DELETE("/products/:id", productHandler.Delete)
	adminRoutes.POST("/products/:id/activate", productHandler.Activate)
	adminRoutes.POST("/products/:id/discontinue", productHandler.Discontinue)
	adminRoutes.POST("/products/:id/restock", productHandler.Restock)

	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.GET("/categories/:id", categoryHandler.GetByID)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)

	adminRoutes.POST("/suppliers", supplierHandler.Create)
	adminRoutes.GET("/suppliers", supplierHandler.List)
	adminRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	adminRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	adminRoutes.DELETE("/suppliers/:id", supplierHandler.Delete)
	adminRoutes.POST("/suppliers/:id/activate", supplierHandler.Activate)
	adminRoutes.POST("/suppliers/:id/deactivate", supplierHandler.Deactivate)
	adminRoutes.PUT("/suppliers/:id/credentials", supplierHandler.SetAPICredentials)
	adminRoutes.GET("/suppliers/:id/products", productHandler.ListBySupplier)

	adminRoutes.GET("/orders", orderHandler.List)
	adminRoutes.GET("/orders/:id", orderHandler.GetByID)
	adminRoutes.POST("/orders/:id/confirm", orderHandler.Confirm)
	adminRoutes.POST("/orders/:id/process", orderHandler.StartProcessing)
	adminRoutes.POST("/orders/:id/ship", orderHandler.Ship)
	adminRoutes.POST("/orders/:id/deliver", orderHandler.MarkDelivered)
	adminRoutes.POST("/orders/:id/pay", orderHandler.MarkPaid)
	adminRoutes.POST("/orders/:id/cancel", orderHandler.Cancel)
	adminRoutes.POST("/orders/:id/refund", orderHandler.Refund)

	adminRoutes.POST("/coupons", couponHandler.Create)
	adminRoutes.GET("/coupons", couponHandler.List)
	adminRoutes.GET("/coupons/:id", couponHandler.GetByID)
	adminRoutes.POST("/coupons/:id/activate", couponHandler.Activate)
	adminRoutes.POST("/coupons/:id/deactivate", couponHandler.Deactivate)
	adminRoutes.DELETE("/coupons/:id", couponHandler.Delete)

	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.GetByID)
	adminRoutes.POST("/users/:id/activate", userHandler.Activate)
	adminRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)

	adminRoutes.POST("/reviews/:id/approve", reviewHandler.Approve)
	adminRoutes.POST("/reviews/:id/reject", reviewHandler.Reject)

	adminRoutes.GET("/dashboard/stats", dashboardHandler.Stats)
	adminRoutes.GET("/dashboard/low-stock", dashboardHandler.LowStock)
	adminRoutes.GET("/dashboard/recent-orders", dashboardHandler.RecentOrders)
	adminRoutes.GET("/dashboard/top-products", dashboardHandler.TopProducts)
	adminRoutes.GET("/dashboard/revenue-trend", dashboardHandler.RevenueTrend)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)

	r.Register(authRoutes).
		Register(catalogRoutes).
		Register(cartRoutes).
		Register(wishlistRoutes).
		Register(orderRoutes).
		Register(reviewRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
