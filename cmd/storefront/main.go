package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aaravmahajanofficial/storefront/docs"
	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/health"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/storefront/pkg/email"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Storefront API
//	@version					1.0
//	@description				Catalog, cart, wishlist and order API for the storefront.
//	@host						localhost:8080
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracer, err := telemetry.Setup(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := repository.NewRedisClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer store.Close()

	rateLimiter := repository.NewRateLimitRepo(redisClient, &cfg.RateConfig)
	guestCarts := repository.NewGuestCartRepo(store, cfg.Session.TTL)

	var mailer email.Mailer
	if cfg.SendGrid.APIKey != "" {
		mailer = email.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		slog.Warn("SendGrid is not configured, order emails are disabled")
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	tokenTTL := time.Duration(cfg.Security.JWTExpiryHours) * time.Hour

	userService := service.NewUserService(repos.User, repos.Profile, repos.Cart, repos.Wishlist, rateLimiter, repos.Tx, jwtKey, tokenTTL)
	catalogService := service.NewCatalogService(repos.Product, repos.Catalog, store)
	cartService := service.NewCartService(repos.Product, repos.Cart, guestCarts, repos.Tx)
	wishlistService := service.NewWishlistService(repos.Product, repos.Wishlist, repos.Tx)
	notificationService := service.NewNotificationService(repos.User, mailer)
	orderService := service.NewOrderService(repos.Order, repos.Tx, notificationService)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	orderHandler := handlers.NewOrderHandler(orderService)

	authMiddleware := middleware.NewAuthMiddleware(jwtKey)
	sessionMiddleware := middleware.NewSessionMiddleware(&cfg.Session)

	healthHandler, err := health.NewHealthHandler(cfg, redisClient)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	route := func(pattern string, h http.Handler) {
		routerMux.Handle(pattern, metrics.InstrumentRoute(pattern, h))
	}

	route("POST /api/v1/users/register", userHandler.Register())
	route("POST /api/v1/users/login", userHandler.Login())
	route("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))

	route("GET /api/v1/products", productHandler.ListProducts())
	route("GET /api/v1/products/{id}", productHandler.GetProduct())
	route("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	route("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	route("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.DeleteProduct()))
	route("GET /api/v1/categories", productHandler.ListCategories())
	route("GET /api/v1/categories/{slug}", productHandler.GetCategory())
	route("GET /api/v1/brands", productHandler.ListBrands())
	route("GET /api/v1/locations", productHandler.ListLocations())

	// carts serve guests and accounts alike
	route("GET /api/v1/carts", authMiddleware.OptionalAuthenticate(cartHandler.GetCart()))
	route("POST /api/v1/carts/items/{productID}", authMiddleware.OptionalAuthenticate(cartHandler.AddItem()))
	route("POST /api/v1/carts/items/{productID}/update", authMiddleware.OptionalAuthenticate(cartHandler.UpdateItem()))
	route("DELETE /api/v1/carts/items/{productID}", authMiddleware.OptionalAuthenticate(cartHandler.RemoveItem()))
	route("POST /api/v1/carts/claim", authMiddleware.Authenticate(cartHandler.ClaimCart()))

	route("GET /api/v1/wishlist", authMiddleware.Authenticate(wishlistHandler.List()))
	route("POST /api/v1/wishlist/{productID}", authMiddleware.Authenticate(wishlistHandler.Toggle()))
	route("DELETE /api/v1/wishlist/{productID}", authMiddleware.Authenticate(wishlistHandler.Remove()))

	route("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.Checkout()))
	route("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	route("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	route("GET /api/v1/admin/orders", authMiddleware.Authenticate(orderHandler.AdminListOrders()))
	route("POST /api/v1/admin/orders/{id}/{action}", authMiddleware.Authenticate(orderHandler.ApplyAction()))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = sessionMiddleware.Session(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "storefront")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Failed to flush traces", slog.String("error", err.Error()))
	}
}
