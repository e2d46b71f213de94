package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-storefront/internal/analytics"
	analytics_api "ms-storefront/internal/analytics/api"
	"ms-storefront/internal/auth"
	"ms-storefront/internal/cart"
	cart_api "ms-storefront/internal/cart/api"
	cartredis "ms-storefront/internal/cart/redis"
	"ms-storefront/internal/catalog"
	catalog_api "ms-storefront/internal/catalog/api"
	catalogdb "ms-storefront/internal/catalog/db"
	"ms-storefront/internal/config"
	"ms-storefront/internal/database/migrations"
	"ms-storefront/internal/fulfillment"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/order"
	order_api "ms-storefront/internal/order/api"
	orderdb "ms-storefront/internal/order/db"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Storefront Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	if os.Getenv("AUTO_MIGRATE") == "true" {
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.RunMigrations(); err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
		}
	}

	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
	logger.Info("KAFKA", "Kafka producer initialized successfully")

	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.RequiredTopics()); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		logger.Info("KAFKA", "Required topics ensured successfully")
	}

	catalogStore := &catalogdb.DB{Bun: bunDB}
	orderStore := &orderdb.DB{Bun: bunDB}

	catalogService := catalog.NewCatalogService(catalogStore)
	cartService := cart.NewCartService(catalogStore, cartredis.NewStore(redisClient), orderStore, kafkaProducer)
	credentialIssuer := fulfillment.NewCredentialIssuer(os.Getenv("CREDENTIAL_SECRET"))
	orderService := order.NewOrderService(orderStore, kafkaProducer, credentialIssuer)
	analyticsService := analytics.NewService(bunDB)

	catalogHandler := &catalog_api.Handler{CatalogService: catalogService, Logger: logger}
	cartHandler := &cart_api.Handler{CartService: cartService, Logger: logger}
	orderHandler := &order_api.Handler{OrderService: orderService, Logger: logger}
	analyticsHandler := analytics_api.NewHandler(analyticsService, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{productId}/variants", catalogHandler.GetVariants)
		r.Post("/products/{productId}/quote", catalogHandler.Quote)
	})
	logger.Info("ROUTER", "Public catalog routes registered under /api/catalog")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		logger.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{lineItemId}", cartHandler.RemoveItem)
				r.Post("/checkout", cartHandler.Checkout)
			})
			logger.Info("ROUTER", "Cart routes registered under /api/cart")

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.ListOrders)
				r.Get("/groups", orderHandler.ListGroups)
				r.Get("/{orderId}", orderHandler.GetOrder)
				r.Put("/{orderId}/status", orderHandler.UpdateStatus)
				r.Put("/{orderId}/proof", orderHandler.ReviewProof)
				r.Post("/groups/{groupKey}/dispatch", orderHandler.DispatchGroup)
			})
			logger.Info("ROUTER", "Order routes registered under /api/orders")

			analyticsHandler.RegisterRoutes(r)
			logger.Info("ROUTER", "Analytics routes registered under /api/analytics")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Storefront Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Storefront Service shutdown complete")
	}
}
