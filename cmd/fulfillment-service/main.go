// Command fulfillment-service runs the back-office API on its own port:
// order listings, the grouped basket view, payment proof review and
// credential dispatch.
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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/config"
	"ms-storefront/internal/fulfillment"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/order"
	order_api "ms-storefront/internal/order/api"
	orderdb "ms-storefront/internal/order/db"
)

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Fulfillment Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()

	sqldb, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
	}
	if err := sqldb.Ping(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
	}
	logger.Info("DATABASE", "✅ PostgreSQL connection successful")
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.RequiredTopics()); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	credentialIssuer := fulfillment.NewCredentialIssuer(os.Getenv("CREDENTIAL_SECRET"))
	orderService := order.NewOrderService(&orderdb.DB{Bun: bunDB}, kafkaProducer, credentialIssuer)
	handler := &order_api.Handler{OrderService: orderService, Logger: logger}

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())

		r.Route("/admin/orders", func(r chi.Router) {
			r.Get("/", handler.ListOrders)
			r.Get("/groups", handler.ListGroups)
			r.Get("/{orderId}", handler.GetOrder)
			r.Put("/{orderId}/status", handler.UpdateStatus)
			r.Put("/{orderId}/proof", handler.ReviewProof)
			r.Post("/groups/{groupKey}/dispatch", handler.DispatchGroup)
		})
	})

	port := os.Getenv("FULFILLMENT_PORT")
	if port == "" {
		port = ":8087"
	}

	server := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Fulfillment Service running on %s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Fulfillment Service shutdown complete")
	}
}
