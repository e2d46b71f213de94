// Command payment-service runs the Stripe-backed card payment gateway as
// its own deployable, separate from the storefront API.
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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-storefront/internal/config"
	"ms-storefront/internal/fulfillment"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/order"
	orderdb "ms-storefront/internal/order/db"
	handlers "ms-storefront/internal/payment/handler"
	"ms-storefront/internal/payment/services"
	"ms-storefront/internal/payment/storage"
)

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Payment Service initialization")

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

	paymentStore, err := storage.NewPostgreSQLStoreWithDB(sqldb, logger)
	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to initialize payment storage: %v", err))
	}

	stripeService, err := services.NewStripeService(logger)
	if err != nil {
		logger.Fatal("STRIPE", fmt.Sprintf("Failed to initialize Stripe: %v", err))
	}

	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
	credentialIssuer := fulfillment.NewCredentialIssuer(os.Getenv("CREDENTIAL_SECRET"))
	orderService := order.NewOrderService(&orderdb.DB{Bun: bunDB}, kafkaProducer, credentialIssuer)

	handler := handlers.NewStripeHandler(stripeService, paymentStore, orderService, logger)

	r := gin.Default()
	handler.RegisterRoutes(r)

	port := os.Getenv("PAYMENT_PORT")
	if port == "" {
		port = ":8086"
	}

	server := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Payment Service running on %s", port))
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
		logger.Info("HTTP", "✅ Payment Service shutdown complete")
	}
}
