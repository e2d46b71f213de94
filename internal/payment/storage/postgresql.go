package storage

import (
	"database/sql"
	"fmt"
	"time"

	"ms-storefront/internal/config"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	_ "github.com/lib/pq"
)

type PostgreSQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPostgreSQLStoreWithDB creates a payment store using an existing database connection
func NewPostgreSQLStoreWithDB(db *sql.DB, log *logger.Logger) (*PostgreSQLStore, error) {
	log.Info("DATABASE", "Creating payment storage with existing database connection")

	store := &PostgreSQLStore{db: db, log: log}
	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize payment tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize payment tables: %w", err)
	}

	log.Info("DATABASE", "Payment storage initialized successfully with existing connection")
	return store, nil
}

func NewPostgreSQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*PostgreSQLStore, error) {
	log.LogDatabase("CONNECT", "postgresql", "Connecting to PostgreSQL for payment storage")

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		log.Error("DATABASE", "Failed to open PostgreSQL connection: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		log.Error("DATABASE", "Failed to ping PostgreSQL: "+err.Error())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgreSQLStore{db: db, log: log}
	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "postgresql", "PostgreSQL connection established and tables initialized")
	return store, nil
}

func (s *PostgreSQLStore) initTables() error {
	s.log.LogDatabase("MIGRATE", "postgresql", "Creating payments table if not exists")

	// Amount is minor currency units, same as the order rows.
	paymentsQuery := `
    CREATE TABLE IF NOT EXISTS payments (
        payment_id VARCHAR(64) PRIMARY KEY,
        order_id VARCHAR(36) NOT NULL,
        amount BIGINT NOT NULL,
        currency VARCHAR(3) NOT NULL,
        method VARCHAR(20) NOT NULL,
        status VARCHAR(20) NOT NULL,
        payment_intent_id VARCHAR(255),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP
    );
    `
	if _, err := s.db.Exec(paymentsQuery); err != nil {
		return fmt.Errorf("failed to create payments table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);",
		"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);",
	}
	for _, indexQuery := range indexes {
		if _, err := s.db.Exec(indexQuery); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	s.log.LogDatabase("SUCCESS", "postgresql", "Payment tables and indexes ready")
	return nil
}

// SavePayment saves a payment to the database
func (s *PostgreSQLStore) SavePayment(payment *models.Payment) error {
	s.log.LogDatabase("INSERT", "payments", fmt.Sprintf("Saving payment %s", payment.ID))

	query := `
    INSERT INTO payments (
        payment_id, order_id, amount, currency, method, status, payment_intent_id, created_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := s.db.Exec(query,
		payment.ID, payment.OrderID, payment.Amount, payment.Currency,
		payment.Method, payment.Status, payment.PaymentIntentID, payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save payment %s: %w", payment.ID, err)
	}
	return nil
}

// GetPayment retrieves a payment by its id
func (s *PostgreSQLStore) GetPayment(id string) (*models.Payment, error) {
	query := `
    SELECT payment_id, order_id, amount, currency, method, status,
           COALESCE(payment_intent_id, ''), created_at, COALESCE(updated_at, created_at)
    FROM payments WHERE payment_id = $1
    `
	return s.scanPayment(s.db.QueryRow(query, id))
}

// GetPaymentByOrderID retrieves the most recent payment for an order
func (s *PostgreSQLStore) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	query := `
    SELECT payment_id, order_id, amount, currency, method, status,
           COALESCE(payment_intent_id, ''), created_at, COALESCE(updated_at, created_at)
    FROM payments WHERE order_id = $1
    ORDER BY created_at DESC LIMIT 1
    `
	return s.scanPayment(s.db.QueryRow(query, orderID))
}

func (s *PostgreSQLStore) scanPayment(row *sql.Row) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.Method,
		&p.Status, &p.PaymentIntentID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return &p, nil
}

// UpdatePaymentStatus records a status change on an existing payment
func (s *PostgreSQLStore) UpdatePaymentStatus(id, status string) error {
	s.log.LogDatabase("UPDATE", "payments", fmt.Sprintf("Payment %s -> %s", id, status))

	result, err := s.db.Exec(
		"UPDATE payments SET status = $1, updated_at = $2 WHERE payment_id = $3",
		status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("payment %s not found", id)
	}
	return nil
}

func (s *PostgreSQLStore) Close() error {
	return s.db.Close()
}

func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}
