package storage

import (
	"ms-storefront/internal/models"
)

type Store interface {
	// Payment operations
	SavePayment(payment *models.Payment) error
	GetPayment(id string) (*models.Payment, error)
	UpdatePaymentStatus(id, status string) error
	GetPaymentByOrderID(orderID string) (*models.Payment, error)

	// Health and maintenance
	Close() error
	HealthCheck() error
}
