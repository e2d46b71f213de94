package models

import "time"

// OrderEvent is the payload published on the order lifecycle topics.
type OrderEvent struct {
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	ProductID     string    `json:"product_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
}

// CredentialDispatchEvent tells the mailer that credentials for one inferred
// basket are ready. One event per basket, not per order, because a multi-item
// basket is delivered as a single email.
type CredentialDispatchEvent struct {
	GroupKey     string    `json:"group_key"`
	UserID       string    `json:"user_id"`
	OrderIDs     []string  `json:"order_ids"`
	TotalAmount  int64     `json:"total_amount"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

// Credential is one delivered secret (license key, gift-card code, account
// credentials) attached to an order during fulfillment.
type Credential struct {
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Kind      string    `json:"kind"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
}
