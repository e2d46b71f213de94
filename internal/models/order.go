package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Order statuses. pending → processing → completed is the happy path;
// cancelled and refunded are reachable from any non-terminal state.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment proof review states. An empty value means no proof has been
// uploaded yet and counts as pending for readiness purposes.
const (
	ProofStatusPending  = "pending"
	ProofStatusVerified = "verified"
	ProofStatusRejected = "rejected"
)

// Order is one row per line item at checkout time. There is no basket or
// checkout-session foreign key; baskets are reconstructed after the fact by
// the grouping engine.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID                 string    `bun:"id,pk" json:"id"`
	UserID             string    `bun:"user_id,notnull" json:"user_id"`
	ProductID          string    `bun:"product_id,notnull" json:"product_id"`
	LineItemID         string    `bun:"line_item_id,notnull" json:"line_item_id"`
	Amount             int64     `bun:"amount,notnull" json:"amount"`
	Currency           string    `bun:"currency,notnull" json:"currency"`
	Status             string    `bun:"status,notnull" json:"status"`
	PaymentMethod      string    `bun:"payment_method,notnull" json:"payment_method"`
	PaymentProofStatus string    `bun:"payment_proof_status,nullzero" json:"payment_proof_status"`
	PaymentIntentID    string    `bun:"payment_intent_id,nullzero" json:"payment_intent_id,omitempty"`
	CreatedAt          time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// OrderGroup is a derived view, never persisted: the set of orders inferred
// to belong to one checkout. Timestamp stays anchored to the first member
// seen, which pins the grouping window to the first order of the basket.
type OrderGroup struct {
	Key         string    `json:"key"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
	Orders      []Order   `json:"orders"`
	TotalAmount int64     `json:"total_amount"`
}

// OrderFilter narrows admin order listings. Zero values mean "no filter".
type OrderFilter struct {
	UserID      string `json:"user_id,omitempty"`
	Status      string `json:"status,omitempty"`
	ProofStatus string `json:"proof_status,omitempty"`
	Search      string `json:"search,omitempty"`
}
