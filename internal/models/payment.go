package models

import "time"

// Payment methods accepted at checkout. Card payments go through Stripe and
// are auto-verified by webhook; manual methods require a proof upload that an
// admin reviews.
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodWallet       = "wallet"
)

// Payment record statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment is the payment-service record for one checkout group charge.
type Payment struct {
	ID              string    `json:"id"`
	OrderID         string    `json:"order_id"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	Method          string    `json:"method"`
	Status          string    `json:"status"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

type StripeCard struct {
	Number   string `json:"number"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
	CVC      string `json:"cvc"`
}

type StripeCardValidationRequest struct {
	OrderID string     `json:"order_id"`
	Card    StripeCard `json:"card"`
}

type StripeCardValidationResponse struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	CardType string `json:"card_type,omitempty"`
	Last4    string `json:"last4,omitempty"`
}

type CreateIntentRequest struct {
	OrderID string `json:"order_id"`
}

type CreateIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}
