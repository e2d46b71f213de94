package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	ErrStripeAPIError         = errors.New("stripe API error")
	ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")
)

// StripeService handles integration with the Stripe payment gateway. Only
// card checkouts go through here; bank transfers and wallet top-ups follow
// the manual proof-upload path instead.
type StripeService struct {
	client *client.API
	log    *logger.Logger
}

// parseStringToInt64 safely converts a string to int64, returns 0 if conversion fails
func parseStringToInt64(s string) int64 {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return val
}

// NewStripeService creates a new instance of StripeService
func NewStripeService(log *logger.Logger) (*StripeService, error) {
	stripeKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY environment variable not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(stripeKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeService{client: sc, log: log}, nil
}

// ValidateCard validates the provided card details using Stripe
func (s *StripeService) ValidateCard(card *models.StripeCard) (*models.StripeCardValidationResponse, error) {
	params := &stripe.PaymentMethodParams{
		Type: stripe.String("card"),
		Card: &stripe.PaymentMethodCardParams{
			Number:   stripe.String(card.Number),
			ExpMonth: stripe.Int64(parseStringToInt64(card.ExpMonth)),
			ExpYear:  stripe.Int64(parseStringToInt64(card.ExpYear)),
			CVC:      stripe.String(card.CVC),
		},
	}

	pm, err := s.client.PaymentMethods.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Card validation failed: %v", err))
		return &models.StripeCardValidationResponse{
			Valid:   false,
			Message: err.Error(),
		}, nil
	}

	response := &models.StripeCardValidationResponse{
		Valid:    true,
		Message:  "Card is valid",
		CardType: string(pm.Card.Brand),
		Last4:    pm.Card.Last4,
	}
	s.log.Info("VALIDATE", fmt.Sprintf("Card validation successful: %s ending in %s", response.CardType, response.Last4))

	// Clean up the payment method since we don't need it anymore
	_, err = s.client.PaymentMethods.Detach(pm.ID, &stripe.PaymentMethodDetachParams{})
	if err != nil {
		s.log.Warn("STRIPE", fmt.Sprintf("Failed to detach payment method: %v", err))
	}

	return response, nil
}

// CreateIntent opens a payment intent for one order. Amount is already in
// minor currency units; nothing here multiplies or rounds.
func (s *StripeService) CreateIntent(orderID string, amount int64, currency string) (*models.CreateIntentResponse, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %d", amount)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: []*string{stripe.String("card")},
		Metadata:           map[string]string{"order_id": orderID},
	}

	s.log.Info("STRIPE", fmt.Sprintf("Creating payment intent for order %s, amount %d %s", orderID, amount, currency))
	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Failed to create payment intent: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}
	s.log.Info("STRIPE", fmt.Sprintf("Payment intent created: %s (order: %s)", pi.ID, orderID))

	return &models.CreateIntentResponse{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
	}, nil
}

// GetIntentStatus looks up a payment intent and maps its state to a
// payment status.
func (s *StripeService) GetIntentStatus(intentID string) (string, error) {
	pi, err := s.client.PaymentIntents.Get(intentID, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentStatusSucceeded, nil
	case stripe.PaymentIntentStatusProcessing, stripe.PaymentIntentStatusRequiresAction,
		stripe.PaymentIntentStatusRequiresConfirmation, stripe.PaymentIntentStatusRequiresPaymentMethod:
		return models.PaymentStatusPending, nil
	default:
		return models.PaymentStatusFailed, nil
	}
}
