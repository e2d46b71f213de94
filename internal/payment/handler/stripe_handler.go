package handlers

import (
	"net/http"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/payment/services"
	"ms-storefront/internal/payment/storage"
	"ms-storefront/internal/utils"

	"github.com/gin-gonic/gin"
)

// OrderService is the slice of the order layer the payment flow needs.
type OrderService interface {
	GetOrder(orderID string) (*models.Order, error)
	AttachPaymentIntent(orderID, intentID string) error
	ReviewPaymentProof(orderID, proofStatus string) error
}

type StripeHandler struct {
	stripeService *services.StripeService
	paymentStore  storage.Store
	orderService  OrderService
	logger        *logger.Logger
}

func NewStripeHandler(stripeService *services.StripeService, paymentStore storage.Store, orderService OrderService, logger *logger.Logger) *StripeHandler {
	return &StripeHandler{
		stripeService: stripeService,
		paymentStore:  paymentStore,
		orderService:  orderService,
		logger:        logger,
	}
}

// RegisterRoutes registers the payment routes on a gin engine
func (h *StripeHandler) RegisterRoutes(r *gin.Engine) {
	payments := r.Group("/payments")
	{
		payments.POST("/validate-card", h.ValidateCard)
		payments.POST("/intent", h.CreateIntent)
		payments.POST("/confirm/:paymentId", h.ConfirmPayment)
		payments.GET("/order/:orderId", h.GetPaymentByOrder)
	}
}

// ValidateCard validates credit card details without creating a charge
func (h *StripeHandler) ValidateCard(c *gin.Context) {
	var req models.StripeCardValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	// Only validate cards for orders we actually hold.
	if _, err := h.orderService.GetOrder(req.OrderID); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request", "No order found for this order_id"))
		return
	}

	result, err := h.stripeService.ValidateCard(&req.Card)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Card validation failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Card validation result", result))
}

// CreateIntent opens a stripe payment intent for an order and records the
// pending payment. The charge amount comes from the order row, never from
// the request body.
func (h *StripeHandler) CreateIntent(c *gin.Context) {
	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	ord, err := h.orderService.GetOrder(req.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found", err.Error()))
		return
	}

	// Only the buyer may open an intent for their order. The token was
	// verified at the gateway; here we only read the subject.
	token, err := auth.ExtractTokenFromRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", err.Error()))
		return
	}
	userID, err := auth.ExtractUserIDFromJWT(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Unauthorized", err.Error()))
		return
	}
	if ord.UserID != userID {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Forbidden", "Order belongs to a different user"))
		return
	}

	if ord.PaymentMethod != models.PaymentMethodCard {
		c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponse("Invalid payment method",
			"Only card orders can be paid through Stripe"))
		return
	}

	intent, err := h.stripeService.CreateIntent(ord.ID, ord.Amount, ord.Currency)
	if err != nil {
		c.JSON(http.StatusBadGateway, utils.ErrorResponse("Failed to create payment intent", err.Error()))
		return
	}

	payment := &models.Payment{
		ID:              utils.GeneratePaymentID(),
		OrderID:         ord.ID,
		Amount:          ord.Amount,
		Currency:        ord.Currency,
		Method:          models.PaymentMethodCard,
		Status:          models.PaymentStatusPending,
		PaymentIntentID: intent.PaymentIntentID,
		CreatedAt:       time.Now(),
	}
	if err := h.paymentStore.SavePayment(payment); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to record payment", err.Error()))
		return
	}

	if err := h.orderService.AttachPaymentIntent(ord.ID, intent.PaymentIntentID); err != nil {
		h.logger.Warn("STRIPE", "Failed to attach payment intent to order "+ord.ID+": "+err.Error())
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment intent created", gin.H{
		"payment_id": payment.ID,
		"intent":     intent,
	}))
}

// ConfirmPayment polls the intent status and settles the payment record. A
// succeeded card payment counts as a verified proof, so the order becomes
// eligible for dispatch without admin review.
func (h *StripeHandler) ConfirmPayment(c *gin.Context) {
	paymentID := c.Param("paymentId")

	payment, err := h.paymentStore.GetPayment(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Payment not found", err.Error()))
		return
	}

	status, err := h.stripeService.GetIntentStatus(payment.PaymentIntentID)
	if err != nil {
		c.JSON(http.StatusBadGateway, utils.ErrorResponse("Failed to check payment status", err.Error()))
		return
	}

	if status != payment.Status {
		if err := h.paymentStore.UpdatePaymentStatus(payment.ID, status); err != nil {
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to update payment", err.Error()))
			return
		}
	}

	if status == models.PaymentStatusSucceeded {
		if err := h.orderService.ReviewPaymentProof(payment.OrderID, models.ProofStatusVerified); err != nil {
			h.logger.Error("STRIPE", "Failed to mark order "+payment.OrderID+" verified: "+err.Error())
		}
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment status", gin.H{
		"payment_id": payment.ID,
		"order_id":   payment.OrderID,
		"status":     status,
	}))
}

// GetPaymentByOrder returns the latest payment record for an order
func (h *StripeHandler) GetPaymentByOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	payment, err := h.paymentStore.GetPaymentByOrderID(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Payment not found", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment", payment))
}
