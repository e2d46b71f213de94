package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/cart"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	CartService *cart.CartService
	Logger      *logger.Logger
}

type addItemRequest struct {
	ProductID string                `json:"product_id"`
	Selection models.SelectionState `json:"selection"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("AddItem: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.CartService.AddItem(userID, req.ProductID, req.Selection)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrIncompleteSelection) {
			h.Logger.Warn("API", fmt.Sprintf("AddItem: rejected selection: %v", err))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("AddItem: %v", err))
		http.Error(w, "Could not add item: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(item); err != nil {
		h.Logger.Error("API", fmt.Sprintf("AddItem: failed to encode response: %v", err))
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	items, err := h.CartService.GetCart(userID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetCart: %v", err))
		http.Error(w, "Failed to load cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetCart: failed to encode response: %v", err))
	}
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	lineItemID := chi.URLParam(r, "lineItemId")

	if err := h.CartService.RemoveItem(userID, lineItemID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RemoveItem: %v", err))
		http.Error(w, "Could not remove item: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	h.Logger.Info("API", fmt.Sprintf("Checkout: user=%s", userID))

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Checkout: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentMethodBankTransfer
	}

	orders, err := h.CartService.Checkout(userID, req.PaymentMethod)
	if err != nil {
		if errors.Is(err, cart.ErrEmptyCart) {
			http.Error(w, "Cart is empty", http.StatusUnprocessableEntity)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Checkout: %v", err))
		http.Error(w, "Checkout failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("Checkout: placed %d orders for user %s", len(orders), userID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Checkout: failed to encode response: %v", err))
	}
}
