package analytics_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-storefront/internal/analytics"
	"ms-storefront/internal/logger"

	"github.com/go-chi/chi/v5"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

// RegisterRoutes registers the analytics routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/store", h.GetStoreAnalytics)
		r.Get("/products/{productId}", h.GetProductAnalytics)
	})
}

func sendJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// GetProductAnalytics returns sales figures for one product. The optional
// ?status= query narrows to a single order status, e.g. completed.
func (h *Handler) GetProductAnalytics(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	status := r.URL.Query().Get("status")

	result, err := h.Service.GetProductAnalytics(r.Context(), productID, status)
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetProductAnalytics: %v", err))
		http.Error(w, "Failed to compute product analytics", http.StatusInternalServerError)
		return
	}

	sendJSONResponse(w, http.StatusOK, result)
}

// GetStoreAnalytics returns store-wide revenue by product type.
func (h *Handler) GetStoreAnalytics(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	result, err := h.Service.GetStoreAnalytics(r.Context(), status)
	if err != nil {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("GetStoreAnalytics: %v", err))
		http.Error(w, "Failed to compute store analytics", http.StatusInternalServerError)
		return
	}

	sendJSONResponse(w, http.StatusOK, result)
}
