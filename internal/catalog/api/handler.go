package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	CatalogService *catalog.CatalogService
	Logger         *logger.Logger
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	storeID := r.URL.Query().Get("store_id")

	products, err := h.CatalogService.ListProducts(storeID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListProducts: %v", err))
		http.Error(w, "Failed to list products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(products); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListProducts: failed to encode response: %v", err))
	}
}

func (h *Handler) GetVariants(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	h.Logger.Info("API", fmt.Sprintf("GetVariants: productId=%s", productID))

	variantCatalog, err := h.CatalogService.GetVariantCatalog(productID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetVariants: %v", err))
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(variantCatalog); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetVariants: failed to encode response: %v", err))
	}
}

// Quote prices a selection. The body is a SelectionState; an empty body
// prices the product's default configuration.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var sel models.SelectionState
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&sel); err != nil && err.Error() != "EOF" {
			h.Logger.Error("API", fmt.Sprintf("Quote: failed to decode selection: %v", err))
			http.Error(w, "Invalid selection JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	quote, err := h.CatalogService.Quote(productID, sel)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Quote: %v", err))
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	h.Logger.LogPricing(productID, fmt.Sprintf("quoted %d %s", quote.DisplayPrice, quote.Currency))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(quote); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Quote: failed to encode response: %v", err))
	}
}
