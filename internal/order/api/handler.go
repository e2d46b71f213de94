package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/order"

	"github.com/go-chi/chi/v5"
)

// Handler serves the fulfillment back office: filtered order lists, the
// grouped basket view, status transitions, proof review and dispatch.
type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func filterFromQuery(r *http.Request) models.OrderFilter {
	q := r.URL.Query()
	return models.OrderFilter{
		UserID:      q.Get("user_id"),
		Status:      q.Get("status"),
		ProofStatus: q.Get("proof_status"),
		Search:      q.Get("search"),
	}
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.OrderService.ListOrders(filterFromQuery(r))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		http.Error(w, "Failed to list orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: failed to encode response: %v", err))
	}
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	ord, err := h.OrderService.GetOrder(id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: %v", err))
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ord); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: failed to encode response: %v", err))
	}
}

// ListGroups returns the basket view: orders clustered per buyer by
// purchase time, each group carrying its readiness flags.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.OrderService.ListGroups(filterFromQuery(r))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGroups: %v", err))
		http.Error(w, "Failed to group orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(groups); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListGroups: failed to encode response: %v", err))
	}
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.OrderService.TransitionStatus(id, req.Status); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateStatus: %v", err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.Logger.LogOrder("STATUS", id, fmt.Sprintf("status set to %s", req.Status))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id, "status": req.Status})
}

func (h *Handler) ReviewProof(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	var req struct {
		ProofStatus string `json:"proof_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.OrderService.ReviewPaymentProof(id, req.ProofStatus); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ReviewProof: %v", err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.Logger.LogOrder("PROOF", id, fmt.Sprintf("payment proof marked %s", req.ProofStatus))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id, "proof_status": req.ProofStatus})
}

// DispatchGroup re-derives the caller's basket by key and sends it. The key
// is re-checked server side so a stale admin tab cannot dispatch a group
// whose membership has since changed.
func (h *Handler) DispatchGroup(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "groupKey")

	groups, err := h.OrderService.ListGroups(models.OrderFilter{})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("DispatchGroup: %v", err))
		http.Error(w, "Failed to group orders", http.StatusInternalServerError)
		return
	}

	for _, g := range groups {
		if g.Key != key {
			continue
		}
		issued, err := h.OrderService.DispatchGroup(g.OrderGroup)
		if err != nil {
			h.Logger.Error("API", fmt.Sprintf("DispatchGroup: %v", err))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.Logger.LogOrder("DISPATCH", key, fmt.Sprintf("dispatched %d credentials", len(issued)))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"group_key":   key,
			"credentials": len(issued),
		})
		return
	}

	http.Error(w, "Group not found", http.StatusNotFound)
}
