// Package grouping reconstructs checkout baskets from flat order rows.
// Checkout writes one order per line item with no basket key, so the
// fulfillment tool re-associates orders by customer identity and timestamp
// proximity. The result is a presentation-side view only: it carries no
// transactional meaning and may over- or under-merge.
package grouping

import (
	"fmt"
	"sort"
	"time"

	"ms-storefront/internal/models"
)

// Window is the time-proximity threshold for basket membership, tuned to
// roughly "time to submit one checkout form".
const Window = 60 * time.Second

// GroupOrders clusters orders into inferred baskets. Orders are scanned
// oldest first; each one joins the first existing group with the same user
// whose anchor timestamp lies within the window, otherwise it opens a new
// group. The anchor is the earliest order's timestamp and is never advanced,
// so the window is fixed to the basket's first order rather than sliding
// with each member: a trickle of orders each under 60s apart still splits
// once it drifts 60s past the first one. Groups come back newest first.
// Deterministic for a given input set regardless of input ordering.
func GroupOrders(orders []models.Order) []models.OrderGroup {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var groups []models.OrderGroup
	for _, ord := range sorted {
		idx := -1
		for i := range groups {
			if groups[i].UserID != ord.UserID {
				continue
			}
			delta := ord.CreatedAt.Sub(groups[i].Timestamp)
			if delta < 0 {
				delta = -delta
			}
			if delta < Window {
				idx = i
				break
			}
		}
		if idx >= 0 {
			groups[idx].Orders = append(groups[idx].Orders, ord)
			groups[idx].TotalAmount += ord.Amount
			continue
		}
		groups = append(groups, models.OrderGroup{
			Key:         fmt.Sprintf("%s:%d", ord.UserID, ord.CreatedAt.UnixMilli()),
			UserID:      ord.UserID,
			Timestamp:   ord.CreatedAt,
			Orders:      []models.Order{ord},
			TotalAmount: ord.Amount,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Timestamp.After(groups[j].Timestamp)
	})
	return groups
}

// ReadyToSend reports whether an order's credentials can be dispatched:
// payment proof verified and the order not yet completed.
func ReadyToSend(ord models.Order) bool {
	return ProofApproved(ord) && ord.Status != models.OrderStatusCompleted
}

// NeedsPaymentVerification reports whether the order is waiting on proof
// review. No uploaded proof counts as pending.
func NeedsPaymentVerification(ord models.Order) bool {
	return ord.PaymentProofStatus == "" || ord.PaymentProofStatus == models.ProofStatusPending
}

// ProofApproved accepts both spellings the review flow has produced over
// time; stripe webhooks write "verified", older manual reviews "approved".
func ProofApproved(ord models.Order) bool {
	return ord.PaymentProofStatus == models.ProofStatusVerified || ord.PaymentProofStatus == "approved"
}

// AllApproved is a conjunction over the group: one unapproved member keeps
// the whole basket flagged for verification, because credentials for a
// multi-item basket go out as a single email.
func AllApproved(group models.OrderGroup) bool {
	for _, ord := range group.Orders {
		if !ProofApproved(ord) {
			return false
		}
	}
	return len(group.Orders) > 0
}

// AllCompleted reports whether every member order has been completed.
func AllCompleted(group models.OrderGroup) bool {
	for _, ord := range group.Orders {
		if ord.Status != models.OrderStatusCompleted {
			return false
		}
	}
	return len(group.Orders) > 0
}
