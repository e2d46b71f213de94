package grouping_test

import (
	"testing"
	"time"

	"ms-storefront/internal/models"
	"ms-storefront/internal/order/grouping"

	"github.com/stretchr/testify/assert"
)

func orderAt(id, userID string, at time.Time, amount int64) models.Order {
	return models.Order{
		ID:        id,
		UserID:    userID,
		ProductID: "prod-1",
		Amount:    amount,
		Currency:  "USD",
		Status:    models.OrderStatusPending,
		CreatedAt: at,
	}
}

func TestGroupOrdersSameCheckoutMerges(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt("ord-1", "user-a", base, 1000),
		orderAt("ord-2", "user-a", base.Add(5*time.Second), 2500),
		orderAt("ord-3", "user-a", base.Add(20*time.Second), 500),
	}

	groups := grouping.GroupOrders(orders)
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0].Orders, 3)
	assert.Equal(t, int64(4000), groups[0].TotalAmount)
	assert.Equal(t, "user-a", groups[0].UserID)
}

func TestGroupOrdersDifferentUsersNeverMerge(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt("ord-1", "user-a", base, 1000),
		orderAt("ord-2", "user-b", base.Add(time.Second), 2000),
	}

	groups := grouping.GroupOrders(orders)
	assert.Len(t, groups, 2)
}

func TestGroupOrdersFixedAnchorWindow(t *testing.T) {
	// Three orders: #2 is 59s after #1, #3 is 61s after #1 (only 2s after #2).
	// A sliding window would merge all three; the fixed anchor splits #3 off.
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt("ord-1", "user-a", base, 100),
		orderAt("ord-2", "user-a", base.Add(59*time.Second), 200),
		orderAt("ord-3", "user-a", base.Add(61*time.Second), 300),
	}

	groups := grouping.GroupOrders(orders)
	assert.Len(t, groups, 2)

	var first, second models.OrderGroup
	for _, g := range groups {
		switch len(g.Orders) {
		case 2:
			first = g
		case 1:
			second = g
		}
	}
	assert.Equal(t, int64(300), first.TotalAmount)
	assert.Equal(t, int64(300), second.TotalAmount)
	assert.Equal(t, "ord-3", second.Orders[0].ID)
}

func TestGroupOrdersInputOrderInvariant(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt("ord-1", "user-a", base, 100),
		orderAt("ord-2", "user-b", base.Add(10*time.Second), 200),
		orderAt("ord-3", "user-a", base.Add(30*time.Second), 300),
		orderAt("ord-4", "user-a", base.Add(5*time.Minute), 400),
	}
	reversed := []models.Order{orders[3], orders[2], orders[1], orders[0]}

	a := grouping.GroupOrders(orders)
	b := grouping.GroupOrders(reversed)

	keyTotals := func(groups []models.OrderGroup) map[string]int64 {
		m := make(map[string]int64, len(groups))
		for _, g := range groups {
			m[g.Key] = g.TotalAmount
		}
		return m
	}
	assert.Equal(t, keyTotals(a), keyTotals(b))
	assert.Len(t, a, 3)
}

func TestGroupOrdersEmptyInput(t *testing.T) {
	assert.Empty(t, grouping.GroupOrders(nil))
	assert.Empty(t, grouping.GroupOrders([]models.Order{}))
}

func TestGroupTimestampAnchoredToFirstMember(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderAt("ord-1", "user-a", base, 100),
		orderAt("ord-2", "user-a", base.Add(30*time.Second), 200),
	}

	groups := grouping.GroupOrders(orders)
	assert.Len(t, groups, 1)
	// The earliest order anchors; later members never move the timestamp.
	assert.Equal(t, base, groups[0].Timestamp)
}

func TestReadinessPredicates(t *testing.T) {
	verified := orderAt("ord-1", "user-a", time.Now(), 100)
	verified.PaymentProofStatus = models.ProofStatusVerified
	assert.True(t, grouping.ReadyToSend(verified))
	assert.False(t, grouping.NeedsPaymentVerification(verified))

	verified.Status = models.OrderStatusCompleted
	assert.False(t, grouping.ReadyToSend(verified))

	noProof := orderAt("ord-2", "user-a", time.Now(), 100)
	assert.True(t, grouping.NeedsPaymentVerification(noProof))
	assert.False(t, grouping.ReadyToSend(noProof))

	rejected := orderAt("ord-3", "user-a", time.Now(), 100)
	rejected.PaymentProofStatus = models.ProofStatusRejected
	assert.False(t, grouping.NeedsPaymentVerification(rejected))
	assert.False(t, grouping.ReadyToSend(rejected))

	legacy := orderAt("ord-4", "user-a", time.Now(), 100)
	legacy.PaymentProofStatus = "approved"
	assert.True(t, grouping.ReadyToSend(legacy))
}

func TestGroupConjunctions(t *testing.T) {
	now := time.Now()
	approved1 := orderAt("ord-1", "user-a", now, 100)
	approved1.PaymentProofStatus = models.ProofStatusVerified
	approved2 := orderAt("ord-2", "user-a", now, 100)
	approved2.PaymentProofStatus = "approved"
	pending := orderAt("ord-3", "user-a", now, 100)
	pending.PaymentProofStatus = models.ProofStatusPending

	// Two of three approved is still not approved for the basket.
	mixed := models.OrderGroup{UserID: "user-a", Orders: []models.Order{approved1, approved2, pending}}
	assert.False(t, grouping.AllApproved(mixed))

	clean := models.OrderGroup{UserID: "user-a", Orders: []models.Order{approved1, approved2}}
	assert.True(t, grouping.AllApproved(clean))
	assert.False(t, grouping.AllCompleted(clean))

	done1, done2 := approved1, approved2
	done1.Status = models.OrderStatusCompleted
	done2.Status = models.OrderStatusCompleted
	finished := models.OrderGroup{UserID: "user-a", Orders: []models.Order{done1, done2}}
	assert.True(t, grouping.AllCompleted(finished))

	assert.False(t, grouping.AllApproved(models.OrderGroup{}))
	assert.False(t, grouping.AllCompleted(models.OrderGroup{}))
}
