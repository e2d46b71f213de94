package pricing

import (
	"time"

	"ms-storefront/internal/models"
)

// DealActive reports whether the flash deal covers the given instant. The
// window is half-open: active from start_time up to but excluding end_time.
func DealActive(deal *models.FlashDeal, now time.Time) bool {
	if deal == nil {
		return false
	}
	if deal.DiscountPercentage <= 0 || deal.DiscountPercentage > 100 {
		return false
	}
	return !now.Before(deal.StartTime) && now.Before(deal.EndTime)
}

// ApplyPromotion overlays an active flash deal onto a resolved unit price.
// The discounted price truncates toward zero rather than rounding, so the
// advertised discount is never overstated: 10% off 101 is 90, not 91. An
// inactive or absent deal leaves the price unchanged. Callers keep the
// pre-discount price around for strikethrough display and auditing.
func ApplyPromotion(unitPrice int64, deal *models.FlashDeal, now time.Time) int64 {
	if !DealActive(deal, now) {
		return unitPrice
	}
	return unitPrice * (100 - deal.DiscountPercentage) / 100
}

// Remaining returns the time left on a deal at the given instant. Zero or
// negative means the deal is over; display countdowns tick this down locally,
// but the authoritative check stays ApplyPromotion's window test, re-run when
// the line item is built.
func Remaining(deal *models.FlashDeal, now time.Time) time.Duration {
	if deal == nil {
		return 0
	}
	return deal.EndTime.Sub(now)
}
