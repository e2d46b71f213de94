// Package pricing implements variant-aware price resolution for the four
// product shapes. Everything here is a pure computation over an in-memory
// catalog: no I/O, no errors, always a price.
package pricing

import "ms-storefront/internal/models"

// ResolvePrice returns the unit price, in minor units of the product's
// currency, for the given selection. It is total: a stale or missing
// selection on any axis falls through to the product's base price, never an
// error. Dispatch is a single switch on the product type so adding a fifth
// shape is one new case, not scattered string checks.
//
// Platform.PriceModifier is deliberately not applied; the historical rule
// set never added it and doing so would change past pricing parity.
func ResolvePrice(catalog models.VariantCatalog, sel models.SelectionState) int64 {
	switch catalog.Product.ProductType {
	case models.ProductTypeGame:
		return resolveGame(catalog, sel)
	case models.ProductTypeGiftCard:
		return resolveGiftCard(catalog, sel)
	case models.ProductTypeSubscription:
		return resolveSubscription(catalog, sel)
	case models.ProductTypeSoftware:
		return resolveSoftware(catalog, sel)
	default:
		return catalog.Product.BasePrice
	}
}

func resolveGame(catalog models.VariantCatalog, sel models.SelectionState) int64 {
	if sel.EditionID != "" {
		for _, e := range catalog.Editions {
			if e.ID == sel.EditionID {
				return e.Price
			}
		}
	}
	return catalog.Product.BasePrice
}

func resolveGiftCard(catalog models.VariantCatalog, sel models.SelectionState) int64 {
	if sel.DenominationID != "" {
		for _, d := range catalog.Denominations {
			if d.ID == sel.DenominationID {
				return d.Price
			}
		}
	}
	return catalog.Product.BasePrice
}

// resolveSubscription requires both a plan and a duration belonging to that
// plan. A plan with no selected duration yields the base price, not an error.
func resolveSubscription(catalog models.VariantCatalog, sel models.SelectionState) int64 {
	if sel.PlanID == "" || sel.DurationID == "" {
		return catalog.Product.BasePrice
	}
	for _, p := range catalog.Plans {
		if p.ID != sel.PlanID {
			continue
		}
		for _, d := range p.Durations {
			if d.ID == sel.DurationID {
				return d.Price
			}
		}
	}
	return catalog.Product.BasePrice
}

// resolveSoftware starts from the base price, replaces it with the selected
// license type's price if one resolves, then scales by the selected license
// duration's multiplier. LicenseDuration.DiscountPercent is informational
// only and never enters the calculation.
func resolveSoftware(catalog models.VariantCatalog, sel models.SelectionState) int64 {
	price := catalog.Product.BasePrice
	if sel.LicenseTypeID != "" {
		for _, lt := range catalog.LicenseTypes {
			if lt.ID == sel.LicenseTypeID {
				price = lt.Price
				break
			}
		}
	}
	if sel.LicenseDurationID != "" {
		for _, ld := range catalog.LicenseDurations {
			if ld.ID == sel.LicenseDurationID {
				price = int64(float64(price) * ld.PriceMultiplier)
				break
			}
		}
	}
	return price
}

// DefaultSelection populates exactly one default per axis the product
// actually has, so the resolver never runs on an empty selection for a
// product with variants. Edition honours the is_default flag, falling back
// to catalog order; every other axis takes the first entry, and the default
// plan contributes its first duration.
func DefaultSelection(catalog models.VariantCatalog) models.SelectionState {
	sel := models.SelectionState{Quantity: 1}

	if len(catalog.Editions) > 0 {
		sel.EditionID = catalog.Editions[0].ID
		for _, e := range catalog.Editions {
			if e.IsDefault {
				sel.EditionID = e.ID
				break
			}
		}
	}
	if len(catalog.Platforms) > 0 {
		sel.PlatformID = catalog.Platforms[0].ID
	}
	if len(catalog.Plans) > 0 {
		plan := catalog.Plans[0]
		sel.PlanID = plan.ID
		if len(plan.Durations) > 0 {
			sel.DurationID = plan.Durations[0].ID
		}
	}
	if len(catalog.Denominations) > 0 {
		sel.DenominationID = catalog.Denominations[0].ID
	}
	if len(catalog.LicenseTypes) > 0 {
		sel.LicenseTypeID = catalog.LicenseTypes[0].ID
	}
	if len(catalog.LicenseDurations) > 0 {
		sel.LicenseDurationID = catalog.LicenseDurations[0].ID
	}
	return sel
}
