package cart

import (
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/catalog/pricing"
	"ms-storefront/internal/models"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrIncompleteSelection = errors.New("selection is missing a required option")
)

// BuildLineItem resolves the price for the selection, re-checks the flash
// deal window at build time, and captures an immutable snapshot of the
// configuration. Both the option id and its display label are copied for
// every axis so downstream order views never re-join the variant catalog.
//
// A stale selection is not an error (the resolver falls back to base price),
// but a missing required axis on a product that has that variant collection
// is rejected: the caller should re-run default selection instead of
// persisting an incomplete item. An expired deal silently drops the
// discount; the returned item carries the undiscounted unit price so the
// caller can re-show the new total.
func BuildLineItem(userID string, catalog models.VariantCatalog, sel models.SelectionState, now time.Time) (*models.LineItem, error) {
	if sel.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := validateSelection(catalog, sel); err != nil {
		return nil, err
	}

	listPrice := pricing.ResolvePrice(catalog, sel)
	unitPrice := pricing.ApplyPromotion(listPrice, catalog.Deal, now)

	item := &models.LineItem{
		ID:           uuid.NewString(),
		UserID:       userID,
		ProductID:    catalog.Product.ID,
		ProductTitle: catalog.Product.Title,
		ProductType:  catalog.Product.ProductType,
		Currency:     catalog.Product.Currency,
		UnitPrice:    unitPrice,
		ListPrice:    listPrice,
		Quantity:     sel.Quantity,
		TotalPrice:   unitPrice * int64(sel.Quantity),
		CreatedAt:    now,
	}
	snapshotOptions(item, catalog, sel)
	return item, nil
}

// validateSelection enforces the required axis per product type, but only
// when the catalog actually carries that collection: a giftcard with no
// denominations configured legitimately sells at base price.
func validateSelection(catalog models.VariantCatalog, sel models.SelectionState) error {
	switch catalog.Product.ProductType {
	case models.ProductTypeGame:
		if len(catalog.Editions) > 0 && sel.EditionID == "" {
			return fmt.Errorf("%w: edition", ErrIncompleteSelection)
		}
	case models.ProductTypeGiftCard:
		if len(catalog.Denominations) > 0 && sel.DenominationID == "" {
			return fmt.Errorf("%w: denomination", ErrIncompleteSelection)
		}
	case models.ProductTypeSubscription:
		if len(catalog.Plans) > 0 && (sel.PlanID == "" || sel.DurationID == "") {
			return fmt.Errorf("%w: plan and duration", ErrIncompleteSelection)
		}
	case models.ProductTypeSoftware:
		if len(catalog.LicenseTypes) > 0 && sel.LicenseTypeID == "" {
			return fmt.Errorf("%w: license type", ErrIncompleteSelection)
		}
	}
	return nil
}

// snapshotOptions copies id + label for each selected option that resolves
// in the catalog. Stale ids are skipped, matching the resolver's fallback.
func snapshotOptions(item *models.LineItem, catalog models.VariantCatalog, sel models.SelectionState) {
	for _, e := range catalog.Editions {
		if e.ID == sel.EditionID {
			item.EditionID, item.EditionName = ptr(e.ID), ptr(e.Name)
			break
		}
	}
	for _, p := range catalog.Platforms {
		if p.ID == sel.PlatformID {
			item.PlatformID, item.PlatformName = ptr(p.ID), ptr(p.Name)
			break
		}
	}
	for _, pl := range catalog.Plans {
		if pl.ID != sel.PlanID {
			continue
		}
		item.PlanID, item.PlanName = ptr(pl.ID), ptr(pl.Name)
		for _, d := range pl.Durations {
			if d.ID == sel.DurationID {
				item.DurationID, item.DurationLabel = ptr(d.ID), ptr(d.Label)
				months := d.Months
				item.DurationMonths = &months
				break
			}
		}
		break
	}
	for _, d := range catalog.Denominations {
		if d.ID == sel.DenominationID {
			// Display label is the face value, not the charged price.
			item.DenominationID = ptr(d.ID)
			face := d.FaceValue
			item.DenominationValue = &face
			break
		}
	}
	for _, lt := range catalog.LicenseTypes {
		if lt.ID == sel.LicenseTypeID {
			item.LicenseTypeID, item.LicenseTypeName = ptr(lt.ID), ptr(lt.Name)
			break
		}
	}
	for _, ld := range catalog.LicenseDurations {
		if ld.ID == sel.LicenseDurationID {
			item.LicenseDurationID, item.LicenseDurationName = ptr(ld.ID), ptr(ld.Label)
			break
		}
	}
}

func ptr(s string) *string {
	return &s
}
