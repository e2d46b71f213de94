package catalog

import (
	"fmt"
	"time"

	"ms-storefront/internal/catalog/pricing"
	"ms-storefront/internal/models"
)

type DBLayer interface {
	GetProductByID(id string) (*models.Product, error)
	GetVariantCatalog(productID string, now time.Time) (*models.VariantCatalog, error)
	GetActiveDeal(productID string, now time.Time) (*models.FlashDeal, error)
	ListProducts(storeID string) ([]models.Product, error)
}

type CatalogService struct {
	DB DBLayer
}

func NewCatalogService(db DBLayer) *CatalogService {
	return &CatalogService{DB: db}
}

// PriceQuote is what the product page renders: the resolved price, the deal
// overlay, and the selection that produced it (defaults filled in).
type PriceQuote struct {
	ProductID    string                `json:"product_id"`
	Currency     string                `json:"currency"`
	Selection    models.SelectionState `json:"selection"`
	ListPrice    int64                 `json:"list_price"`
	DisplayPrice int64                 `json:"display_price"`
	DealActive   bool                  `json:"deal_active"`
	DealEndsIn   int64                 `json:"deal_ends_in_seconds,omitempty"`
}

func (s *CatalogService) ListProducts(storeID string) ([]models.Product, error) {
	return s.DB.ListProducts(storeID)
}

func (s *CatalogService) GetVariantCatalog(productID string) (*models.VariantCatalog, error) {
	catalog, err := s.DB.GetVariantCatalog(productID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", productID, err)
	}
	return catalog, nil
}

// Quote resolves the price for the given selection. An empty selection (no
// axis chosen, quantity zero) is replaced by the default selection so every
// first render of a product with variants prices a concrete option.
func (s *CatalogService) Quote(productID string, sel models.SelectionState) (*PriceQuote, error) {
	now := time.Now()
	catalog, err := s.DB.GetVariantCatalog(productID, now)
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", productID, err)
	}

	if isEmptySelection(sel) {
		sel = pricing.DefaultSelection(*catalog)
	}
	if sel.Quantity < 1 {
		sel.Quantity = 1
	}

	listPrice := pricing.ResolvePrice(*catalog, sel)
	displayPrice := pricing.ApplyPromotion(listPrice, catalog.Deal, now)

	quote := &PriceQuote{
		ProductID:    productID,
		Currency:     catalog.Product.Currency,
		Selection:    sel,
		ListPrice:    listPrice,
		DisplayPrice: displayPrice,
		DealActive:   pricing.DealActive(catalog.Deal, now),
	}
	if quote.DealActive {
		quote.DealEndsIn = int64(pricing.Remaining(catalog.Deal, now).Seconds())
	}
	return quote, nil
}

func isEmptySelection(sel models.SelectionState) bool {
	return sel.EditionID == "" && sel.PlatformID == "" && sel.PlanID == "" &&
		sel.DurationID == "" && sel.DenominationID == "" &&
		sel.LicenseTypeID == "" && sel.LicenseDurationID == ""
}
