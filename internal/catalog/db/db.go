package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ms-storefront/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// GetProductByID fetches one product row.
func (d *DB) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	err := d.Bun.NewSelect().
		Model(&product).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetVariantCatalog loads a product with every variant collection attached
// to it, in catalog order, plus the flash deal covering the given instant.
// Collections for axes the product type doesn't use simply come back empty.
func (d *DB) GetVariantCatalog(productID string, now time.Time) (*models.VariantCatalog, error) {
	ctx := context.Background()

	product, err := d.GetProductByID(productID)
	if err != nil {
		return nil, err
	}
	catalog := &models.VariantCatalog{Product: *product}

	err = d.Bun.NewSelect().
		Model(&catalog.Editions).
		Where("product_id = ?", productID).
		Order("sort_order", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	err = d.Bun.NewSelect().
		Model(&catalog.Platforms).
		Where("product_id = ?", productID).
		Order("sort_order", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	err = d.Bun.NewSelect().
		Model(&catalog.Denominations).
		Where("product_id = ?", productID).
		Order("sort_order", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	err = d.Bun.NewSelect().
		Model(&catalog.Plans).
		Relation("Durations", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("sort_order", "id")
		}).
		Where("plan.product_id = ?", productID).
		Order("sort_order", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	err = d.Bun.NewSelect().
		Model(&catalog.LicenseTypes).
		Where("product_id = ?", productID).
		Order("sort_order", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	err = d.Bun.NewSelect().
		Model(&catalog.LicenseDurations).
		Where("product_id = ?", productID).
		Order("sort_order", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	deal, err := d.GetActiveDeal(productID, now)
	if err != nil {
		return nil, err
	}
	catalog.Deal = deal

	return catalog, nil
}

// GetActiveDeal returns the flash deal covering now, or nil when no deal is
// running. The window test [start, end) matches the pricing package.
func (d *DB) GetActiveDeal(productID string, now time.Time) (*models.FlashDeal, error) {
	var deal models.FlashDeal
	err := d.Bun.NewSelect().
		Model(&deal).
		Where("product_id = ?", productID).
		Where("start_time <= ?", now).
		Where("end_time > ?", now).
		Order("start_time DESC").
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// ListProducts returns active products for the store catalog page.
func (d *DB) ListProducts(storeID string) ([]models.Product, error) {
	var products []models.Product
	q := d.Bun.NewSelect().
		Model(&products).
		Where("is_active = ?", true).
		Order("created_at DESC")
	if storeID != "" {
		q = q.Where("store_id = ?", storeID)
	}
	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	return products, nil
}
