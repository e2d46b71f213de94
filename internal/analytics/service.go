// Package analytics aggregates sales figures across orders and line items.
// All revenue values are minor currency units, matching the order rows they
// are summed from.
package analytics

import (
	"context"

	"ms-storefront/internal/models"

	"github.com/uptrace/bun"
)

// Service handles analytics operations
type Service struct {
	db *bun.DB
}

// NewService creates a new analytics service
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// ProductAnalytics represents aggregated sales data for one product
type ProductAnalytics struct {
	ProductID      string              `json:"product_id"`
	TotalRevenue   int64               `json:"total_revenue"`
	TotalListValue int64               `json:"total_list_value"`
	PromoSavings   int64               `json:"promo_savings"`
	UnitsSold      int                 `json:"units_sold"`
	OrderCount     int                 `json:"order_count"`
	DailySales     []DailySalesMetrics `json:"daily_sales"`
}

// StoreAnalytics represents store-wide sales broken down by product type
type StoreAnalytics struct {
	TotalRevenue int64              `json:"total_revenue"`
	OrderCount   int                `json:"order_count"`
	SalesByType  []TypeSalesMetrics `json:"sales_by_type"`
}

// TypeSalesMetrics contains sales metrics for one product type
type TypeSalesMetrics struct {
	ProductType string `json:"product_type"`
	UnitsSold   int    `json:"units_sold"`
	Revenue     int64  `json:"revenue"`
}

// DailySalesMetrics contains metrics for a single day
type DailySalesMetrics struct {
	Date       string `json:"date"`
	Revenue    int64  `json:"revenue"`
	UnitsSold  int    `json:"units_sold"`
	OrderCount int    `json:"order_count"`
}

// GetProductAnalytics returns sales figures for one product, optionally
// narrowed to a single order status.
func (s *Service) GetProductAnalytics(ctx context.Context, productID string, status string) (*ProductAnalytics, error) {
	var orders []models.Order
	query := s.db.NewSelect().
		Model(&orders).
		Where("product_id = ?", productID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}

	// Per-unit figures come from the immutable line-item snapshots, so the
	// numbers stay correct after catalog price changes.
	type lineItemAgg struct {
		Units     int   `bun:"units"`
		ListValue int64 `bun:"list_value"`
	}
	var agg lineItemAgg
	rawSQL := `
		SELECT
			COALESCE(SUM(li.quantity), 0) AS units,
			COALESCE(SUM(li.list_price * li.quantity), 0) AS list_value
		FROM line_items li
		JOIN orders o ON o.line_item_id = li.id
		WHERE o.product_id = ?`
	args := []interface{}{productID}
	if status != "" {
		rawSQL += " AND o.status = ?"
		args = append(args, status)
	}
	if err := s.db.NewRaw(rawSQL, args...).Scan(ctx, &agg); err != nil {
		return nil, err
	}

	analytics := &ProductAnalytics{
		ProductID:      productID,
		TotalListValue: agg.ListValue,
		UnitsSold:      agg.Units,
		OrderCount:     len(orders),
	}
	for _, o := range orders {
		analytics.TotalRevenue += o.Amount
	}
	analytics.PromoSavings = analytics.TotalListValue - analytics.TotalRevenue
	if analytics.PromoSavings < 0 {
		analytics.PromoSavings = 0
	}

	daily, err := s.getDailySales(ctx, productID, status)
	if err != nil {
		return nil, err
	}
	analytics.DailySales = daily

	return analytics, nil
}

func (s *Service) getDailySales(ctx context.Context, productID, status string) ([]DailySalesMetrics, error) {
	type dailyRaw struct {
		SalesDate  string `bun:"sales_date"`
		Revenue    int64  `bun:"revenue"`
		Units      int    `bun:"units"`
		OrderCount int    `bun:"order_count"`
	}

	rawSQL := `
		SELECT
			DATE(o.created_at) AS sales_date,
			SUM(o.amount) AS revenue,
			SUM(li.quantity) AS units,
			COUNT(o.id) AS order_count
		FROM orders o
		JOIN line_items li ON o.line_item_id = li.id
		WHERE o.product_id = ?`
	args := []interface{}{productID}
	if status != "" {
		rawSQL += " AND o.status = ?"
		args = append(args, status)
	}
	rawSQL += `
		GROUP BY DATE(o.created_at)
		ORDER BY DATE(o.created_at)`

	var rows []dailyRaw
	if err := s.db.NewRaw(rawSQL, args...).Scan(ctx, &rows); err != nil {
		return nil, err
	}

	daily := make([]DailySalesMetrics, len(rows))
	for i, r := range rows {
		daily[i] = DailySalesMetrics{
			Date:       r.SalesDate,
			Revenue:    r.Revenue,
			UnitsSold:  r.Units,
			OrderCount: r.OrderCount,
		}
	}
	return daily, nil
}

// GetStoreAnalytics returns store-wide revenue broken down by product type.
func (s *Service) GetStoreAnalytics(ctx context.Context, status string) (*StoreAnalytics, error) {
	type typeRaw struct {
		ProductType string `bun:"product_type"`
		Units       int    `bun:"units"`
		Revenue     int64  `bun:"revenue"`
		OrderCount  int    `bun:"order_count"`
	}

	rawSQL := `
		SELECT
			li.product_type AS product_type,
			SUM(li.quantity) AS units,
			SUM(o.amount) AS revenue,
			COUNT(o.id) AS order_count
		FROM orders o
		JOIN line_items li ON o.line_item_id = li.id`
	args := []interface{}{}
	if status != "" {
		rawSQL += " WHERE o.status = ?"
		args = append(args, status)
	}
	rawSQL += `
		GROUP BY li.product_type
		ORDER BY revenue DESC`

	var rows []typeRaw
	if err := s.db.NewRaw(rawSQL, args...).Scan(ctx, &rows); err != nil {
		return nil, err
	}

	analytics := &StoreAnalytics{
		SalesByType: make([]TypeSalesMetrics, len(rows)),
	}
	for i, r := range rows {
		analytics.SalesByType[i] = TypeSalesMetrics{
			ProductType: r.ProductType,
			UnitsSold:   r.Units,
			Revenue:     r.Revenue,
		}
		analytics.TotalRevenue += r.Revenue
		analytics.OrderCount += r.OrderCount
	}
	return analytics, nil
}
