package db

import (
	"context"
	"time"

	"ms-storefront/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- LINE ITEMS ----------------

// CreateLineItem inserts the immutable snapshot. There is no update path:
// once written, a line item's price and option labels never change.
func (d *DB) CreateLineItem(item models.LineItem) error {
	_, err := d.Bun.NewInsert().Model(&item).Exec(context.Background())
	return err
}

func (d *DB) GetLineItemByID(id string) (*models.LineItem, error) {
	var item models.LineItem
	err := d.Bun.NewSelect().
		Model(&item).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ---------------- ORDERS ----------------

func (d *DB) CreateOrder(order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first, narrowed by the filter. The
// free-text search matches order id, user id and product id; the status and
// proof filters are equality tests.
func (d *DB) ListOrders(filter models.OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	q := d.Bun.NewSelect().
		Model(&orders).
		Order("created_at DESC")

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProofStatus != "" {
		q = q.Where("payment_proof_status = ?", filter.ProofStatus)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("id LIKE ?", pattern).
				WhereOr("user_id LIKE ?", pattern).
				WhereOr("product_id LIKE ?", pattern)
		})
	}

	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus writes the status transition. Prices are never touched
// here: status and payment proof are the only mutable order fields.
func (d *DB) UpdateOrderStatus(id, status string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// UpdatePaymentProof records the review outcome for an uploaded proof.
func (d *DB) UpdatePaymentProof(id, proofStatus string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("payment_proof_status = ?", proofStatus).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// SetPaymentIntent links a stripe payment intent to an order.
func (d *DB) SetPaymentIntent(id, intentID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("payment_intent_id = ?", intentID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

// GetOrdersByUserID returns one user's order history, newest first.
func (d *DB) GetOrdersByUserID(userID string) ([]models.Order, error) {
	return d.ListOrders(models.OrderFilter{UserID: userID})
}
