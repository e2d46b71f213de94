package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ms-storefront/internal/kafka"
	"ms-storefront/internal/models"

	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

type CatalogDB interface {
	GetVariantCatalog(productID string, now time.Time) (*models.VariantCatalog, error)
}

type CartStore interface {
	Get(userID string) ([]models.LineItem, error)
	Append(userID string, item models.LineItem) error
	Remove(userID, lineItemID string) error
	Clear(userID string) error
}

type OrderDB interface {
	CreateLineItem(item models.LineItem) error
	CreateOrder(order models.Order) error
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type CartService struct {
	Catalog CatalogDB
	Store   CartStore
	Orders  OrderDB
	Kafka   KafkaPublisher
}

func NewCartService(catalog CatalogDB, store CartStore, orders OrderDB, kafkaPub KafkaPublisher) *CartService {
	return &CartService{Catalog: catalog, Store: store, Orders: orders, Kafka: kafkaPub}
}

// AddItem loads the catalog fresh, builds the priced snapshot (which
// re-checks the flash-deal window, dropping an expired discount), and stores
// it in the user's cart. The returned item carries the price actually
// captured so the caller can re-show the total if it changed since display.
func (s *CartService) AddItem(userID, productID string, sel models.SelectionState) (*models.LineItem, error) {
	now := time.Now()
	catalog, err := s.Catalog.GetVariantCatalog(productID, now)
	if err != nil {
		return nil, fmt.Errorf("product %s not found: %w", productID, err)
	}

	item, err := BuildLineItem(userID, *catalog, sel, now)
	if err != nil {
		return nil, err
	}

	if err := s.Store.Append(userID, *item); err != nil {
		return nil, fmt.Errorf("failed to store cart item: %w", err)
	}
	return item, nil
}

func (s *CartService) GetCart(userID string) ([]models.LineItem, error) {
	return s.Store.Get(userID)
}

func (s *CartService) RemoveItem(userID, lineItemID string) error {
	return s.Store.Remove(userID, lineItemID)
}

// Checkout persists every cart line item and writes one order row per item.
// No basket key is recorded; the rows share only user and wall clock, which
// is what the fulfillment grouping reconstructs baskets from. The line-item
// price is authoritative: checkout never re-resolves against the catalog.
func (s *CartService) Checkout(userID, paymentMethod string) ([]models.Order, error) {
	items, err := s.Store.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	orders := make([]models.Order, 0, len(items))
	for _, item := range items {
		if err := s.Orders.CreateLineItem(item); err != nil {
			return nil, fmt.Errorf("failed to persist line item %s: %w", item.ID, err)
		}

		order := models.Order{
			ID:            uuid.NewString(),
			UserID:        userID,
			ProductID:     item.ProductID,
			LineItemID:    item.ID,
			Amount:        item.TotalPrice,
			Currency:      item.Currency,
			Status:        models.OrderStatusPending,
			PaymentMethod: paymentMethod,
			CreatedAt:     now,
		}
		if err := s.Orders.CreateOrder(order); err != nil {
			return nil, fmt.Errorf("failed to create order for line item %s: %w", item.ID, err)
		}
		orders = append(orders, order)

		s.publishOrderEvent(kafka.TopicOrderCreated, order)
	}

	if err := s.Store.Clear(userID); err != nil {
		// Orders are already placed; a stale cart is recoverable.
		fmt.Printf("Failed to clear cart for user %s: %v\n", userID, err)
	}
	return orders, nil
}

func (s *CartService) publishOrderEvent(topic string, order models.Order) {
	event := models.OrderEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		ProductID:     order.ProductID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
	}
	value, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("Failed to marshal order event: %v\n", err)
		return
	}
	if err := s.Kafka.Publish(topic, order.ID, value); err != nil {
		fmt.Printf("Kafka publish error (%s): %v\n", topic, err)
	}
}
