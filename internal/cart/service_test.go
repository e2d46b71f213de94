package cart_test

import (
	"errors"
	"testing"
	"time"

	"ms-storefront/internal/cart"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock implementations
type MockCatalogDB struct {
	mock.Mock
}

func (m *MockCatalogDB) GetVariantCatalog(productID string, now time.Time) (*models.VariantCatalog, error) {
	args := m.Called(productID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariantCatalog), args.Error(1)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(userID string) ([]models.LineItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LineItem), args.Error(1)
}

func (m *MockCartStore) Append(userID string, item models.LineItem) error {
	args := m.Called(userID, item)
	return args.Error(0)
}

func (m *MockCartStore) Remove(userID, lineItemID string) error {
	args := m.Called(userID, lineItemID)
	return args.Error(0)
}

func (m *MockCartStore) Clear(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

type MockOrderDB struct {
	mock.Mock
}

func (m *MockOrderDB) CreateLineItem(item models.LineItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockOrderDB) CreateOrder(order models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) Publish(topic string, key string, value []byte) error {
	args := m.Called(topic, key, value)
	return args.Error(0)
}

func serviceGiftCardCatalog() *models.VariantCatalog {
	return &models.VariantCatalog{
		Product: models.Product{
			ID:          "prod-gc",
			Title:       "Steam Gift Card",
			ProductType: models.ProductTypeGiftCard,
			Currency:    "USD",
		},
		Denominations: []models.Denomination{
			{ID: "den-50", ProductID: "prod-gc", FaceValue: 5000, Price: 4800},
		},
	}
}

func TestAddItem_StoresPricedSnapshot(t *testing.T) {
	catalogDB := new(MockCatalogDB)
	store := new(MockCartStore)
	svc := cart.NewCartService(catalogDB, store, new(MockOrderDB), new(MockKafkaProducer))

	catalogDB.On("GetVariantCatalog", "prod-gc", mock.Anything).Return(serviceGiftCardCatalog(), nil)
	store.On("Append", "user-1", mock.Anything).Return(nil)

	item, err := svc.AddItem("user-1", "prod-gc", models.SelectionState{
		DenominationID: "den-50",
		Quantity:       2,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4800), item.UnitPrice)
	assert.Equal(t, int64(9600), item.TotalPrice)
	assert.Equal(t, 2, item.Quantity)
	store.AssertExpectations(t)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	catalogDB := new(MockCatalogDB)
	store := new(MockCartStore)
	svc := cart.NewCartService(catalogDB, store, new(MockOrderDB), new(MockKafkaProducer))

	catalogDB.On("GetVariantCatalog", "nope", mock.Anything).Return(nil, errors.New("not found"))

	_, err := svc.AddItem("user-1", "nope", models.SelectionState{Quantity: 1})

	assert.Error(t, err)
	store.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestAddItem_InvalidSelectionNotStored(t *testing.T) {
	catalogDB := new(MockCatalogDB)
	store := new(MockCartStore)
	svc := cart.NewCartService(catalogDB, store, new(MockOrderDB), new(MockKafkaProducer))

	catalogDB.On("GetVariantCatalog", "prod-gc", mock.Anything).Return(serviceGiftCardCatalog(), nil)

	// Missing denomination for a gift card.
	_, err := svc.AddItem("user-1", "prod-gc", models.SelectionState{Quantity: 1})

	assert.ErrorIs(t, err, cart.ErrIncompleteSelection)
	store.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCheckout_OneOrderPerLineItem(t *testing.T) {
	store := new(MockCartStore)
	orders := new(MockOrderDB)
	k := new(MockKafkaProducer)
	svc := cart.NewCartService(new(MockCatalogDB), store, orders, k)

	items := []models.LineItem{
		{ID: "li-1", UserID: "user-1", ProductID: "p1", TotalPrice: 4800, Currency: "USD"},
		{ID: "li-2", UserID: "user-1", ProductID: "p2", TotalPrice: 2999, Currency: "USD"},
	}
	store.On("Get", "user-1").Return(items, nil)
	store.On("Clear", "user-1").Return(nil)
	orders.On("CreateLineItem", mock.Anything).Return(nil).Times(2)
	orders.On("CreateOrder", mock.Anything).Return(nil).Times(2)
	k.On("Publish", kafka.TopicOrderCreated, mock.Anything, mock.Anything).Return(nil).Times(2)

	placed, err := svc.Checkout("user-1", models.PaymentMethodBankTransfer)

	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, int64(4800), placed[0].Amount)
	assert.Equal(t, "li-1", placed[0].LineItemID)
	assert.Equal(t, models.OrderStatusPending, placed[0].Status)
	assert.NotEqual(t, placed[0].ID, placed[1].ID)
	orders.AssertExpectations(t)
	k.AssertExpectations(t)
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := new(MockCartStore)
	svc := cart.NewCartService(new(MockCatalogDB), store, new(MockOrderDB), new(MockKafkaProducer))

	store.On("Get", "user-1").Return([]models.LineItem{}, nil)

	_, err := svc.Checkout("user-1", models.PaymentMethodCard)

	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestCheckout_UsesSnapshotPriceNotCatalog(t *testing.T) {
	catalogDB := new(MockCatalogDB)
	store := new(MockCartStore)
	orders := new(MockOrderDB)
	k := new(MockKafkaProducer)
	svc := cart.NewCartService(catalogDB, store, orders, k)

	// The stored snapshot carries a price the live catalog no longer has.
	store.On("Get", "user-1").Return([]models.LineItem{
		{ID: "li-1", UserID: "user-1", ProductID: "p1", TotalPrice: 4275, Currency: "USD"},
	}, nil)
	store.On("Clear", "user-1").Return(nil)
	orders.On("CreateLineItem", mock.Anything).Return(nil)
	orders.On("CreateOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.Amount == 4275
	})).Return(nil)
	k.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Checkout("user-1", models.PaymentMethodBankTransfer)

	require.NoError(t, err)
	catalogDB.AssertNotCalled(t, "GetVariantCatalog", mock.Anything, mock.Anything)
	orders.AssertExpectations(t)
}
