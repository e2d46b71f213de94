package order_test

import (
	"errors"
	"testing"
	"time"

	"ms-storefront/internal/fulfillment"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/models"
	"ms-storefront/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetOrderByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) ListOrders(filter models.OrderFilter) ([]models.Order, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) UpdateOrderStatus(id, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockDBLayer) UpdatePaymentProof(id, proofStatus string) error {
	args := m.Called(id, proofStatus)
	return args.Error(0)
}

func (m *MockDBLayer) SetPaymentIntent(id, intentID string) error {
	args := m.Called(id, intentID)
	return args.Error(0)
}

func (m *MockDBLayer) GetOrdersByUserID(userID string) ([]models.Order, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) GetLineItemByID(id string) (*models.LineItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LineItem), args.Error(1)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) Publish(topic string, key string, value []byte) error {
	args := m.Called(topic, key, value)
	return args.Error(0)
}

func newService(db *MockDBLayer, k *MockKafkaProducer) *order.OrderService {
	return order.NewOrderService(db, k, fulfillment.NewCredentialIssuer("test-secret"))
}

func TestTransitionStatus_Success(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	db.On("GetOrderByID", "ord-1").Return(&models.Order{
		ID: "ord-1", UserID: "user-1", Status: models.OrderStatusPending,
	}, nil)
	db.On("UpdateOrderStatus", "ord-1", models.OrderStatusProcessing).Return(nil)
	k.On("Publish", kafka.TopicOrderUpdated, "ord-1", mock.Anything).Return(nil)

	err := svc.TransitionStatus("ord-1", models.OrderStatusProcessing)

	assert.NoError(t, err)
	db.AssertExpectations(t)
	k.AssertExpectations(t)
}

func TestTransitionStatus_CancelledPublishesCancelTopic(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	db.On("GetOrderByID", "ord-1").Return(&models.Order{
		ID: "ord-1", Status: models.OrderStatusPending,
	}, nil)
	db.On("UpdateOrderStatus", "ord-1", models.OrderStatusCancelled).Return(nil)
	k.On("Publish", kafka.TopicOrderCancelled, "ord-1", mock.Anything).Return(nil)

	err := svc.TransitionStatus("ord-1", models.OrderStatusCancelled)

	assert.NoError(t, err)
	k.AssertExpectations(t)
}

func TestTransitionStatus_TerminalOrderRejected(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	db.On("GetOrderByID", "ord-1").Return(&models.Order{
		ID: "ord-1", Status: models.OrderStatusCancelled,
	}, nil)

	err := svc.TransitionStatus("ord-1", models.OrderStatusProcessing)

	assert.Error(t, err)
	db.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything)
}

func TestTransitionStatus_UnknownStatusRejected(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	err := svc.TransitionStatus("ord-1", "shipped")

	assert.Error(t, err)
	db.AssertNotCalled(t, "GetOrderByID", mock.Anything)
}

func TestReviewPaymentProof_VerifiedPublishesEvent(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	db.On("GetOrderByID", "ord-1").Return(&models.Order{ID: "ord-1"}, nil)
	db.On("UpdatePaymentProof", "ord-1", models.ProofStatusVerified).Return(nil)
	k.On("Publish", kafka.TopicPaymentVerified, "ord-1", mock.Anything).Return(nil)

	err := svc.ReviewPaymentProof("ord-1", models.ProofStatusVerified)

	assert.NoError(t, err)
	k.AssertExpectations(t)
}

func TestReviewPaymentProof_RejectedDoesNotPublish(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	db.On("GetOrderByID", "ord-1").Return(&models.Order{ID: "ord-1"}, nil)
	db.On("UpdatePaymentProof", "ord-1", models.ProofStatusRejected).Return(nil)

	err := svc.ReviewPaymentProof("ord-1", models.ProofStatusRejected)

	assert.NoError(t, err)
	k.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestListGroups_ComputesReadiness(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	now := time.Now()
	db.On("ListOrders", mock.Anything).Return([]models.Order{
		{ID: "a", UserID: "u1", Status: models.OrderStatusPending,
			PaymentProofStatus: models.ProofStatusVerified, Amount: 1000, CreatedAt: now},
		{ID: "b", UserID: "u1", Status: models.OrderStatusPending,
			PaymentProofStatus: models.ProofStatusVerified, Amount: 2000, CreatedAt: now.Add(10 * time.Second)},
		{ID: "c", UserID: "u2", Status: models.OrderStatusPending,
			PaymentProofStatus: models.ProofStatusPending, Amount: 500, CreatedAt: now},
	}, nil)

	groups, err := svc.ListGroups(models.OrderFilter{})

	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	for _, g := range groups {
		switch g.UserID {
		case "u1":
			assert.True(t, g.AllApproved)
			assert.True(t, g.ReadyToSend)
			assert.Equal(t, int64(3000), g.TotalAmount)
		case "u2":
			assert.False(t, g.AllApproved)
			assert.False(t, g.ReadyToSend)
		}
	}
}

func TestDispatchGroup_Success(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	now := time.Now()
	group := models.OrderGroup{
		Key:    "u1:1000",
		UserID: "u1",
		Orders: []models.Order{
			{ID: "a", UserID: "u1", LineItemID: "li-a", Status: models.OrderStatusPending,
				PaymentProofStatus: models.ProofStatusVerified, Amount: 1000, CreatedAt: now},
			{ID: "b", UserID: "u1", LineItemID: "li-b", Status: models.OrderStatusPending,
				PaymentProofStatus: models.ProofStatusVerified, Amount: 2000, CreatedAt: now},
		},
		TotalAmount: 3000,
	}

	db.On("GetLineItemByID", "li-a").Return(&models.LineItem{ID: "li-a", ProductType: models.ProductTypeGame}, nil)
	db.On("GetLineItemByID", "li-b").Return(&models.LineItem{ID: "li-b", ProductType: models.ProductTypeGiftCard}, nil)
	db.On("UpdateOrderStatus", "a", models.OrderStatusCompleted).Return(nil)
	db.On("UpdateOrderStatus", "b", models.OrderStatusCompleted).Return(nil)
	k.On("Publish", kafka.TopicCredentialsDispatched, "u1:1000", mock.Anything).Return(nil)

	issued, err := svc.DispatchGroup(group)

	assert.NoError(t, err)
	assert.Len(t, issued, 2)
	assert.Equal(t, fulfillment.KindGameKey, issued[0].Credential.Kind)
	assert.Equal(t, fulfillment.KindGiftCardCode, issued[1].Credential.Kind)
	db.AssertExpectations(t)
	k.AssertExpectations(t)
}

func TestDispatchGroup_UnapprovedMemberRefused(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	group := models.OrderGroup{
		Key:    "u1:1000",
		UserID: "u1",
		Orders: []models.Order{
			{ID: "a", Status: models.OrderStatusPending, PaymentProofStatus: models.ProofStatusVerified},
			{ID: "b", Status: models.OrderStatusPending, PaymentProofStatus: models.ProofStatusPending},
		},
	}

	_, err := svc.DispatchGroup(group)

	assert.Error(t, err)
	db.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything)
	k.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchGroup_AlreadyCompletedRefused(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	group := models.OrderGroup{
		Key:    "u1:1000",
		UserID: "u1",
		Orders: []models.Order{
			{ID: "a", Status: models.OrderStatusCompleted, PaymentProofStatus: models.ProofStatusVerified},
		},
	}

	_, err := svc.DispatchGroup(group)

	assert.Error(t, err)
	k.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchGroup_LineItemLookupFailure(t *testing.T) {
	db := new(MockDBLayer)
	k := new(MockKafkaProducer)
	svc := newService(db, k)

	group := models.OrderGroup{
		Key:    "u1:1000",
		UserID: "u1",
		Orders: []models.Order{
			{ID: "a", LineItemID: "li-missing", Status: models.OrderStatusPending,
				PaymentProofStatus: models.ProofStatusVerified},
		},
	}

	db.On("GetLineItemByID", "li-missing").Return(nil, errors.New("not found"))

	_, err := svc.DispatchGroup(group)

	assert.Error(t, err)
	db.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything)
}
