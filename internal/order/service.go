package order

import (
	"encoding/json"
	"fmt"
	"time"

	"ms-storefront/internal/fulfillment"
	"ms-storefront/internal/kafka"
	"ms-storefront/internal/models"
	"ms-storefront/internal/order/grouping"
)

type DBLayer interface {
	GetOrderByID(id string) (*models.Order, error)
	ListOrders(filter models.OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(id, status string) error
	UpdatePaymentProof(id, proofStatus string) error
	SetPaymentIntent(id, intentID string) error
	GetOrdersByUserID(userID string) ([]models.Order, error)
	GetLineItemByID(id string) (*models.LineItem, error)
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type OrderService struct {
	DB          DBLayer
	Kafka       KafkaPublisher
	Credentials *fulfillment.CredentialIssuer
}

func NewOrderService(db DBLayer, kafkaPub KafkaPublisher, credentials *fulfillment.CredentialIssuer) *OrderService {
	return &OrderService{DB: db, Kafka: kafkaPub, Credentials: credentials}
}

// GroupView is one inferred basket plus its readiness flags, as rendered by
// the fulfillment tool.
type GroupView struct {
	models.OrderGroup
	AllApproved  bool `json:"all_approved"`
	AllCompleted bool `json:"all_completed"`
	ReadyToSend  bool `json:"ready_to_send"`
}

func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.DB.GetOrderByID(id)
}

func (s *OrderService) ListOrders(filter models.OrderFilter) ([]models.Order, error) {
	return s.DB.ListOrders(filter)
}

func (s *OrderService) GetOrdersByUserID(userID string) ([]models.Order, error) {
	return s.DB.GetOrdersByUserID(userID)
}

// ListGroups reconstructs baskets from the filtered order rows and computes
// readiness per group. The grouping is recomputed on every call; it is a
// view, not stored state.
func (s *OrderService) ListGroups(filter models.OrderFilter) ([]GroupView, error) {
	orders, err := s.DB.ListOrders(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	groups := grouping.GroupOrders(orders)
	views := make([]GroupView, len(groups))
	for i, g := range groups {
		ready := grouping.AllApproved(g) && !grouping.AllCompleted(g)
		views[i] = GroupView{
			OrderGroup:   g,
			AllApproved:  grouping.AllApproved(g),
			AllCompleted: grouping.AllCompleted(g),
			ReadyToSend:  ready,
		}
	}
	return views, nil
}

// terminal statuses admit no further transitions.
func terminal(status string) bool {
	return status == models.OrderStatusCancelled || status == models.OrderStatusRefunded
}

// TransitionStatus applies an admin-triggered status change. Beyond
// forbidding transitions out of terminal states the change is unconditional,
// and it never cascades to sibling orders in the same inferred group:
// grouping is presentation only.
func (s *OrderService) TransitionStatus(id, status string) error {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing, models.OrderStatusCompleted,
		models.OrderStatusCancelled, models.OrderStatusRefunded:
	default:
		return fmt.Errorf("unknown order status %q", status)
	}

	order, err := s.DB.GetOrderByID(id)
	if err != nil {
		return fmt.Errorf("order %s not found: %w", id, err)
	}
	if terminal(order.Status) {
		return fmt.Errorf("order %s is %s and cannot change status", id, order.Status)
	}

	if err := s.DB.UpdateOrderStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}

	order.Status = status
	topic := kafka.TopicOrderUpdated
	if status == models.OrderStatusCancelled {
		topic = kafka.TopicOrderCancelled
	}
	s.publishOrderEvent(topic, *order)
	return nil
}

// AttachPaymentIntent links a stripe payment intent id to an order so the
// later webhook/poll confirmation can find its way back.
func (s *OrderService) AttachPaymentIntent(id, intentID string) error {
	return s.DB.SetPaymentIntent(id, intentID)
}

// ReviewPaymentProof records the outcome of reviewing an uploaded proof.
func (s *OrderService) ReviewPaymentProof(id, proofStatus string) error {
	if proofStatus != models.ProofStatusVerified && proofStatus != models.ProofStatusRejected &&
		proofStatus != models.ProofStatusPending {
		return fmt.Errorf("unknown proof status %q", proofStatus)
	}

	order, err := s.DB.GetOrderByID(id)
	if err != nil {
		return fmt.Errorf("order %s not found: %w", id, err)
	}

	if err := s.DB.UpdatePaymentProof(order.ID, proofStatus); err != nil {
		return fmt.Errorf("failed to update payment proof for %s: %w", id, err)
	}

	if proofStatus == models.ProofStatusVerified {
		order.PaymentProofStatus = proofStatus
		s.publishOrderEvent(kafka.TopicPaymentVerified, *order)
	}
	return nil
}

// DispatchGroup issues credentials for every member of a ready basket,
// marks the members completed, and publishes a single dispatch event for
// the mailer. The whole basket goes out as one email, which is why a group
// with any unapproved member is refused outright.
func (s *OrderService) DispatchGroup(group models.OrderGroup) ([]fulfillment.IssuedCredential, error) {
	if !grouping.AllApproved(group) {
		return nil, fmt.Errorf("group %s has unapproved orders", group.Key)
	}
	if grouping.AllCompleted(group) {
		return nil, fmt.Errorf("group %s is already completed", group.Key)
	}

	issued := make([]fulfillment.IssuedCredential, 0, len(group.Orders))
	for _, ord := range group.Orders {
		item, err := s.DB.GetLineItemByID(ord.LineItemID)
		if err != nil {
			return nil, fmt.Errorf("line item %s not found for order %s: %w", ord.LineItemID, ord.ID, err)
		}

		cred, err := s.Credentials.Issue(ord, *item)
		if err != nil {
			return nil, fmt.Errorf("failed to issue credential for order %s: %w", ord.ID, err)
		}
		issued = append(issued, *cred)

		if err := s.DB.UpdateOrderStatus(ord.ID, models.OrderStatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete order %s: %w", ord.ID, err)
		}
	}

	event := models.CredentialDispatchEvent{
		GroupKey:     group.Key,
		UserID:       group.UserID,
		OrderIDs:     make([]string, len(group.Orders)),
		TotalAmount:  group.TotalAmount,
		DispatchedAt: time.Now(),
	}
	for i, ord := range group.Orders {
		event.OrderIDs[i] = ord.ID
	}
	value, err := json.Marshal(event)
	if err != nil {
		fmt.Printf("Failed to marshal dispatch event: %v\n", err)
		return issued, nil
	}
	if err := s.Kafka.Publish(kafka.TopicCredentialsDispatched, group.Key, value); err != nil {
		fmt.Printf("Kafka publish error (credentials dispatched): %v\n", err)
	}
	return issued, nil
}

func (s *OrderService) publishOrderEvent(topic string, order models.Order) {
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
