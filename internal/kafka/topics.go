package kafka

import (
	"log"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Storefront topics. The mailer consumes credentials.dispatched; the rest
// feed downstream services and the analytics pipeline.
const (
	TopicOrderCreated          = "storefront.order.created"
	TopicOrderUpdated          = "storefront.order.updated"
	TopicOrderCancelled        = "storefront.order.cancelled"
	TopicCredentialsDispatched = "storefront.credentials.dispatched"
	TopicPaymentVerified       = "storefront.payment.verified"
)

func RequiredTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderUpdated,
		TopicOrderCancelled,
		TopicCredentialsDispatched,
		TopicPaymentVerified,
	}
}

// EnsureTopicsExist creates the given topics if they don't already exist.
func EnsureTopicsExist(brokers []string, topics []string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		topicConfigs := []kafka.TopicConfig{
			{
				Topic:             topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			},
		}

		err = controllerConn.CreateTopics(topicConfigs...)
		if err != nil {
			if err.Error() == "kafka server: topic already exists" {
				log.Printf("Topic %s already exists", topic)
				continue
			}
			log.Printf("Error creating topic %s: %v", topic, err)
			// Keep going so one failure doesn't block the rest.
		} else {
			log.Printf("Created topic: %s", topic)
		}
	}

	// Give the brokers a moment to settle the new topics.
	time.Sleep(1 * time.Second)
	return nil
}

// CreateTopicIfNotExists creates a single topic if it doesn't exist.
func CreateTopicIfNotExists(brokers []string, topic string) error {
	return EnsureTopicsExist(brokers, []string{topic})
}
