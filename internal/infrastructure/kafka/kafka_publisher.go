package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(topic string, msgs ...domain.Message) error {
	var km []kafka.Message
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write messages to %s: %w", topic, err)
	}
	return nil
}

// EventKey picks the partition key per event family so all events of one
// aggregate land on the same partition.
func EventKey(event domain.Event) []byte {
	switch {
	case event.Order != nil:
		return []byte(event.Order.OrderID)
	case event.Discount != nil:
		return []byte(event.Discount.DiscountID)
	case event.Subscription != nil:
		return []byte(event.Subscription.SubscriptionID)
	case event.Customer != nil:
		return []byte(event.Customer.CustomerID)
	case event.Dispute != nil:
		return []byte(event.Dispute.OrderID)
	}
	return []byte(event.ID)
}
