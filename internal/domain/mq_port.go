package domain

// Message is one opaque record on the event bus. Key is used for partition
// affinity (order id for order events).
type Message struct {
	Key   []byte
	Value []byte
}

// PublisherPort hides the broker behind the use cases. Delivery is
// at-least-once; every consumer must be idempotent.
type PublisherPort interface {
	Publish(topic string, msgs ...Message) error
}

type SubscriberPort interface {
	Subscribe(topic, groupID string) (<-chan Message, error)
}
