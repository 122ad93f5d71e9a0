package publisher

// Topic layout of the settlement event bus. order-events carries the
// state-machine transitions the reactors consume; provider-events is the
// inbound mirror of the payment processor's notifications.
const (
	TopicOrderEvents        = "order-events"
	TopicDiscountEvents     = "discount-events"
	TopicSubscriptionEvents = "subscription-events"
	TopicDisputeEvents      = "dispute-events"
	TopicProviderEvents     = "provider-events"
	TopicCatalogEvents      = "catalog-events"
)
