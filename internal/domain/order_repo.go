package domain

type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	UpdateOrderStatus(orderID string, newStatus OrderStatus) error
	UpdateOrderRefundDetails(orderID, reason, notes string) error
	UpdateOrderConfirmationURL(orderID, url string) error
	UpdateStagedCodes(orderID string, codes []string) error
	SetItemCommission(itemID string, amount int64, recipient string) error
	FindExpiredOrders() ([]*Order, error)
}
