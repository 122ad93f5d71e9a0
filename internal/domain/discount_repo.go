package domain

type DiscountRepository interface {
	CreateDiscount(d *Discount) error
	GetDiscountByID(id string) (*Discount, error)
	GetDiscountByCode(code string) (*Discount, error)
	GetTemplateByProductID(productID string) (*Discount, error)
	CodeExists(code string) (bool, error)
	SetExternalID(discountID, externalID string) error

	// GetOrderDiscount returns the settled (order, discount) row, or nil when
	// the pair has not settled.
	GetOrderDiscount(orderID, discountID string) (*OrderDiscount, error)
	ListOrderDiscounts(orderID string) ([]*OrderDiscount, error)

	// SettleOrderDiscounts runs the whole settlement for one order as a single
	// atomic transaction: per applied discount it creates the OrderDiscount
	// row, and for gift cards decrements the balance and bumps the usage
	// counter under a row lock, re-capping the applied amount to the live
	// balance. Pairs that already have an OrderDiscount row are skipped, so
	// re-running settlement never double-spends.
	SettleOrderDiscounts(orderID string, applied []*AppliedDiscount) ([]*OrderDiscount, error)

	// CountMintedCards reports how many per-recipient cards were already
	// minted from the given source item of the given order.
	CountMintedCards(orderID, itemID string) (int64, error)
}
