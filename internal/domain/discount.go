package domain

import "time"

type DiscountKind string

const (
	KindGiftCard     DiscountKind = "gift_card"
	KindPromoCode    DiscountKind = "promo_code"
	KindManual       DiscountKind = "manual"
	KindCancellation DiscountKind = "cancellation"
)

type DiscountMode string

const (
	ModePercentage DiscountMode = "percentage"
	ModeFixed      DiscountMode = "fixed"
)

// Discount is a reduction applied against an order total. Gift cards carry a
// spendable CurrentBalance; promo codes carry a percentage or fixed Value.
type Discount struct {
	ID             string
	Code           string
	Kind           DiscountKind
	Mode           DiscountMode
	Value          int64
	CurrentBalance *int64 // gift cards only, remaining spendable amount
	MaxUses        *int32
	TimesUsed      int32
	MinOrderAmount *int64
	ExpiresAt      *time.Time
	ActivatedAt    *time.Time // nil means immediately active
	ProductID      *string    // template discount attached to a purchasable product
	UserID         *string    // restricts redemption to one recipient
	RecipientEmail string
	SourceOrderID  *string // order that minted this card
	SourceItemID   *string // line item that minted this card
	ExternalID     string  // coupon id at the payment provider, if mirrored
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Usable reports whether the discount can still be redeemed at the given
// instant: activated, not expired, not exhausted, and holding balance when
// balance-bearing.
func (d *Discount) Usable(now time.Time) bool {
	if d.ActivatedAt != nil && d.ActivatedAt.After(now) {
		return false
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.After(now) {
		return false
	}
	if d.MaxUses != nil && d.TimesUsed >= *d.MaxUses {
		return false
	}
	if d.BalanceBearing() && (d.CurrentBalance == nil || *d.CurrentBalance <= 0) {
		return false
	}
	return true
}

func (d *Discount) BalanceBearing() bool {
	return d.Kind == KindGiftCard
}

// Template discounts belong to a purchasable gift-card product and are never
// redeemed directly; succeeded orders mint per-recipient copies from them.
func (d *Discount) IsTemplate() bool {
	return d.ProductID != nil && d.UserID == nil
}

// OrderDiscount records one application of a discount to an order. Created
// exactly once per (order, discount) pair inside the settlement transaction
// and never mutated afterward; its existence is the settlement idempotency
// token.
type OrderDiscount struct {
	ID                 string
	OrderID            string
	DiscountID         string
	AmountApplied      int64
	BalanceBefore      *int64 // gift cards only
	BalanceAfter       *int64 // gift cards only
	ExternalDiscountID string
	CreatedAt          time.Time
}

// AppliedDiscount is a priced application computed by Stack, not yet settled.
type AppliedDiscount struct {
	Discount *Discount
	Amount   int64
}
