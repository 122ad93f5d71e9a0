package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/craftplace/settlement-service/internal/domain"
	publisher "github.com/craftplace/settlement-service/internal/infrastructure/kafka"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

// DiscountUsecase is the discount ledger: validation, pricing, stacking and
// atomic settlement of discounts against order totals.
type DiscountUsecase interface {
	Validate(ctx context.Context, code string) (*domain.Discount, error)
	CalculateAmount(d *domain.Discount, remainingTotal int64) int64
	Stack(ctx context.Context, order *domain.Order, codes []string) ([]*domain.AppliedDiscount, error)
	SettleForOrder(ctx context.Context, orderID string) error

	Apply(ctx context.Context, order *domain.Order, code string) (*ApplyResult, error)
	Remove(ctx context.Context, orderID, discountID string) error

	CreateDiscount(ctx context.Context, d *domain.Discount, mirrorToProvider bool) error
	GenerateUniqueCode(kind domain.DiscountKind) (string, error)
	GenerateGiftCards(ctx context.Context, orderID string) error
}

type ApplyResult struct {
	AmountApplied int64
	NewTotal      int64
}

const codeGenMaxAttempts = 5

var codePrefixes = map[domain.DiscountKind]string{
	domain.KindGiftCard:     "GIFT",
	domain.KindPromoCode:    "PROMO",
	domain.KindManual:       "CRED",
	domain.KindCancellation: "RTRN",
}

type DefaultDiscountUsecase struct {
	DiscountRepo domain.DiscountRepository
	OrderRepo    domain.OrderRepository
	CatalogRepo  domain.CatalogRepository
	Provider     domain.ProviderPort
	Publisher    domain.PublisherPort
	Metrics      *metrics.SettlementMetrics
	Clock        domain.Clock
}

func NewDefaultDiscountUsecase(
	discountRepo domain.DiscountRepository,
	orderRepo domain.OrderRepository,
	catalogRepo domain.CatalogRepository,
	provider domain.ProviderPort,
	pub domain.PublisherPort,
	m *metrics.SettlementMetrics,
	clock domain.Clock) *DefaultDiscountUsecase {

	return &DefaultDiscountUsecase{
		DiscountRepo: discountRepo,
		OrderRepo:    orderRepo,
		CatalogRepo:  catalogRepo,
		Provider:     provider,
		Publisher:    pub,
		Metrics:      m,
		Clock:        clock,
	}
}

// Validate resolves a code to a usable discount. Expired, exhausted and
// drained codes all surface as ErrDiscountNotFound: the caller's message is
// the same either way.
func (uc *DefaultDiscountUsecase) Validate(ctx context.Context, code string) (*domain.Discount, error) {
	d, err := uc.DiscountRepo.GetDiscountByCode(code)
	if err != nil {
		return nil, err
	}
	if !d.Usable(uc.Clock.Now()) {
		return nil, domain.ErrDiscountNotFound
	}
	return d, nil
}

// CalculateAmount prices a discount against the remaining order total.
// Returns 0 when the order does not meet the discount's minimum; callers
// surface that distinctly from an invalid code.
func (uc *DefaultDiscountUsecase) CalculateAmount(d *domain.Discount, remainingTotal int64) int64 {
	if remainingTotal <= 0 {
		return 0
	}
	if d.MinOrderAmount != nil && remainingTotal < *d.MinOrderAmount {
		return 0
	}

	var amount int64
	switch d.Mode {
	case domain.ModePercentage:
		amount = remainingTotal * d.Value / 100
	case domain.ModeFixed:
		amount = d.Value
		if d.BalanceBearing() && d.CurrentBalance != nil {
			amount = *d.CurrentBalance
		}
	}

	if amount > remainingTotal {
		amount = remainingTotal
	}
	return amount
}

// Stack applies codes in the caller-supplied order against a running
// remaining total. First-listed is consumed first, zero-amount codes are
// skipped, and stacking stops as soon as the total is covered. The policy is
// deliberately greedy and order-preserving; re-sorting by value or kind would
// change which balances get spent.
func (uc *DefaultDiscountUsecase) Stack(ctx context.Context, order *domain.Order, codes []string) ([]*domain.AppliedDiscount, error) {
	remaining := order.Amount
	var applied []*domain.AppliedDiscount

	for _, code := range codes {
		if remaining <= 0 {
			break
		}
		d, err := uc.Validate(ctx, code)
		if err != nil {
			if err == domain.ErrDiscountNotFound {
				slog.Warn("skipping unusable discount code", "order_id", order.ID, "code", code)
				continue
			}
			return nil, err
		}
		amount := uc.CalculateAmount(d, remaining)
		if amount == 0 {
			continue
		}
		applied = append(applied, &domain.AppliedDiscount{Discount: d, Amount: amount})
		remaining -= amount
	}

	return applied, nil
}

// SettleForOrder settles the discount codes staged on a succeeded order as
// one atomic transaction. The OrderDiscount row is the idempotency token:
// re-running settlement for the same order never double-spends a balance.
func (uc *DefaultDiscountUsecase) SettleForOrder(ctx context.Context, orderID string) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if len(order.StagedCodes) == 0 {
		return nil
	}

	applied, err := uc.Stack(ctx, order, order.StagedCodes)
	if err != nil {
		return fmt.Errorf("failed to stack discounts for order %s: %w", orderID, err)
	}
	if len(applied) == 0 {
		return nil
	}

	start := time.Now()
	settled, err := uc.DiscountRepo.SettleOrderDiscounts(orderID, applied)
	if err != nil {
		return err
	}
	if uc.Metrics != nil {
		uc.Metrics.SettleDuration.Observe(time.Since(start).Seconds())
		for _, ad := range applied {
			uc.Metrics.DiscountsSettledTotal.WithLabelValues(string(ad.Discount.Kind)).Inc()
			uc.Metrics.DiscountsSettledAmountTotal.WithLabelValues(string(ad.Discount.Kind)).Add(float64(ad.Amount))
		}
	}

	slog.Info("discounts settled", "order_id", orderID, "rows", len(settled))
	return nil
}

// Apply is the checkout-facing single-code application: it stages the code
// on the order and prices it against what the already-staged stack leaves
// over. Settlement happens later, when the order succeeds. Errors are
// user-visible and distinct: invalid code, below minimum, already applied,
// nothing left to discount.
func (uc *DefaultDiscountUsecase) Apply(ctx context.Context, order *domain.Order, code string) (*ApplyResult, error) {
	d, err := uc.Validate(ctx, code)
	if err != nil {
		return nil, err
	}

	for _, staged := range order.StagedCodes {
		if staged == code {
			return nil, domain.ErrAlreadyApplied
		}
	}

	staged, err := uc.Stack(ctx, order, order.StagedCodes)
	if err != nil {
		return nil, err
	}
	remaining := order.Amount
	for _, ad := range staged {
		remaining -= ad.Amount
	}
	if remaining <= 0 {
		return nil, domain.ErrOrderFullyCovered
	}

	if d.MinOrderAmount != nil && remaining < *d.MinOrderAmount {
		return nil, domain.ErrBelowMinimum
	}

	amount := uc.CalculateAmount(d, remaining)
	if amount == 0 {
		return nil, domain.ErrBelowMinimum
	}

	order.StagedCodes = append(order.StagedCodes, code)
	if err := uc.OrderRepo.UpdateStagedCodes(order.ID, order.StagedCodes); err != nil {
		return nil, err
	}

	return &ApplyResult{AmountApplied: amount, NewTotal: remaining - amount}, nil
}

// Remove unstages a discount from an order that has not settled yet. Settled
// applications are immutable; removal after settlement is refused.
func (uc *DefaultDiscountUsecase) Remove(ctx context.Context, orderID, discountID string) error {
	d, err := uc.DiscountRepo.GetDiscountByID(discountID)
	if err != nil {
		return err
	}

	settled, err := uc.DiscountRepo.GetOrderDiscount(orderID, discountID)
	if err != nil {
		return err
	}
	if settled != nil {
		return domain.ErrAlreadySettled
	}

	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	kept := order.StagedCodes[:0]
	for _, code := range order.StagedCodes {
		if code != d.Code {
			kept = append(kept, code)
		}
	}
	return uc.OrderRepo.UpdateStagedCodes(orderID, kept)
}

// CreateDiscount persists a new discount, optionally mirrors it as a hosted
// provider coupon, and announces it on the event bus.
func (uc *DefaultDiscountUsecase) CreateDiscount(ctx context.Context, d *domain.Discount, mirrorToProvider bool) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Code == "" {
		code, err := uc.GenerateUniqueCode(d.Kind)
		if err != nil {
			return err
		}
		d.Code = code
	}
	d.CreatedAt = uc.Clock.Now()
	d.UpdatedAt = d.CreatedAt

	if err := uc.DiscountRepo.CreateDiscount(d); err != nil {
		return err
	}

	if mirrorToProvider && uc.Provider != nil {
		externalID, err := uc.Provider.CreateCoupon(ctx, d)
		if err != nil {
			slog.Error("failed to mirror discount to provider", "discount_id", d.ID, "error", err.Error())
			return fmt.Errorf("failed to mirror discount %s: %w", d.ID, err)
		}
		d.ExternalID = externalID
		if err := uc.DiscountRepo.SetExternalID(d.ID, externalID); err != nil {
			return err
		}
	}

	return uc.publishDiscountCreated(d)
}

func (uc *DefaultDiscountUsecase) publishDiscountCreated(d *domain.Discount) error {
	event := domain.Event{
		ID:         uuid.New().String(),
		Type:       domain.EventDiscountCreated,
		OccurredAt: uc.Clock.Now(),
		Discount: &domain.DiscountEventData{
			DiscountID:     d.ID,
			Code:           d.Code,
			Kind:           d.Kind,
			Value:          d.Value,
			RecipientEmail: d.RecipientEmail,
		},
	}
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return uc.Publisher.Publish(publisher.TopicDiscountEvents, domain.Message{Key: []byte(d.ID), Value: v})
}

// GenerateUniqueCode builds a human-shareable code: kind prefix plus two
// randomized groups from an alphabet without lookalike characters. Bounded
// retries; repeated collision means the code space is too small, which is
// fatal, not retryable.
func (uc *DefaultDiscountUsecase) GenerateUniqueCode(kind domain.DiscountKind) (string, error) {
	gen, err := nanoid.CustomASCII("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", 8)
	if err != nil {
		return "", err
	}

	prefix := codePrefixes[kind]
	if prefix == "" {
		prefix = "DISC"
	}

	for attempt := 0; attempt < codeGenMaxAttempts; attempt++ {
		raw := gen()
		code := fmt.Sprintf("%s-%s-%s", prefix, raw[:4], raw[4:])
		exists, err := uc.DiscountRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", domain.ErrCodeSpaceExhausted
}

// GenerateGiftCards mints per-recipient gift cards for every purchased item
// whose product carries a template discount. Idempotent per (order, item):
// already-minted counts are subtracted before minting more, so replays of
// the succeeded event never produce duplicate cards.
func (uc *DefaultDiscountUsecase) GenerateGiftCards(ctx context.Context, orderID string) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		template, err := uc.DiscountRepo.GetTemplateByProductID(item.ProductID)
		if err != nil {
			if err == domain.ErrDiscountNotFound {
				continue
			}
			return err
		}
		if !template.IsTemplate() {
			continue
		}

		minted, err := uc.DiscountRepo.CountMintedCards(orderID, item.ID)
		if err != nil {
			return err
		}

		for i := minted; i < int64(item.Quantity); i++ {
			if err := uc.mintCard(ctx, order, item, template); err != nil {
				return err
			}
			if uc.Metrics != nil {
				uc.Metrics.GiftCardsMintedTotal.Inc()
			}
		}
	}
	return nil
}

func (uc *DefaultDiscountUsecase) mintCard(ctx context.Context, order *domain.Order, item *domain.OrderItem, template *domain.Discount) error {
	balance := template.Value
	card := &domain.Discount{
		Kind:           domain.KindGiftCard,
		Mode:           domain.ModeFixed,
		Value:          template.Value,
		CurrentBalance: &balance,
		ExpiresAt:      template.ExpiresAt,
		UserID:         order.UserID,
		RecipientEmail: strings.TrimSpace(order.UserEmail),
		SourceOrderID:  &order.ID,
		SourceItemID:   &item.ID,
	}
	if err := uc.CreateDiscount(ctx, card, false); err != nil {
		return fmt.Errorf("failed to mint gift card for item %s: %w", item.ID, err)
	}
	return nil
}
