package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
)

// CommissionUsecase records the marketplace commission owed to each seller
// of a succeeded order's items.
type CommissionUsecase interface {
	Calculate(ctx context.Context, orderID string) error
}

type DefaultCommissionUsecase struct {
	OrderRepo   domain.OrderRepository
	CatalogRepo domain.CatalogRepository
	Directory   domain.DirectoryPort
	Mailer      domain.MailerPort
	Metrics     *metrics.SettlementMetrics
}

func NewDefaultCommissionUsecase(
	orderRepo domain.OrderRepository,
	catalogRepo domain.CatalogRepository,
	directory domain.DirectoryPort,
	mailer domain.MailerPort,
	m *metrics.SettlementMetrics) *DefaultCommissionUsecase {

	return &DefaultCommissionUsecase{
		OrderRepo:   orderRepo,
		CatalogRepo: catalogRepo,
		Directory:   directory,
		Mailer:      mailer,
		Metrics:     m,
	}
}

// Calculate writes commission_amount once per eligible item (seller set,
// rate > 0, amount still unset) and sends one batched notification per
// seller. The unset-field guard in the repository makes replays no-ops.
func (uc *DefaultCommissionUsecase) Calculate(ctx context.Context, orderID string) error {
	order, err := uc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return err
	}

	type sellerShare struct {
		items int
		total int64
	}
	shares := make(map[string]*sellerShare)

	for _, item := range order.Items {
		if item.CommissionAmount != nil {
			continue
		}

		product, err := uc.CatalogRepo.GetProductByID(item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to resolve product for item %s: %w", item.ID, err)
		}
		if product.SellerID == nil || product.CommissionRate <= 0 {
			continue
		}

		amount := int64(float64(item.Amount) * product.CommissionRate)
		if err := uc.OrderRepo.SetItemCommission(item.ID, amount, *product.SellerID); err != nil {
			return err
		}

		if uc.Metrics != nil {
			uc.Metrics.CommissionsRecordedTotal.Inc()
			uc.Metrics.CommissionsAmountTotal.Add(float64(amount))
		}

		share, ok := shares[*product.SellerID]
		if !ok {
			share = &sellerShare{}
			shares[*product.SellerID] = share
		}
		share.items++
		share.total += amount
	}

	// One notification per seller covering all their items in this order.
	for sellerID, share := range shares {
		uc.notifySeller(ctx, sellerID, order.ID, share.items, share.total)
	}

	return nil
}

func (uc *DefaultCommissionUsecase) notifySeller(ctx context.Context, sellerID, orderID string, items int, total int64) {
	email, err := uc.Directory.UserEmail(ctx, sellerID)
	if err != nil {
		slog.Error("failed to resolve seller email", "seller_id", sellerID, "error", err.Error())
		return
	}

	subject := "You made a sale"
	body := fmt.Sprintf("Order %s includes %d of your items. Your commission: %d.", orderID, items, total)
	if err := uc.Mailer.Send(ctx, email, subject, body); err != nil {
		slog.Error("failed to send seller notification", "seller_id", sellerID, "order_id", orderID, "error", err.Error())
	}
}
