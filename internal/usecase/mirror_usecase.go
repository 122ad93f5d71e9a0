package usecase

import (
	"context"
	"log/slog"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/craftplace/settlement-service/internal/infrastructure/metrics"
)

// MirrorUsecase keeps the payment provider's product/price catalog in sync
// with local records: one outbound call per local mutation. Failures are
// logged with context and returned; the surrounding queue owns retries, the
// mirror never retries in-process and never partially updates local state on
// a failed call.
type MirrorUsecase interface {
	ProductCreated(ctx context.Context, productID string) error
	ProductUpdated(ctx context.Context, productID string) error
	ProductDeleted(ctx context.Context, productID string) error
	PriceCreated(ctx context.Context, priceID string) error
	PriceUpdated(ctx context.Context, priceID string) error
	PriceDeleted(ctx context.Context, priceID string) error
}

type DefaultMirrorUsecase struct {
	CatalogRepo domain.CatalogRepository
	Provider    domain.ProviderPort
	Metrics     *metrics.SettlementMetrics
}

func NewDefaultMirrorUsecase(
	catalogRepo domain.CatalogRepository,
	provider domain.ProviderPort,
	m *metrics.SettlementMetrics) *DefaultMirrorUsecase {

	return &DefaultMirrorUsecase{
		CatalogRepo: catalogRepo,
		Provider:    provider,
		Metrics:     m,
	}
}

func (uc *DefaultMirrorUsecase) ProductCreated(ctx context.Context, productID string) error {
	product, err := uc.CatalogRepo.GetProductByID(productID)
	if err != nil {
		return err
	}
	if product.ExternalID != "" {
		// Already mirrored.
		return nil
	}

	externalID, err := uc.Provider.CreateProduct(ctx, product)
	if err != nil {
		return uc.fail("product", "create", productID, err)
	}
	uc.count("product", "create")
	return uc.CatalogRepo.SetProductExternalID(productID, externalID)
}

func (uc *DefaultMirrorUsecase) ProductUpdated(ctx context.Context, productID string) error {
	product, err := uc.CatalogRepo.GetProductByID(productID)
	if err != nil {
		return err
	}
	if product.ExternalID == "" {
		// Nothing to mirror.
		return nil
	}

	if err := uc.Provider.UpdateProduct(ctx, product); err != nil {
		return uc.fail("product", "update", productID, err)
	}
	uc.count("product", "update")
	return nil
}

func (uc *DefaultMirrorUsecase) ProductDeleted(ctx context.Context, productID string) error {
	product, err := uc.CatalogRepo.GetProductByID(productID)
	if err != nil {
		return err
	}
	if product.ExternalID == "" {
		return nil
	}

	if err := uc.Provider.DeleteProduct(ctx, product.ExternalID); err != nil {
		return uc.fail("product", "delete", productID, err)
	}
	uc.count("product", "delete")
	return nil
}

func (uc *DefaultMirrorUsecase) PriceCreated(ctx context.Context, priceID string) error {
	price, err := uc.CatalogRepo.GetPriceByID(priceID)
	if err != nil {
		return err
	}
	if price.ExternalID != "" {
		return nil
	}

	externalID, err := uc.Provider.CreatePrice(ctx, price)
	if err != nil {
		return uc.fail("price", "create", priceID, err)
	}
	uc.count("price", "create")
	return uc.CatalogRepo.SetPriceExternalID(priceID, externalID)
}

func (uc *DefaultMirrorUsecase) PriceUpdated(ctx context.Context, priceID string) error {
	price, err := uc.CatalogRepo.GetPriceByID(priceID)
	if err != nil {
		return err
	}
	if price.ExternalID == "" {
		return nil
	}

	if err := uc.Provider.UpdatePrice(ctx, price); err != nil {
		return uc.fail("price", "update", priceID, err)
	}
	uc.count("price", "update")
	return nil
}

func (uc *DefaultMirrorUsecase) PriceDeleted(ctx context.Context, priceID string) error {
	price, err := uc.CatalogRepo.GetPriceByID(priceID)
	if err != nil {
		return err
	}
	if price.ExternalID == "" {
		return nil
	}

	if err := uc.Provider.DeletePrice(ctx, price.ExternalID); err != nil {
		return uc.fail("price", "delete", priceID, err)
	}
	uc.count("price", "delete")
	return nil
}

func (uc *DefaultMirrorUsecase) fail(entity, action, id string, err error) error {
	slog.Error("provider mirror call failed",
		"entity", entity,
		"action", action,
		"entity_id", id,
		"error", err.Error(),
	)
	if uc.Metrics != nil {
		uc.Metrics.MirrorSyncErrorsTotal.WithLabelValues(entity, action).Inc()
	}
	return err
}

func (uc *DefaultMirrorUsecase) count(entity, action string) {
	if uc.Metrics != nil {
		uc.Metrics.MirrorSyncTotal.WithLabelValues(entity, action).Inc()
	}
}
