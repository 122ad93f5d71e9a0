package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/craftplace/settlement-service/internal/domain"
	publisher "github.com/craftplace/settlement-service/internal/infrastructure/kafka"
)

// CatalogWorker consumes product/price lifecycle events from the catalog
// service: it refreshes the local read-model and drives the payment provider
// mirror. Mirror failures are logged and left to queue redelivery.
type CatalogWorker struct {
	Subscriber  domain.SubscriberPort
	GroupID     string
	CatalogRepo domain.CatalogRepository
	Mirror      MirrorUsecase
}

func NewCatalogWorker(sub domain.SubscriberPort, groupID string, catalogRepo domain.CatalogRepository, mirror MirrorUsecase) *CatalogWorker {
	return &CatalogWorker{
		Subscriber:  sub,
		GroupID:     groupID,
		CatalogRepo: catalogRepo,
		Mirror:      mirror,
	}
}

const (
	CatalogProductCreated = "product.created"
	CatalogProductUpdated = "product.updated"
	CatalogProductDeleted = "product.deleted"
	CatalogPriceCreated   = "price.created"
	CatalogPriceUpdated   = "price.updated"
	CatalogPriceDeleted   = "price.deleted"
)

type catalogEvent struct {
	Type    string          `json:"type"`
	Product *domain.Product `json:"product,omitempty"`
	Price   *domain.Price   `json:"price,omitempty"`
}

func (w *CatalogWorker) Start(ctx context.Context) error {
	msgs, err := w.Subscriber.Subscribe(publisher.TopicCatalogEvents, w.GroupID)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Warn("catalog event stream closed")
					return
				}
				var event catalogEvent
				if err := json.Unmarshal(msg.Value, &event); err != nil {
					slog.Error("failed to decode catalog event", "error", err.Error())
					continue
				}
				if err := w.HandleEvent(ctx, event.Type, event.Product, event.Price); err != nil {
					slog.Error("failed to handle catalog event", "event_type", event.Type, "error", err.Error())
				}
			}
		}
	}()
	return nil
}

func (w *CatalogWorker) HandleEvent(ctx context.Context, eventType string, product *domain.Product, price *domain.Price) error {
	// A message missing the object its type promises must not kill the
	// consumer loop; it surfaces as a handling error and is skipped.
	switch eventType {
	case CatalogProductCreated, CatalogProductUpdated, CatalogProductDeleted:
		if product == nil {
			return fmt.Errorf("catalog event %s carries no product", eventType)
		}
	case CatalogPriceCreated, CatalogPriceUpdated, CatalogPriceDeleted:
		if price == nil {
			return fmt.Errorf("catalog event %s carries no price", eventType)
		}
	}

	switch eventType {
	case CatalogProductCreated:
		if err := w.CatalogRepo.SaveProduct(product); err != nil {
			return err
		}
		return w.Mirror.ProductCreated(ctx, product.ID)
	case CatalogProductUpdated:
		if err := w.CatalogRepo.SaveProduct(product); err != nil {
			return err
		}
		return w.Mirror.ProductUpdated(ctx, product.ID)
	case CatalogProductDeleted:
		return w.Mirror.ProductDeleted(ctx, product.ID)
	case CatalogPriceCreated:
		if err := w.CatalogRepo.SavePrice(price); err != nil {
			return err
		}
		return w.Mirror.PriceCreated(ctx, price.ID)
	case CatalogPriceUpdated:
		if err := w.CatalogRepo.SavePrice(price); err != nil {
			return err
		}
		return w.Mirror.PriceUpdated(ctx, price.ID)
	case CatalogPriceDeleted:
		return w.Mirror.PriceDeleted(ctx, price.ID)
	}
	return fmt.Errorf("unknown catalog event type %s", eventType)
}
