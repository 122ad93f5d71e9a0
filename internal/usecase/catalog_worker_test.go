package usecase

import (
	"context"
	"testing"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogWorkerFixture() (*fakeCatalogRepo, *fakeProvider, *CatalogWorker) {
	catalog := newFakeCatalogRepo()
	provider := &fakeProvider{}
	mirror := NewDefaultMirrorUsecase(catalog, provider, nil)
	return catalog, provider, NewCatalogWorker(nil, "settlement", catalog, mirror)
}

func TestCatalogWorker_ProductCreated(t *testing.T) {
	catalog, provider, w := newCatalogWorkerFixture()

	product := &domain.Product{ID: "prod-1", Name: "Course"}
	require.NoError(t, w.HandleEvent(context.Background(), CatalogProductCreated, product, nil))

	// Saved locally and mirrored out.
	assert.Contains(t, catalog.products, "prod-1")
	assert.Equal(t, []string{"prod-1"}, provider.createdProducts)
	assert.Equal(t, "prod_prod-1", catalog.products["prod-1"].ExternalID)
}

func TestCatalogWorker_PriceLifecycle(t *testing.T) {
	catalog, provider, w := newCatalogWorkerFixture()

	price := &domain.Price{ID: "price-1", ProductID: "prod-1", UnitAmount: 1000, Currency: "USD"}
	require.NoError(t, w.HandleEvent(context.Background(), CatalogPriceCreated, nil, price))
	assert.Equal(t, []string{"price-1"}, provider.createdPrices)

	updated := &domain.Price{ID: "price-1", ProductID: "prod-1", UnitAmount: 1200, Currency: "USD", ExternalID: "price_price-1"}
	require.NoError(t, w.HandleEvent(context.Background(), CatalogPriceUpdated, nil, updated))
	assert.Equal(t, []string{"price-1"}, provider.updatedPrices)

	require.NoError(t, w.HandleEvent(context.Background(), CatalogPriceDeleted, nil, updated))
	assert.Equal(t, []string{"price_price-1"}, provider.deletedPrices)

	assert.Equal(t, int64(1200), catalog.prices["price-1"].UnitAmount)
}

func TestCatalogWorker_UnknownEventType(t *testing.T) {
	_, _, w := newCatalogWorkerFixture()
	assert.Error(t, w.HandleEvent(context.Background(), "product.archived", nil, nil))
}

func TestCatalogWorker_MissingPayloadIsAnError(t *testing.T) {
	catalog, provider, w := newCatalogWorkerFixture()

	// Messages whose type promises an object they do not carry must surface
	// as errors, not kill the consumer.
	assert.Error(t, w.HandleEvent(context.Background(), CatalogProductCreated, nil, nil))
	assert.Error(t, w.HandleEvent(context.Background(), CatalogProductDeleted, nil, nil))
	assert.Error(t, w.HandleEvent(context.Background(), CatalogPriceUpdated, nil, nil))

	assert.Empty(t, catalog.products)
	assert.Empty(t, provider.createdProducts)
	assert.Empty(t, provider.deletedProducts)
}
