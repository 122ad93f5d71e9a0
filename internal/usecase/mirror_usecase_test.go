package usecase

import (
	"context"
	"testing"

	"github.com/craftplace/settlement-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMirrorFixture() (*fakeCatalogRepo, *fakeProvider, *DefaultMirrorUsecase) {
	catalog := newFakeCatalogRepo()
	provider := &fakeProvider{}
	return catalog, provider, NewDefaultMirrorUsecase(catalog, provider, nil)
}

func TestProductCreated_MirrorsAndStoresExternalID(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.products["prod-1"] = &domain.Product{ID: "prod-1", Name: "Course"}

	require.NoError(t, uc.ProductCreated(context.Background(), "prod-1"))

	assert.Equal(t, []string{"prod-1"}, provider.createdProducts)
	assert.Equal(t, "prod_prod-1", catalog.productExternalIDs["prod-1"])
}

func TestProductCreated_SkipsAlreadyMirrored(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.products["prod-1"] = &domain.Product{ID: "prod-1", ExternalID: "prod_existing"}

	require.NoError(t, uc.ProductCreated(context.Background(), "prod-1"))

	assert.Empty(t, provider.createdProducts)
	assert.Empty(t, catalog.productExternalIDs)
}

func TestProductUpdated_SkipsUnmirrored(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.products["prod-1"] = &domain.Product{ID: "prod-1"}

	require.NoError(t, uc.ProductUpdated(context.Background(), "prod-1"))
	assert.Empty(t, provider.updatedProducts)
}

func TestProductDeleted_UsesExternalID(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.products["prod-1"] = &domain.Product{ID: "prod-1", ExternalID: "prod_ext"}

	require.NoError(t, uc.ProductDeleted(context.Background(), "prod-1"))
	assert.Equal(t, []string{"prod_ext"}, provider.deletedProducts)
}

func TestProductCreated_FailurePropagatesWithoutLocalWrite(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.products["prod-1"] = &domain.Product{ID: "prod-1"}
	provider.createProductErr = assert.AnError

	err := uc.ProductCreated(context.Background(), "prod-1")
	assert.ErrorIs(t, err, assert.AnError)
	// No external id is recorded on failure, so the redelivered event retries
	// the create.
	assert.Empty(t, catalog.productExternalIDs)
}

func TestPriceCreated_MirrorsAndStoresExternalID(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.prices["price-1"] = &domain.Price{ID: "price-1", ProductID: "prod-1", UnitAmount: 1000}

	require.NoError(t, uc.PriceCreated(context.Background(), "price-1"))

	assert.Equal(t, []string{"price-1"}, provider.createdPrices)
	assert.Equal(t, "price_price-1", catalog.priceExternalIDs["price-1"])
}

func TestPriceUpdated_SkipsUnmirrored(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.prices["price-1"] = &domain.Price{ID: "price-1"}

	require.NoError(t, uc.PriceUpdated(context.Background(), "price-1"))
	assert.Empty(t, provider.updatedPrices)
}

func TestPriceDeleted_UsesExternalID(t *testing.T) {
	catalog, provider, uc := newMirrorFixture()
	catalog.prices["price-1"] = &domain.Price{ID: "price-1", ExternalID: "price_ext"}

	require.NoError(t, uc.PriceDeleted(context.Background(), "price-1"))
	assert.Equal(t, []string{"price_ext"}, provider.deletedPrices)
}

func TestMirror_UnknownRecordErrors(t *testing.T) {
	_, _, uc := newMirrorFixture()

	assert.Error(t, uc.ProductCreated(context.Background(), "missing"))
	assert.Error(t, uc.PriceCreated(context.Background(), "missing"))
}
