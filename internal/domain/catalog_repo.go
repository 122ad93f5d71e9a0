package domain

type CatalogRepository interface {
	GetProductByID(id string) (*Product, error)
	GetPriceByID(id string) (*Price, error)
	SaveProduct(p *Product) error
	SavePrice(pr *Price) error
	SetProductExternalID(id, externalID string) error
	SetPriceExternalID(id, externalID string) error
}
