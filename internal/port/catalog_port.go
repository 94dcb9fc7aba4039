package port

import (
	"context"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// Catalog is the remote product and stock lookup the cart depends on.
type Catalog interface {
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
}

type CatalogRepository interface {
	Catalog
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpsertProduct(ctx context.Context, product domain.Product, stockAmount int) error
}
