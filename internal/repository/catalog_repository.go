package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"golang.org/x/text/currency"
)

type catalogRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCatalogWithTx(tx pgx.Tx) port.CatalogRepository {
	return &catalogRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *catalogRepository) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	row, err := r.q.GetProduct(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	product, err := mapProductToDomain(row)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (r *catalogRepository) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	row, err := r.q.GetStock(ctx, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Stock{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Stock{}, fmt.Errorf("q.GetStock: %w", err)
	}

	return domain.Stock{
		ProductID: row.ProductID,
		Amount:    int(row.Amount),
	}, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListProducts: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		product, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}

func (r *catalogRepository) UpsertProduct(ctx context.Context, product domain.Product, stockAmount int) error {
	if product.ID <= 0 {
		return fmt.Errorf("product ID is not positive")
	}
	if stockAmount < 0 {
		return fmt.Errorf("stock amount is negative")
	}
	if stockAmount > math.MaxInt32 {
		return fmt.Errorf("stock amount exceeds %d", math.MaxInt32)
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) error {
		err := q.UpsertProduct(ctx, db.UpsertProductParams{
			ID:            product.ID,
			Title:         product.Title,
			PriceAmount:   product.Price.Amount,
			PriceCurrency: product.Price.Currency.String(),
			Image:         product.Image,
		})
		if err != nil {
			return fmt.Errorf("q.UpsertProduct: %w", err)
		}

		err = q.SetStock(ctx, db.SetStockParams{
			ProductID: product.ID,
			Amount:    int32(stockAmount),
		})
		if err != nil {
			return fmt.Errorf("q.SetStock: %w", err)
		}

		return nil
	})
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.Product{
		ID:    row.ID,
		Title: row.Title,
		Price: domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		Image: row.Image,
	}, nil
}
