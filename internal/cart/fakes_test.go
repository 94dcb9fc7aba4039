package cart_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type fakeCatalog struct {
	mu            sync.Mutex
	products      map[int64]domain.Product
	stock         map[int64]int
	productErr    error
	productCalls  int
	stockCalls    int
	beforeProduct func()
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[int64]domain.Product),
		stock:    make(map[int64]int),
	}
}

func (f *fakeCatalog) put(product domain.Product, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.products[product.ID] = product
	f.stock[product.ID] = stock
}

func (f *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	f.productCalls++
	hook := f.beforeProduct
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}

	product, ok := f.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, domain.ErrProductNotFound)
	}

	return product, nil
}

func (f *fakeCatalog) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stockCalls++

	amount, ok := f.stock[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("%w: %w", domain.ErrFetchFailed, domain.ErrProductNotFound)
	}

	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (f *fakeCatalog) calls() (product, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.productCalls, f.stockCalls
}

// countingStore wraps a SnapshotStore, counting writes and optionally failing them.
type countingStore struct {
	mu      sync.Mutex
	values  map[string]string
	writes  int
	getErr  error
	failSet bool
}

func newCountingStore() *countingStore {
	return &countingStore{values: make(map[string]string)}
}

func (c *countingStore) Get(_ context.Context, ownerID, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.getErr != nil {
		return "", false, c.getErr
	}

	value, ok := c.values[ownerID+"/"+key]
	return value, ok, nil
}

func (c *countingStore) Set(_ context.Context, ownerID, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failSet {
		return errors.New("disk full")
	}

	c.writes++
	c.values[ownerID+"/"+key] = value

	return nil
}

func (c *countingStore) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.writes
}

func randomProduct(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: gofakeit.ProductName(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Currency: currency.BRL,
		},
		Image: gofakeit.URL(),
	}
}
