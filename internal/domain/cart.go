package domain

import (
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Product is a catalog record as served by the catalog service.
type Product struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price Money  `json:"price"`
	Image string `json:"image"`
}

// CartItem is a product plus the quantity of it currently in the cart.
// Amount is at least 1 while the item is in a cart.
type CartItem struct {
	Product
	Amount int `json:"amount"`
}

// Stock is the maximum purchasable quantity of a product.
type Stock struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}

// Cart is an ordered list of line items, at most one per product id.
// Every method returning a Cart leaves the receiver untouched.
type Cart struct {
	Items []CartItem
}

func (c Cart) Find(productID int64) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == productID {
			return item, true
		}
	}

	return CartItem{}, false
}

func (c Cart) With(item CartItem) Cart {
	items := make([]CartItem, 0, len(c.Items)+1)
	items = append(items, c.Items...)
	items = append(items, item)

	return Cart{Items: items}
}

func (c Cart) Without(productID int64) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != productID {
			items = append(items, item)
		}
	}

	return Cart{Items: items}
}

// WithAmount sets the amount of the matching line item. A missing id yields an equal cart.
func (c Cart) WithAmount(productID int64, amount int) Cart {
	items := slices.Clone(c.Items)
	for i := range items {
		if items[i].ID == productID {
			items[i].Amount = amount
		}
	}

	if items == nil {
		items = []CartItem{}
	}

	return Cart{Items: items}
}

func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)

	return Cart{Items: items}
}

func (c Cart) TotalAmount() int {
	var total int
	for _, item := range c.Items {
		total += item.Amount
	}

	return total
}

// Subtotal sums line prices per currency.
func (c Cart) Subtotal() map[currency.Unit]decimal.Decimal {
	result := make(map[currency.Unit]decimal.Decimal)
	for _, item := range c.Items {
		line := item.Price.Mul(item.Amount)
		result[line.Currency] = result[line.Currency].Add(line.Amount)
	}

	return result
}
