package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// StorageKey is the durable store key holding the serialized cart.
const StorageKey = "storagedCart"

func encodeSnapshot(cart domain.Cart) (string, error) {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func decodeSnapshot(payload string) (domain.Cart, error) {
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.Amount < 1 {
			return domain.Cart{}, fmt.Errorf("item[%d] amount[%d] is not positive", item.ID, item.Amount)
		}
		if _, ok := seen[item.ID]; ok {
			return domain.Cart{}, fmt.Errorf("item[%d] is duplicated", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	if items == nil {
		items = []domain.CartItem{}
	}

	return domain.Cart{Items: items}, nil
}
