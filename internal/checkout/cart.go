package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// CartEntry is one product's share of a cart snapshot: either a plain
// quantity, or a quantity per size label. Exactly one of the two is set.
type CartEntry struct {
	Quantity int
	BySize   map[string]int
}

// Sizes returns the entry's size labels in stable order.
func (e CartEntry) Sizes() []string {
	sizes := make([]string, 0, len(e.BySize))
	for size := range e.BySize {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

// CartSnapshot maps product SKUs to cart entries.
type CartSnapshot map[string]CartEntry

// SKUs returns the snapshot's product SKUs in stable order.
func (c CartSnapshot) SKUs() []string {
	skus := make([]string, 0, len(c))
	for sku := range c {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

type sizedEntry struct {
	ItemsBySize map[string]int `json:"items_by_size"`
}

// ParseCartSnapshot decodes the serialized cart carried in event metadata.
// The whole structure is validated up front, before any database write, so a
// malformed snapshot can never leave a half-created order behind.
func ParseCartSnapshot(text string) (CartSnapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &CartFormatError{Err: err}
	}
	if len(raw) == 0 {
		return nil, &CartFormatError{Err: errors.New("cart is empty")}
	}

	snapshot := make(CartSnapshot, len(raw))
	for sku, value := range raw {
		var quantity int
		if err := json.Unmarshal(value, &quantity); err == nil {
			if quantity <= 0 {
				return nil, &CartFormatError{Err: fmt.Errorf("entry %q has quantity %d", sku, quantity)}
			}
			snapshot[sku] = CartEntry{Quantity: quantity}
			continue
		}

		var sized sizedEntry
		if err := json.Unmarshal(value, &sized); err != nil || len(sized.ItemsBySize) == 0 {
			return nil, &CartFormatError{Err: fmt.Errorf("entry %q is neither a quantity nor an items_by_size map", sku)}
		}
		for size, qty := range sized.ItemsBySize {
			if qty <= 0 {
				return nil, &CartFormatError{Err: fmt.Errorf("entry %q size %q has quantity %d", sku, size, qty)}
			}
		}
		snapshot[sku] = CartEntry{BySize: sized.ItemsBySize}
	}
	return snapshot, nil
}
