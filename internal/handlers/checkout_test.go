package handlers

import (
	"testing"

	"boutique/internal/checkout"
	"boutique/internal/models"
)

func pendingItems(prices []float64, quantities []int) []checkout.PendingLineItem {
	items := make([]checkout.PendingLineItem, len(prices))
	for i := range prices {
		items[i] = checkout.PendingLineItem{
			Product:  &models.Product{SKU: "p", Price: prices[i]},
			Quantity: quantities[i],
		}
	}
	return items
}

func TestPriceOrderChargesDeliveryUnderThreshold(t *testing.T) {
	items := pendingItems([]float64{19.99}, []int{2})

	orderTotal, delivery, grand := priceOrder(items, 50, 10)
	if orderTotal != 39.98 {
		t.Errorf("order total = %v, want 39.98", orderTotal)
	}
	if delivery != 4.00 {
		t.Errorf("delivery = %v, want 4.00", delivery)
	}
	if grand != 43.98 {
		t.Errorf("grand total = %v, want 43.98", grand)
	}
}

func TestPriceOrderFreeDeliveryAtThreshold(t *testing.T) {
	items := pendingItems([]float64{25.00}, []int{2})

	orderTotal, delivery, grand := priceOrder(items, 50, 10)
	if orderTotal != 50.00 {
		t.Errorf("order total = %v, want 50.00", orderTotal)
	}
	if delivery != 0 {
		t.Errorf("delivery = %v, want 0", delivery)
	}
	if grand != 50.00 {
		t.Errorf("grand total = %v, want 50.00", grand)
	}
}

func TestPriceOrderSumsMixedItems(t *testing.T) {
	items := pendingItems([]float64{19.99, 34.50}, []int{1, 3})

	orderTotal, delivery, grand := priceOrder(items, 50, 10)
	if orderTotal != 123.49 {
		t.Errorf("order total = %v, want 123.49", orderTotal)
	}
	if delivery != 0 {
		t.Errorf("delivery = %v, want 0", delivery)
	}
	if grand != 123.49 {
		t.Errorf("grand total = %v, want 123.49", grand)
	}
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil || page != 1 || limit != 20 {
		t.Errorf("defaults = %d/%d (%v), want 1/20", page, limit, err)
	}

	page, limit, err = parsePaginationParams("3", "50")
	if err != nil || page != 3 || limit != 50 {
		t.Errorf("explicit = %d/%d (%v), want 3/50", page, limit, err)
	}

	for _, bad := range [][2]string{{"0", ""}, {"-1", ""}, {"x", ""}, {"", "0"}, {"", "101"}, {"", "y"}} {
		if _, _, err := parsePaginationParams(bad[0], bad[1]); err == nil {
			t.Errorf("parsePaginationParams(%q, %q) accepted invalid input", bad[0], bad[1])
		}
	}
}
