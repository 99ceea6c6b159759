// Package cart holds the pure cart and wishlist operations. Every function
// returns a new slice and leaves its input untouched.
package cart

import (
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
)

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Add puts one unit of p in the cart, merging with an existing line.
func Add(items []order.CartItem, p catalog.Product) []order.CartItem {
	out := clone(items)
	for i := range out {
		if out[i].ID == p.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, order.CartItem{Product: p, Quantity: 1})
}

// UpdateQuantity changes a line by delta, never going below 1.
func UpdateQuantity(items []order.CartItem, id string, delta int) []order.CartItem {
	out := clone(items)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = max(1, out[i].Quantity+delta)
		}
	}
	return out
}

// Remove drops the line for id.
func Remove(items []order.CartItem, id string) []order.CartItem {
	out := make([]order.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// Count is the number of units in the cart.
func Count(items []order.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// Total is the cart value at the snapshot prices.
func Total(items []order.CartItem) float64 {
	return order.Total(items)
}

// ToggleWishlist adds p, or removes it when already present. The bool
// reports whether p is in the resulting list.
func ToggleWishlist(list []catalog.Product, p catalog.Product) ([]catalog.Product, bool) {
	out := make([]catalog.Product, 0, len(list)+1)
	found := false
	for _, existing := range list {
		if existing.ID == p.ID {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if found {
		return out, false
	}
	return append(out, p), true
}
