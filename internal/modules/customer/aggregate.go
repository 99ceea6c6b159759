package customer

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
)

// Apply folds one order into the aggregate for its phone. existing is nil
// when the phone has no customer row yet.
func Apply(existing *Customer, o order.Order) Customer {
	phone := strings.TrimSpace(o.CustomerPhone)
	if existing == nil {
		return Customer{
			Phone:        phone,
			Name:         o.CustomerName,
			OrderCount:   1,
			TotalSpent:   o.TotalPrice,
			LastLocation: o.Location,
			LastOrderAt:  o.CreatedAt,
		}
	}

	c := *existing
	c.OrderCount++
	c.TotalSpent = decimal.NewFromFloat(c.TotalSpent).Add(decimal.NewFromFloat(o.TotalPrice)).InexactFloat64()
	if !o.CreatedAt.Before(c.LastOrderAt) {
		c.Name = o.CustomerName
		c.LastLocation = o.Location
		c.LastOrderAt = o.CreatedAt
	}
	return c
}

// Rebuild replays the full order history in chronological order. The result
// matches what Apply produced incrementally for the same orders.
func Rebuild(orders []order.Order) []Customer {
	sorted := make([]order.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	byPhone := make(map[string]*Customer)
	var phones []string
	for _, o := range sorted {
		phone := strings.TrimSpace(o.CustomerPhone)
		if phone == "" {
			continue
		}
		c, ok := byPhone[phone]
		if !ok {
			phones = append(phones, phone)
		}
		next := Apply(c, o)
		byPhone[phone] = &next
	}

	customers := make([]Customer, 0, len(phones))
	for _, phone := range phones {
		customers = append(customers, *byPhone[phone])
	}
	SortBySpent(customers)
	return customers
}

// SortBySpent orders customers by total spent, highest first.
func SortBySpent(customers []Customer) {
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].TotalSpent > customers[j].TotalSpent
	})
}
