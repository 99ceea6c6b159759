package customer

import (
	"time"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
)

// Customer is the per-phone aggregate derived from orders.
type Customer struct {
	Phone        string         `json:"phone"`
	Name         string         `json:"name"`
	OrderCount   int            `json:"totalOrders"`
	TotalSpent   float64        `json:"totalSpent"`
	LastLocation order.Location `json:"lastLocation"`
	LastOrderAt  time.Time      `json:"lastOrderAt"`
}
