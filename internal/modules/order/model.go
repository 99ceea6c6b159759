package order

import (
	"time"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Location is a campus delivery point.
type Location string

const (
	LocationZeroPoint      Location = "জিরো পয়েন্ট"
	LocationShuttleStation Location = "শাটল স্টেশন"
	LocationOneStop        Location = "ওয়ান স্টপ"
	LocationHalls          Location = "হলসমূহ"
)

// Locations lists the delivery points in display order.
func Locations() []Location {
	return []Location{LocationZeroPoint, LocationShuttleStation, LocationOneStop, LocationHalls}
}

// Valid reports whether l is one of the delivery points.
func (l Location) Valid() bool {
	for _, known := range Locations() {
		if l == known {
			return true
		}
	}
	return false
}

// CartItem is a product snapshot with a quantity.
type CartItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Order is a placed checkout. TotalPrice is frozen at creation.
type Order struct {
	ID            string     `json:"id"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Location      Location   `json:"location"`
	Items         []CartItem `json:"items"`
	TotalPrice    float64    `json:"totalPrice"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PlaceRequest is the checkout form.
type PlaceRequest struct {
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Location      Location   `json:"location"`
	Items         []CartItem `json:"-"`
}

// UpdateStatusRequest is the payload for changing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
