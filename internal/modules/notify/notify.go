// Package notify announces new orders to outside systems.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
)

// Event describes a placed order.
type Event struct {
	OrderID       string         `json:"orderId"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	Location      order.Location `json:"location"`
	TotalPrice    float64        `json:"totalPrice"`
	ItemCount     int            `json:"itemCount"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// NewEvent builds the event for o.
func NewEvent(o order.Order) Event {
	return Event{
		OrderID:       o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Location:      o.Location,
		TotalPrice:    o.TotalPrice,
		ItemCount:     len(o.Items),
		CreatedAt:     o.CreatedAt,
	}
}

// Summary is the human-readable message posted to chat webhooks.
func (e Event) Summary() string {
	return fmt.Sprintf("🚀 **নতুন অর্ডার!**\nঅর্ডার আইডি: %s\nগ্রাহক: %s\nফোন: %s\nমোট: ৳%s\nডেলিভারি লোকেশন: %s",
		e.OrderID, e.CustomerName, e.CustomerPhone,
		strconv.FormatFloat(e.TotalPrice, 'f', -1, 64), e.Location)
}

// Notifier is told about every order that was persisted.
type Notifier interface {
	OrderPlaced(ctx context.Context, e Event) error
}

// Fanout calls every notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) OrderPlaced(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.OrderPlaced(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
