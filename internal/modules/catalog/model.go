package catalog

import "time"

// DefaultUnit is used when a product carries no unit label.
const DefaultUnit = "টি"

// AllCategories is the pseudo-category that disables category filtering.
const AllCategories = "সব"

// Product is an item in the shop catalog.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Price           float64   `json:"price"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription,omitempty"`
	Image           string    `json:"image"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"`
	Unit            string    `json:"unit"`
	IsFeatured      bool      `json:"isFeatured,omitempty"`
	IsBestSelling   bool      `json:"isBestSelling,omitempty"`
	IsNew           bool      `json:"isNew,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// ProductRequest holds the admin-editable fields of a product.
type ProductRequest struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Description     string  `json:"description"`
	LongDescription string  `json:"longDescription"`
	Image           string  `json:"image"`
	Category        string  `json:"category"`
	Stock           int     `json:"stock"`
	Unit            string  `json:"unit"`
	IsFeatured      bool    `json:"isFeatured"`
	IsBestSelling   bool    `json:"isBestSelling"`
	IsNew           bool    `json:"isNew"`
}

// Category is a product grouping referenced by name only.
type Category struct {
	Name string `json:"name"`
}
