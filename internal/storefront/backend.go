package storefront

import (
	"database/sql"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/customer"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/settings"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

// Mode names the store of truth. It is chosen once at startup.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Backend is the set of repositories for one mode.
type Backend struct {
	Mode       Mode
	Products   catalog.Repository
	Categories catalog.CategoryRepository
	Orders     order.Repository
	Customers  customer.Repository
	Staff      staff.Repository
	Settings   settings.Repository

	// Sessions persists carts and wishlists; nil in remote mode.
	Sessions kv.Store
}

func NewRemoteBackend(db *sql.DB) Backend {
	return Backend{
		Mode:       ModeRemote,
		Products:   catalog.NewPostgresRepository(db),
		Categories: catalog.NewCategoryPostgresRepository(db),
		Orders:     order.NewPostgresRepository(db),
		Customers:  customer.NewPostgresRepository(db),
		Staff:      staff.NewPostgresRepository(db),
		Settings:   settings.NewPostgresRepository(db),
	}
}

func NewLocalBackend(store kv.Store) Backend {
	return Backend{
		Mode:       ModeLocal,
		Products:   catalog.NewLocalRepository(store),
		Categories: catalog.NewCategoryLocalRepository(store),
		Orders:     order.NewLocalRepository(store),
		Customers:  customer.NewLocalRepository(store),
		Staff:      staff.NewLocalRepository(store),
		Settings:   settings.NewLocalRepository(store),
		Sessions:   store,
	}
}

// Services wraps the backend repositories in the module services.
type Services struct {
	Catalog   catalog.Service
	Orders    order.Service
	Customers customer.Service
	Staff     staff.Service
	Settings  settings.Service
}

func NewServices(b Backend) Services {
	return Services{
		Catalog:   catalog.NewService(b.Products, b.Categories),
		Orders:    order.NewService(b.Orders),
		Customers: customer.NewService(b.Customers),
		Staff:     staff.NewService(b.Staff),
		Settings:  settings.NewService(b.Settings),
	}
}
