package storefront

import (
	"slices"
	"sync"
	"time"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/customer"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/settings"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
)

// Snapshot is a point-in-time copy of the cached collections.
type Snapshot struct {
	Products   []catalog.Product   `json:"products"`
	Orders     []order.Order       `json:"orders"`
	Categories []string            `json:"categories"`
	Staff      []staff.Member      `json:"staff"`
	Customers  []customer.Customer `json:"customers"`
	Settings   settings.Settings   `json:"settings"`
	LastSync   time.Time           `json:"lastSync"`
}

// State is the view-state cache. All mutation goes through its methods.
type State struct {
	mu         sync.RWMutex
	products   []catalog.Product
	orders     []order.Order
	categories []string
	staff      []staff.Member
	customers  []customer.Customer
	settings   settings.Settings
	carts      map[string][]order.CartItem
	wishlists  map[string][]catalog.Product
	lastSync   time.Time
}

// NewState returns an empty cache with default settings and categories.
func NewState() *State {
	return &State{
		products:   []catalog.Product{},
		orders:     []order.Order{},
		categories: catalog.DefaultCategories(),
		staff:      []staff.Member{},
		customers:  []customer.Customer{},
		settings:   settings.Defaults(),
		carts:      make(map[string][]order.CartItem),
		wishlists:  make(map[string][]catalog.Product),
	}
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Products:   cloneOrEmpty(s.products),
		Orders:     cloneOrEmpty(s.orders),
		Categories: cloneOrEmpty(s.categories),
		Staff:      cloneOrEmpty(s.staff),
		Customers:  cloneOrEmpty(s.customers),
		Settings:   s.settings,
		LastSync:   s.lastSync,
	}
}

func (s *State) Products() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrEmpty(s.products)
}

func (s *State) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrEmpty(s.categories)
}

func (s *State) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Product looks up a cached product by id.
func (s *State) Product(id string) (catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return catalog.Find(s.products, id)
}

func (s *State) SetProducts(products []catalog.Product) {
	s.mu.Lock()
	s.products = cloneOrEmpty(products)
	s.mu.Unlock()
}

func (s *State) SetOrders(orders []order.Order) {
	s.mu.Lock()
	s.orders = cloneOrEmpty(orders)
	s.mu.Unlock()
}

func (s *State) SetCategories(categories []string) {
	s.mu.Lock()
	s.categories = cloneOrEmpty(categories)
	s.mu.Unlock()
}

func (s *State) SetStaff(members []staff.Member) {
	s.mu.Lock()
	s.staff = cloneOrEmpty(members)
	s.mu.Unlock()
}

func (s *State) SetCustomers(customers []customer.Customer) {
	s.mu.Lock()
	s.customers = cloneOrEmpty(customers)
	s.mu.Unlock()
}

func (s *State) SetSettings(v settings.Settings) {
	s.mu.Lock()
	s.settings = v
	s.mu.Unlock()
}

func (s *State) MarkSynced(t time.Time) {
	s.mu.Lock()
	s.lastSync = t
	s.mu.Unlock()
}

// PutProduct replaces the product with the same id or prepends it.
func (s *State) PutProduct(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			if p.CreatedAt.IsZero() {
				p.CreatedAt = s.products[i].CreatedAt
			}
			s.products[i] = p
			return
		}
	}
	s.products = append([]catalog.Product{p}, s.products...)
}

func (s *State) RemoveProduct(id string) {
	s.mu.Lock()
	s.products = slices.DeleteFunc(s.products, func(p catalog.Product) bool { return p.ID == id })
	s.mu.Unlock()
}

func (s *State) AddCategory(name string) {
	s.mu.Lock()
	if !slices.Contains(s.categories, name) {
		s.categories = append(s.categories, name)
	}
	s.mu.Unlock()
}

func (s *State) RemoveCategory(name string) {
	s.mu.Lock()
	s.categories = slices.DeleteFunc(s.categories, func(c string) bool { return c == name })
	s.mu.Unlock()
}

func (s *State) RemoveStaff(id string) {
	s.mu.Lock()
	s.staff = slices.DeleteFunc(s.staff, func(m staff.Member) bool { return m.ID == id })
	s.mu.Unlock()
}

// PrependOrder adds a newly placed order at the head of the list.
func (s *State) PrependOrder(o order.Order) {
	s.mu.Lock()
	s.orders = append([]order.Order{o}, s.orders...)
	s.mu.Unlock()
}

func (s *State) SetOrderStatus(id string, status order.Status) {
	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
		}
	}
	s.mu.Unlock()
}

// PutCustomer replaces the aggregate for c.Phone or appends it.
func (s *State) PutCustomer(c customer.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].Phone == c.Phone {
			s.customers[i] = c
			customer.SortBySpent(s.customers)
			return
		}
	}
	s.customers = append(s.customers, c)
	customer.SortBySpent(s.customers)
}

// Cart returns the session's cart; ok is false when the session is not cached.
func (s *State) Cart(session string) ([]order.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.carts[session]
	return cloneOrEmpty(items), ok
}

func (s *State) SetCart(session string, items []order.CartItem) {
	s.mu.Lock()
	s.carts[session] = cloneOrEmpty(items)
	s.mu.Unlock()
}

func (s *State) Wishlist(session string) ([]catalog.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.wishlists[session]
	return cloneOrEmpty(list), ok
}

func (s *State) SetWishlist(session string, list []catalog.Product) {
	s.mu.Lock()
	s.wishlists[session] = cloneOrEmpty(list)
	s.mu.Unlock()
}
