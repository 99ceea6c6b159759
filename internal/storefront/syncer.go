package storefront

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/cart"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/customer"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/notify"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/settings"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

const notifyTimeout = 10 * time.Second

// Syncer keeps the State consistent with the active store.
type Syncer struct {
	mode     Mode
	state    *State
	svc      Services
	sessions kv.Store
	notifier notify.Notifier
	now      func() time.Time

	pending sync.WaitGroup

	// per session id; serializes cart, wishlist and checkout steps
	sessionLocks sync.Map
}

// NewSyncer wires a syncer for b. notifier may be nil.
func NewSyncer(b Backend, svc Services, state *State, notifier notify.Notifier) *Syncer {
	return &Syncer{
		mode:     b.Mode,
		state:    state,
		svc:      svc,
		sessions: b.Sessions,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Syncer) Mode() Mode    { return s.mode }
func (s *Syncer) State() *State { return s.state }

func (s *Syncer) lockSession(session string) (unlock func()) {
	v, _ := s.sessionLocks.LoadOrStore(session, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Wait blocks until in-flight notifications finish.
func (s *Syncer) Wait() { s.pending.Wait() }

// Load fetches every collection in parallel. A failed collection falls back
// to the seed catalog (products), defaults (categories, settings) or empty;
// the returned error only reports what failed.
func (s *Syncer) Load(ctx context.Context) error {
	err := s.reload(ctx, true, AllCollections...)
	s.state.MarkSynced(s.now())
	if err != nil {
		log.Printf("sync: %s load finished with fallbacks: %v", s.mode, err)
	}
	return err
}

// reload refetches collections in parallel. With fallback set, a failed
// collection is replaced by its fallback value; otherwise the cached value
// is kept.
func (s *Syncer) reload(ctx context.Context, fallback bool, collections ...Collection) error {
	var g errgroup.Group
	for _, c := range collections {
		c := c
		load := s.loader(c)
		g.Go(func() error {
			if err := load(ctx, fallback); err != nil {
				return fmt.Errorf("load %s: %w", c, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Syncer) loader(c Collection) func(context.Context, bool) error {
	switch c {
	case CollectionProducts:
		return s.loadProducts
	case CollectionOrders:
		return s.loadOrders
	case CollectionCategories:
		return s.loadCategories
	case CollectionStaff:
		return s.loadStaff
	case CollectionCustomers:
		return s.loadCustomers
	case CollectionSettings:
		return s.loadSettings
	}
	return func(context.Context, bool) error { return fmt.Errorf("unknown collection %q", c) }
}

func (s *Syncer) loadProducts(ctx context.Context, fallback bool) error {
	products, err := s.svc.Catalog.ListProducts(ctx)
	switch {
	case err != nil && !fallback:
		return err
	case err != nil || len(products) == 0:
		s.state.SetProducts(catalog.SeedProducts())
	default:
		s.state.SetProducts(products)
	}
	return err
}

func (s *Syncer) loadOrders(ctx context.Context, fallback bool) error {
	orders, err := s.svc.Orders.List(ctx)
	if err == nil || fallback {
		s.state.SetOrders(orders)
	}
	return err
}

func (s *Syncer) loadCategories(ctx context.Context, fallback bool) error {
	categories, err := s.svc.Catalog.ListCategories(ctx)
	switch {
	case err != nil && !fallback:
		return err
	case err != nil || categories == nil:
		s.state.SetCategories(catalog.DefaultCategories())
	default:
		s.state.SetCategories(categories)
	}
	return err
}

func (s *Syncer) loadStaff(ctx context.Context, fallback bool) error {
	members, err := s.svc.Staff.List(ctx)
	if err == nil || fallback {
		s.state.SetStaff(members)
	}
	return err
}

func (s *Syncer) loadCustomers(ctx context.Context, fallback bool) error {
	customers, err := s.svc.Customers.List(ctx)
	if err == nil || fallback {
		s.state.SetCustomers(customers)
	}
	return err
}

func (s *Syncer) loadSettings(ctx context.Context, fallback bool) error {
	v, err := s.svc.Settings.Get(ctx)
	if err == nil || fallback {
		s.state.SetSettings(v)
	}
	return err
}

// after runs the policy for a successful write. When a reload fails the
// cache is patched instead.
func (s *Syncer) after(ctx context.Context, w Write, patch func()) {
	collections := Reloads(w)
	if len(collections) == 0 {
		patch()
		return
	}
	if err := s.reload(ctx, false, collections...); err != nil {
		log.Printf("sync: reload after %s failed, patching cache: %v", w, err)
		patch()
	}
}

// ── Catalog ─────────────────────────────────────────────

func (s *Syncer) CreateProduct(ctx context.Context, req catalog.ProductRequest) (catalog.Product, error) {
	p, err := s.svc.Catalog.CreateProduct(ctx, req)
	if err != nil {
		return catalog.Product{}, err
	}
	s.after(ctx, WriteProductCreate, func() { s.state.PutProduct(p) })
	return p, nil
}

func (s *Syncer) UpdateProduct(ctx context.Context, id string, req catalog.ProductRequest) (catalog.Product, error) {
	p, err := s.svc.Catalog.UpdateProduct(ctx, id, req)
	if err != nil {
		return catalog.Product{}, err
	}
	s.after(ctx, WriteProductUpdate, func() { s.state.PutProduct(p) })
	return p, nil
}

func (s *Syncer) DeleteProduct(ctx context.Context, id string) error {
	if err := s.svc.Catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.after(ctx, WriteProductDelete, func() { s.state.RemoveProduct(id) })
	return nil
}

// SeedProducts writes the built-in catalog to the store on admin request.
func (s *Syncer) SeedProducts(ctx context.Context) ([]catalog.Product, error) {
	seed, err := s.svc.Catalog.Seed(ctx)
	if err != nil {
		return nil, err
	}
	s.after(ctx, WriteProductSeed, func() {
		for _, p := range seed {
			s.state.PutProduct(p)
		}
	})
	return s.state.Products(), nil
}

func (s *Syncer) AddCategory(ctx context.Context, name string) (string, error) {
	name, err := s.svc.Catalog.AddCategory(ctx, name)
	if err != nil {
		return "", err
	}
	s.after(ctx, WriteCategoryAdd, func() { s.state.AddCategory(name) })
	return name, nil
}

// DeleteCategory never touches products in that category.
func (s *Syncer) DeleteCategory(ctx context.Context, name string) error {
	if err := s.svc.Catalog.DeleteCategory(ctx, name); err != nil {
		return err
	}
	s.after(ctx, WriteCategoryDelete, func() { s.state.RemoveCategory(name) })
	return nil
}

// ── Staff & settings ────────────────────────────────────

func (s *Syncer) AddStaff(ctx context.Context, req staff.AddRequest) (staff.Member, error) {
	m, err := s.svc.Staff.Add(ctx, req)
	if err != nil {
		return staff.Member{}, err
	}
	s.after(ctx, WriteStaffAdd, func() {
		s.state.SetStaff(append(s.state.Snapshot().Staff, m))
	})
	return m, nil
}

func (s *Syncer) DeleteStaff(ctx context.Context, id string) error {
	if err := s.svc.Staff.Delete(ctx, id); err != nil {
		return err
	}
	s.after(ctx, WriteStaffDelete, func() { s.state.RemoveStaff(id) })
	return nil
}

func (s *Syncer) UpdateSetting(ctx context.Context, key, value string) (settings.Settings, error) {
	next, err := s.svc.Settings.Set(ctx, s.state.Settings(), key, value)
	if err != nil {
		return settings.Settings{}, err
	}
	s.after(ctx, WriteSettingUpdate, func() { s.state.SetSettings(next) })
	return next, nil
}

// ── Orders & customers ──────────────────────────────────

func (s *Syncer) UpdateOrderStatus(ctx context.Context, id string, req order.UpdateStatusRequest) (order.Status, error) {
	status, err := s.svc.Orders.UpdateStatus(ctx, id, req)
	if err != nil {
		return "", err
	}
	s.after(ctx, WriteOrderStatus, func() { s.state.SetOrderStatus(id, status) })
	return status, nil
}

// RebuildCustomers replaces every aggregate with one replayed from the
// stored order history.
func (s *Syncer) RebuildCustomers(ctx context.Context) ([]customer.Customer, error) {
	orders, err := s.svc.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	customers, err := s.svc.Customers.RebuildFrom(ctx, orders)
	if err != nil {
		return nil, err
	}
	s.after(ctx, WriteCustomerRebuild, func() { s.state.SetCustomers(customers) })
	return s.state.Snapshot().Customers, nil
}

// Checkout turns the session cart into an order. Validation runs before any
// write; on any failure the cart is left as it was. Checkouts of one session
// run one at a time, so a repeated submit finds the cart already cleared.
func (s *Syncer) Checkout(ctx context.Context, session string, req order.PlaceRequest) (order.Order, error) {
	defer s.lockSession(session)()

	items, err := s.Cart(ctx, session)
	if err != nil {
		return order.Order{}, err
	}
	req.Items = items

	o, err := s.svc.Orders.Place(ctx, req)
	if err != nil {
		return order.Order{}, err
	}

	c, err := s.svc.Customers.RecordOrder(ctx, o)
	if err != nil {
		log.Printf("checkout: customer aggregate for %s not updated, rebuild will repair it: %v", o.ID, err)
	}

	s.notify(o)

	if err := s.saveCart(ctx, session, nil); err != nil {
		log.Printf("checkout: clear cart for session %s: %v", session, err)
	}

	s.after(ctx, WriteOrderCreate, func() {
		s.state.PrependOrder(o)
		if c.Phone != "" {
			s.state.PutCustomer(c)
		}
	})
	return o, nil
}

func (s *Syncer) notify(o order.Order) {
	if s.notifier == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.OrderPlaced(ctx, notify.NewEvent(o)); err != nil {
			log.Printf("notify: order %s: %v", o.ID, err)
		}
	}()
}

// Dashboard summarises the cached collections for the admin console.
type Dashboard struct {
	Mode          Mode      `json:"mode"`
	Products      int       `json:"products"`
	Orders        int       `json:"orders"`
	PendingOrders int       `json:"pendingOrders"`
	Categories    int       `json:"categories"`
	Customers     int       `json:"customers"`
	Revenue       float64   `json:"revenue"`
	LastSync      time.Time `json:"lastSync"`
}

func (s *Syncer) Dashboard() Dashboard {
	snap := s.state.Snapshot()
	d := Dashboard{
		Mode:       s.mode,
		Products:   len(snap.Products),
		Orders:     len(snap.Orders),
		Categories: len(snap.Categories),
		Customers:  len(snap.Customers),
		LastSync:   snap.LastSync,
	}
	revenue := decimal.Zero
	for _, o := range snap.Orders {
		if o.Status == order.StatusPending {
			d.PendingOrders++
		}
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalPrice))
	}
	d.Revenue = revenue.InexactFloat64()
	return d
}

// ── Cart & wishlist ─────────────────────────────────────

// CartView is the cart with its derived figures.
type CartView struct {
	Items []order.CartItem `json:"items"`
	Count int              `json:"count"`
	Total float64          `json:"total"`
}

func newCartView(items []order.CartItem) CartView {
	return CartView{Items: items, Count: cart.Count(items), Total: cart.Total(items)}
}

// Cart returns the session cart, restoring it from the local store on first use.
func (s *Syncer) Cart(ctx context.Context, session string) ([]order.CartItem, error) {
	if items, ok := s.state.Cart(session); ok {
		return items, nil
	}
	if s.sessions == nil {
		return []order.CartItem{}, nil
	}
	items, err := kv.NewCollection[order.CartItem](s.sessions, kv.CartKey(session)).Load(ctx)
	if err != nil {
		return nil, err
	}
	s.state.SetCart(session, items)
	items, _ = s.state.Cart(session)
	return items, nil
}

func (s *Syncer) saveCart(ctx context.Context, session string, items []order.CartItem) error {
	if s.sessions != nil {
		if err := kv.NewCollection[order.CartItem](s.sessions, kv.CartKey(session)).Save(ctx, items); err != nil {
			return err
		}
	}
	s.state.SetCart(session, items)
	return nil
}

func (s *Syncer) updateCart(ctx context.Context, session string, fn func([]order.CartItem) []order.CartItem) (CartView, error) {
	defer s.lockSession(session)()

	items, err := s.Cart(ctx, session)
	if err != nil {
		return CartView{}, err
	}
	next := fn(items)
	if err := s.saveCart(ctx, session, next); err != nil {
		return CartView{}, err
	}
	return newCartView(next), nil
}

func (s *Syncer) CartView(ctx context.Context, session string) (CartView, error) {
	items, err := s.Cart(ctx, session)
	if err != nil {
		return CartView{}, err
	}
	return newCartView(items), nil
}

func (s *Syncer) AddToCart(ctx context.Context, session, productID string) (CartView, error) {
	p, ok := s.state.Product(productID)
	if !ok {
		return CartView{}, fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
	}
	return s.updateCart(ctx, session, func(items []order.CartItem) []order.CartItem {
		return cart.Add(items, p)
	})
}

func (s *Syncer) UpdateCartQuantity(ctx context.Context, session, productID string, delta int) (CartView, error) {
	return s.updateCart(ctx, session, func(items []order.CartItem) []order.CartItem {
		return cart.UpdateQuantity(items, productID, delta)
	})
}

func (s *Syncer) RemoveFromCart(ctx context.Context, session, productID string) (CartView, error) {
	return s.updateCart(ctx, session, func(items []order.CartItem) []order.CartItem {
		return cart.Remove(items, productID)
	})
}

func (s *Syncer) Wishlist(ctx context.Context, session string) ([]catalog.Product, error) {
	if list, ok := s.state.Wishlist(session); ok {
		return list, nil
	}
	if s.sessions == nil {
		return []catalog.Product{}, nil
	}
	list, err := kv.NewCollection[catalog.Product](s.sessions, kv.WishlistKey(session)).Load(ctx)
	if err != nil {
		return nil, err
	}
	s.state.SetWishlist(session, list)
	list, _ = s.state.Wishlist(session)
	return list, nil
}

// ToggleWishlist adds or removes productID; the bool reports membership afterwards.
func (s *Syncer) ToggleWishlist(ctx context.Context, session, productID string) ([]catalog.Product, bool, error) {
	p, ok := s.state.Product(productID)
	if !ok {
		return nil, false, fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
	}
	defer s.lockSession(session)()

	list, err := s.Wishlist(ctx, session)
	if err != nil {
		return nil, false, err
	}
	next, in := cart.ToggleWishlist(list, p)
	if s.sessions != nil {
		if err := kv.NewCollection[catalog.Product](s.sessions, kv.WishlistKey(session)).Save(ctx, next); err != nil {
			return nil, false, err
		}
	}
	s.state.SetWishlist(session, next)
	return next, in, nil
}
