package storefront

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/catalog"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/customer"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/notify"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/settings"
	"github.com/georgemunganga/freshpavilion-backend/internal/modules/staff"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

var errUnreachable = errors.New("dial tcp: connection refused")

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, e notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func newStore(t *testing.T) *kv.FileStore {
	t.Helper()
	store, err := kv.NewFileStore(filepath.Join(t.TempDir(), "freshpavilion.json"))
	require.NoError(t, err)
	return store
}

func newLocalSyncer(t *testing.T, store kv.Store, n notify.Notifier) *Syncer {
	t.Helper()
	b := NewLocalBackend(store)
	s := NewSyncer(b, NewServices(b), NewState(), n)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func placeRequest() order.PlaceRequest {
	return order.PlaceRequest{
		CustomerName:  "Rahim",
		CustomerPhone: "01700000000",
		Location:      order.LocationZeroPoint,
	}
}

func fillCart(t *testing.T, s *Syncer, session string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range []string{"1", "1", "2"} {
		_, err := s.AddToCart(ctx, session, id)
		require.NoError(t, err)
	}
}

func TestCheckout_EndToEnd(t *testing.T) {
	n := &recordingNotifier{}
	s := newLocalSyncer(t, newStore(t), n)
	ctx := context.Background()

	fillCart(t, s, "sess-1")
	view, err := s.CartView(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2, "same product twice is one line")
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, float64(1080), view.Total)

	o, err := s.Checkout(ctx, "sess-1", placeRequest())
	require.NoError(t, err)
	assert.Equal(t, float64(1080), o.TotalPrice)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Len(t, o.Items, 2)

	snap := s.State().Snapshot()
	require.Len(t, snap.Orders, 1)
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "01700000000", snap.Customers[0].Phone)
	assert.Equal(t, 1, snap.Customers[0].OrderCount)
	assert.Equal(t, float64(1080), snap.Customers[0].TotalSpent)

	view, err = s.CartView(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	s.Wait()
	require.Len(t, n.events, 1)
	assert.Equal(t, o.ID, n.events[0].OrderID)

	fillCart(t, s, "sess-1")
	_, err = s.Checkout(ctx, "sess-1", placeRequest())
	require.NoError(t, err)
	snap = s.State().Snapshot()
	assert.Len(t, snap.Orders, 2)
	assert.Equal(t, 2, snap.Customers[0].OrderCount)
	assert.Equal(t, float64(2160), snap.Customers[0].TotalSpent)
}

func TestCheckout_ValidationLeavesCart(t *testing.T) {
	tests := []struct {
		name string
		edit func(*order.PlaceRequest)
	}{
		{name: "empty name", edit: func(r *order.PlaceRequest) { r.CustomerName = "" }},
		{name: "empty phone", edit: func(r *order.PlaceRequest) { r.CustomerPhone = "  " }},
		{name: "bad location", edit: func(r *order.PlaceRequest) { r.Location = "Gate" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			s := newLocalSyncer(t, store, nil)
			ctx := context.Background()
			fillCart(t, s, "sess")

			req := placeRequest()
			tt.edit(&req)
			_, err := s.Checkout(ctx, "sess", req)
			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))

			view, err := s.CartView(ctx, "sess")
			require.NoError(t, err)
			assert.Len(t, view.Items, 2)

			_, ok, err := store.Get(ctx, kv.KeyOrders)
			require.NoError(t, err)
			assert.False(t, ok, "no order written")
			assert.Empty(t, s.State().Snapshot().Orders)
		})
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newLocalSyncer(t, newStore(t), nil)
	_, err := s.Checkout(context.Background(), "nobody", placeRequest())
	assert.True(t, apperr.IsValidation(err))
}

type failingOrders struct{ order.Repository }

func (failingOrders) Create(context.Context, order.Order) error { return errUnreachable }

func TestCheckout_WriteFailureKeepsCart(t *testing.T) {
	store := newStore(t)
	b := NewLocalBackend(store)
	b.Orders = failingOrders{b.Orders}
	s := NewSyncer(b, NewServices(b), NewState(), nil)
	require.NoError(t, s.Load(context.Background()))
	fillCart(t, s, "sess")

	_, err := s.Checkout(context.Background(), "sess", placeRequest())
	require.ErrorIs(t, err, errUnreachable)
	assert.False(t, apperr.IsValidation(err))

	view, err := s.CartView(context.Background(), "sess")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Empty(t, s.State().Snapshot().Customers)
}

type (
	downProducts   struct{ catalog.Repository }
	downCategories struct{ catalog.CategoryRepository }
	downOrders     struct{ order.Repository }
	downCustomers  struct{ customer.Repository }
	downStaff      struct{ staff.Repository }
	downSettings   struct{ settings.Repository }
)

func (downProducts) List(context.Context) ([]catalog.Product, error) { return nil, errUnreachable }
func (downCategories) List(context.Context) ([]string, error) { return nil, errUnreachable }
func (downOrders) List(context.Context) ([]order.Order, error) { return nil, errUnreachable }
func (downCustomers) List(context.Context) ([]customer.Customer, error) { return nil, errUnreachable }
func (downStaff) List(context.Context) ([]staff.Member, error) { return nil, errUnreachable }
func (downSettings) List(context.Context) ([]settings.Entry, error) { return nil, errUnreachable }

func TestLoad_UnreachableRemoteFallsBack(t *testing.T) {
	b := Backend{
		Mode:       ModeRemote,
		Products:   downProducts{},
		Categories: downCategories{},
		Orders:     downOrders{},
		Customers:  downCustomers{},
		Staff:      downStaff{},
		Settings:   downSettings{},
	}
	s := NewSyncer(b, NewServices(b), NewState(), nil)

	err := s.Load(context.Background())
	require.Error(t, err)

	snap := s.State().Snapshot()
	assert.NotEmpty(t, snap.Products)
	assert.Equal(t, catalog.SeedProducts(), snap.Products)
	assert.Equal(t, catalog.DefaultCategories(), snap.Categories)
	assert.Equal(t, settings.Defaults(), snap.Settings)
	assert.Empty(t, snap.Orders)
	assert.Empty(t, snap.Customers)
	assert.Empty(t, snap.Staff)
	assert.False(t, snap.LastSync.IsZero())
	assert.Equal(t, ModeRemote, s.Dashboard().Mode)
}

func TestLoad_SeedNotWrittenBack(t *testing.T) {
	store := newStore(t)
	s := newLocalSyncer(t, store, nil)

	assert.Len(t, s.State().Products(), len(catalog.SeedProducts()))
	_, ok, err := store.Get(context.Background(), kv.KeyProducts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderTotalIsFrozen(t *testing.T) {
	s := newLocalSyncer(t, newStore(t), nil)
	ctx := context.Background()

	fillCart(t, s, "sess")
	o, err := s.Checkout(ctx, "sess", placeRequest())
	require.NoError(t, err)

	p, _ := s.State().Product("1")
	req := catalog.ProductRequest{
		Name: p.Name, Price: 150, Description: p.Description, Image: p.Image,
		Category: p.Category, Stock: p.Stock, Unit: p.Unit,
	}
	_, err = s.UpdateProduct(ctx, "1", req)
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))

	updated, _ := s.State().Product("1")
	assert.Equal(t, float64(150), updated.Price)
	orders := s.State().Snapshot().Orders
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
	assert.Equal(t, float64(1080), orders[0].TotalPrice)
	assert.Equal(t, float64(450), orders[0].Items[0].Price)
}

func TestLocalCatalog_WritesBuildOnSeed(t *testing.T) {
	store := newStore(t)
	s := newLocalSyncer(t, store, nil)
	ctx := context.Background()
	seedLen := len(catalog.SeedProducts())
	require.Len(t, s.State().Products(), seedLen)

	created, err := s.CreateProduct(ctx, catalog.ProductRequest{
		Name: "খেজুর", Price: 500, Image: catalog.FallbackImage, Category: "খাবার", Stock: 3,
	})
	require.NoError(t, err)
	assert.Len(t, s.State().Products(), seedLen+1)

	seed := catalog.SeedProducts()[0]
	_, err = s.UpdateProduct(ctx, seed.ID, catalog.ProductRequest{
		Name: seed.Name, Price: 475, Image: seed.Image, Category: seed.Category, Stock: seed.Stock,
	})
	require.NoError(t, err)

	restarted := newLocalSyncer(t, store, nil)
	products := restarted.State().Products()
	assert.Len(t, products, seedLen+1)
	_, ok := catalog.Find(products, created.ID)
	assert.True(t, ok)
	edited, ok := catalog.Find(products, seed.ID)
	require.True(t, ok)
	assert.Equal(t, float64(475), edited.Price)
}

func TestCheckout_ConcurrentSubmitsPlaceOneOrder(t *testing.T) {
	s := newLocalSyncer(t, newStore(t), nil)
	ctx := context.Background()
	fillCart(t, s, "sess")

	const submits = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed int
	)
	for i := 0; i < submits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Checkout(ctx, "sess", placeRequest())
			if err != nil {
				assert.True(t, apperr.IsValidation(err), "later submits see an empty cart: %v", err)
				return
			}
			mu.Lock()
			placed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, placed)
	snap := s.State().Snapshot()
	assert.Len(t, snap.Orders, 1)
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, 1, snap.Customers[0].OrderCount)
	assert.Equal(t, float64(1080), snap.Customers[0].TotalSpent)
}

func TestCheckout_ConcurrentSessions(t *testing.T) {
	store := newStore(t)
	s := newLocalSyncer(t, store, nil)
	ctx := context.Background()

	const sessions = 20
	for i := 0; i < sessions; i++ {
		fillCart(t, s, fmt.Sprintf("sess-%d", i))
	}
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Checkout(ctx, fmt.Sprintf("sess-%d", i), placeRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	restarted := newLocalSyncer(t, store, nil)
	snap := restarted.State().Snapshot()
	assert.Len(t, snap.Orders, sessions, "no order lost to a concurrent write")
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, sessions, snap.Customers[0].OrderCount)
}

func TestDeleteCategory_DoesNotCascade(t *testing.T) {
	s := newLocalSyncer(t, newStore(t), nil)
	ctx := context.Background()

	p, err := s.CreateProduct(ctx, catalog.ProductRequest{
		Name: "খেজুর", Price: 500, Image: catalog.FallbackImage, Category: "শুকনো খাবার", Stock: 3,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, "শুকনো খাবার"))
	assert.NotContains(t, s.State().Categories(), "শুকনো খাবার")

	got, ok := s.State().Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, "শুকনো খাবার", got.Category)

	require.NoError(t, s.Load(ctx))
	got, ok = s.State().Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, "শুকনো খাবার", got.Category)
	assert.NotContains(t, s.State().Categories(), "শুকনো খাবার")
}

func TestCartPersistsAcrossRestart(t *testing.T) {
	store := newStore(t)
	s := newLocalSyncer(t, store, nil)
	ctx := context.Background()
	fillCart(t, s, "sess")
	_, _, err := s.ToggleWishlist(ctx, "sess", "3")
	require.NoError(t, err)

	restarted := newLocalSyncer(t, store, nil)
	view, err := restarted.CartView(ctx, "sess")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, float64(1080), view.Total)

	list, err := restarted.Wishlist(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3", list[0].ID)

	list, in, err := restarted.ToggleWishlist(ctx, "sess", "3")
	require.NoError(t, err)
	assert.False(t, in)
	assert.Empty(t, list)
}

func TestCart_UnknownProduct(t *testing.T) {
	s := newLocalSyncer(t, newStore(t), nil)
	_, err := s.AddToCart(context.Background(), "sess", "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRebuildCustomers(t *testing.T) {
	store := newStore(t)
	s := newLocalSyncer(t, store, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fillCart(t, s, "sess")
		_, err := s.Checkout(ctx, "sess", placeRequest())
		require.NoError(t, err)
	}
	incremental := s.State().Snapshot().Customers

	require.NoError(t, store.Delete(ctx, kv.KeyCustomers))
	rebuilt, err := s.RebuildCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, rebuilt, 1)
	assert.Equal(t, incremental[0].OrderCount, rebuilt[0].OrderCount)
	assert.InDelta(t, incremental[0].TotalSpent, rebuilt[0].TotalSpent, 1e-6)
	assert.Equal(t, 3, rebuilt[0].OrderCount)
}

func TestAdminMutations(t *testing.T) {
	s := newLocalSyncer(t, newStore(t), nil)
	ctx := context.Background()

	m, err := s.AddStaff(ctx, staff.AddRequest{Username: "karim", Password: "pw"})
	require.NoError(t, err)
	assert.Len(t, s.State().Snapshot().Staff, 1)
	require.NoError(t, s.DeleteStaff(ctx, m.ID))
	assert.Empty(t, s.State().Snapshot().Staff)

	v, err := s.UpdateSetting(ctx, settings.KeySiteName, "Fresh")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", v.SiteName)
	assert.Equal(t, "Fresh", s.State().Settings().SiteName)
	_, err = s.UpdateSetting(ctx, "theme", "dark")
	assert.True(t, apperr.IsValidation(err))

	_, err = s.CreateProduct(ctx, catalog.ProductRequest{Name: "x"})
	assert.True(t, apperr.IsValidation(err))

	fillCart(t, s, "sess")
	o, err := s.Checkout(ctx, "sess", placeRequest())
	require.NoError(t, err)
	status, err := s.UpdateOrderStatus(ctx, o.ID, order.UpdateStatusRequest{Status: "Delivered"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, status)
	assert.Equal(t, order.StatusDelivered, s.State().Snapshot().Orders[0].Status)

	d := s.Dashboard()
	assert.Equal(t, ModeLocal, d.Mode)
	assert.Equal(t, 1, d.Orders)
	assert.Equal(t, 0, d.PendingOrders)
	assert.Equal(t, float64(1080), d.Revenue)
}

func TestPolicy(t *testing.T) {
	writes := []Write{
		WriteProductCreate, WriteProductUpdate, WriteProductDelete, WriteProductSeed,
		WriteCategoryAdd, WriteCategoryDelete, WriteStaffAdd, WriteStaffDelete,
		WriteOrderCreate, WriteOrderStatus, WriteCustomerRebuild, WriteSettingUpdate,
	}
	for _, w := range writes {
		_, ok := Policy[w]
		assert.True(t, ok, "policy entry for %s", w)
	}
	assert.Len(t, Policy, len(writes))
	assert.ElementsMatch(t, []Collection{CollectionOrders, CollectionCustomers}, Reloads(WriteOrderCreate))
	assert.Nil(t, Reloads(WriteProductUpdate))
}
