package customer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/apperr"
	"github.com/georgemunganga/freshpavilion-backend/internal/platform/kv"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func placed(id, phone, name string, total float64, minutes int) order.Order {
	return order.Order{
		ID:            id,
		CustomerName:  name,
		CustomerPhone: phone,
		Location:      order.LocationZeroPoint,
		TotalPrice:    total,
		Status:        order.StatusPending,
		CreatedAt:     base.Add(time.Duration(minutes) * time.Minute),
	}
}

type mockRepo struct{ mock.Mock }

func (m *mockRepo) List(ctx context.Context) ([]Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Customer), args.Error(1)
}

func (m *mockRepo) Get(ctx context.Context, phone string) (Customer, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(Customer), args.Error(1)
}

func (m *mockRepo) Upsert(ctx context.Context, c Customer) error { return m.Called(ctx, c).Error(0) }

func (m *mockRepo) ReplaceAll(ctx context.Context, customers []Customer) error {
	return m.Called(ctx, customers).Error(0)
}

func TestApply(t *testing.T) {
	first := Apply(nil, placed("#FP-1", "01700000000", "Rahim", 1080, 0))
	assert.Equal(t, 1, first.OrderCount)
	assert.Equal(t, float64(1080), first.TotalSpent)
	assert.Equal(t, "Rahim", first.Name)

	o := placed("#FP-2", "01700000000", "Rahim Uddin", 250.5, 10)
	o.Location = order.LocationHalls
	second := Apply(&first, o)
	assert.Equal(t, 2, second.OrderCount)
	assert.InDelta(t, 1330.5, second.TotalSpent, 1e-9)
	assert.Equal(t, "Rahim Uddin", second.Name)
	assert.Equal(t, order.LocationHalls, second.LastLocation)

	assert.Equal(t, 1, first.OrderCount, "existing aggregate must not be mutated")
}

func TestRebuildMatchesIncremental(t *testing.T) {
	phones := []string{"01700000000", "01800000000", "01900000000", "01600000000"}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 20; run++ {
		var orders []order.Order
		incremental := make(map[string]*Customer)
		for i := 0; i < 40; i++ {
			phone := phones[rng.Intn(len(phones))]
			total := float64(rng.Intn(200000)) / 100
			o := placed(fmt.Sprintf("#FP-%d", i), phone, "c"+phone, total, i)
			orders = append(orders, o)

			next := Apply(incremental[phone], o)
			incremental[phone] = &next
		}

		rebuilt := Rebuild(orders)
		require.Len(t, rebuilt, len(incremental))
		for _, c := range rebuilt {
			want := incremental[c.Phone]
			require.NotNil(t, want)
			assert.Equal(t, want.OrderCount, c.OrderCount)
			assert.InDelta(t, want.TotalSpent, c.TotalSpent, 1e-6)
			assert.Equal(t, want.LastOrderAt, c.LastOrderAt)
		}
	}
}

func TestRebuild(t *testing.T) {
	orders := []order.Order{
		placed("#FP-3", "01800000000", "Karim", 100, 30),
		placed("#FP-1", "01700000000", "Rahim", 450, 0),
		placed("#FP-2", "01700000000", "Rahim U", 180, 20),
		placed("#FP-4", " ", "nobody", 999, 40),
	}
	customers := Rebuild(orders)
	require.Len(t, customers, 2)
	assert.Equal(t, "01700000000", customers[0].Phone)
	assert.Equal(t, 2, customers[0].OrderCount)
	assert.Equal(t, float64(630), customers[0].TotalSpent)
	assert.Equal(t, "Rahim U", customers[0].Name)
	assert.Equal(t, "01800000000", customers[1].Phone)

	assert.Empty(t, Rebuild(nil))
}

func TestService_RecordOrder(t *testing.T) {
	existing := Customer{Phone: "01700000000", Name: "Rahim", OrderCount: 2, TotalSpent: 500, LastOrderAt: base}

	tests := []struct {
		name          string
		order         order.Order
		setupMocks    func(*mockRepo)
		expectedCount int
		expectedSpent float64
		expectedError string
	}{
		{
			name:  "new customer",
			order: placed("#FP-1", "01900000000", "Karim", 1080, 5),
			setupMocks: func(r *mockRepo) {
				r.On("Get", mock.Anything, "01900000000").Return(Customer{}, apperr.ErrNotFound)
				r.On("Upsert", mock.Anything, mock.AnythingOfType("customer.Customer")).Return(nil)
			},
			expectedCount: 1,
			expectedSpent: 1080,
		},
		{
			name:  "existing customer",
			order: placed("#FP-2", "01700000000", "Rahim", 1080, 5),
			setupMocks: func(r *mockRepo) {
				r.On("Get", mock.Anything, "01700000000").Return(existing, nil)
				r.On("Upsert", mock.Anything, mock.MatchedBy(func(c Customer) bool {
					return c.OrderCount == 3 && c.TotalSpent == 1580
				})).Return(nil)
			},
			expectedCount: 3,
			expectedSpent: 1580,
		},
		{
			name:  "lookup failure",
			order: placed("#FP-3", "01700000000", "Rahim", 10, 5),
			setupMocks: func(r *mockRepo) {
				r.On("Get", mock.Anything, "01700000000").Return(Customer{}, errors.New("connection refused"))
			},
			expectedError: "connection refused",
		},
		{
			name:          "missing phone",
			order:         placed("#FP-4", "", "Rahim", 10, 5),
			setupMocks:    func(r *mockRepo) {},
			expectedError: "no customer phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			tt.setupMocks(repo)
			svc := NewService(repo)

			c, err := svc.RecordOrder(context.Background(), tt.order)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCount, c.OrderCount)
			assert.Equal(t, tt.expectedSpent, c.TotalSpent)
			repo.AssertExpectations(t)
		})
	}
}

func TestLocalRepository(t *testing.T) {
	store, err := kv.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	ctx := context.Background()
	svc := NewService(NewLocalRepository(store))

	_, err = svc.RecordOrder(ctx, placed("#FP-1", "01700000000", "Rahim", 450, 0))
	require.NoError(t, err)
	_, err = svc.RecordOrder(ctx, placed("#FP-2", "01800000000", "Karim", 900, 1))
	require.NoError(t, err)
	_, err = svc.RecordOrder(ctx, placed("#FP-3", "01700000000", "Rahim", 630, 2))
	require.NoError(t, err)

	customers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "01700000000", customers[0].Phone)
	assert.Equal(t, 2, customers[0].OrderCount)
	assert.Equal(t, float64(1080), customers[0].TotalSpent)

	rebuilt, err := svc.RebuildFrom(ctx, []order.Order{placed("#FP-9", "01600000000", "Nila", 50, 0)})
	require.NoError(t, err)
	require.Len(t, rebuilt, 1)

	customers, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "01600000000", customers[0].Phone)
}

func TestService_RecordOrderConcurrent(t *testing.T) {
	store, err := kv.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	ctx := context.Background()
	svc := NewService(NewLocalRepository(store))

	const orders = 50
	var wg sync.WaitGroup
	for i := 0; i < orders; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			phone := "01700000000"
			if i%2 == 1 {
				phone = "01800000000"
			}
			_, err := svc.RecordOrder(ctx, placed(fmt.Sprintf("#FP-%d", i), phone, "Rahim", 10, i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	customers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	for _, c := range customers {
		assert.Equal(t, orders/2, c.OrderCount, c.Phone)
		assert.Equal(t, float64(orders/2*10), c.TotalSpent, c.Phone)
	}
}

func TestCustomerRow_toCustomer(t *testing.T) {
	row := customerRow{Phone: " 01700000000 "}
	row.TotalOrders.Int64, row.TotalOrders.Valid = -3, true
	c, err := row.toCustomer()
	require.NoError(t, err)
	assert.Equal(t, "01700000000", c.Phone)
	assert.Equal(t, 0, c.OrderCount)

	_, err = customerRow{}.toCustomer()
	assert.Error(t, err)
}
