package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/freshpavilion-backend/internal/modules/order"
)

func sampleEvent() Event {
	return NewEvent(order.Order{
		ID:            "#FP-100001",
		CustomerName:  "Rahim",
		CustomerPhone: "01700000000",
		Location:      order.LocationZeroPoint,
		TotalPrice:    1080,
		Items:         make([]order.CartItem, 2),
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
}

func TestEvent_Summary(t *testing.T) {
	s := sampleEvent().Summary()
	assert.Contains(t, s, "#FP-100001")
	assert.Contains(t, s, "Rahim")
	assert.Contains(t, s, "01700000000")
	assert.Contains(t, s, "৳1080")
	assert.Contains(t, s, string(order.LocationZeroPoint))
}

func TestWebhook_OrderPlaced(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		mu.Unlock()
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ok.Close()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	hook := NewWebhook(func() []string { return []string{ok.URL} }, time.Second)
	require.NoError(t, hook.OrderPlaced(context.Background(), sampleEvent()))
	require.Len(t, bodies, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &payload))
	assert.Equal(t, sampleEvent().Summary(), payload["content"])

	hook = NewWebhook(func() []string { return []string{failing.URL, ok.URL} }, time.Second)
	err := hook.OrderPlaced(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
	assert.Len(t, bodies, 2, "later URLs are still called")

	hook = NewWebhook(func() []string { return nil }, time.Second)
	assert.NoError(t, hook.OrderPlaced(context.Background(), sampleEvent()))
}

func TestWebhook_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	hook := NewWebhook(func() []string { return []string{slow.URL} }, 20*time.Millisecond)
	assert.Error(t, hook.OrderPlaced(context.Background(), sampleEvent()))
}

type mockChannel struct{ mock.Mock }

func (m *mockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error { return nil }

func TestAMQPPublisher_OrderPlaced(t *testing.T) {
	ch := new(mockChannel)
	ch.On("Publish", "order.exchange", RoutingKeyOrderCreated, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var m message
		if err := json.Unmarshal(msg.Body, &m); err != nil {
			return false
		}
		return msg.ContentType == "application/json" && m.Pattern == RoutingKeyOrderCreated &&
			m.Data.OrderID == "#FP-100001" && m.Data.ItemCount == 2
	})).Return(nil).Once()
	ch.On("Publish", "order.exchange", RoutingKeyOrderCreated, mock.Anything).Return(errors.New("channel closed")).Once()

	p := &AMQPPublisher{channel: ch, exchange: "order.exchange"}
	require.NoError(t, p.OrderPlaced(context.Background(), sampleEvent()))
	assert.ErrorContains(t, p.OrderPlaced(context.Background(), sampleEvent()), "channel closed")
	ch.AssertExpectations(t)
	p.Close()
}

type notifierFunc func(context.Context, Event) error

func (f notifierFunc) OrderPlaced(ctx context.Context, e Event) error { return f(ctx, e) }

func TestFanout(t *testing.T) {
	calls := 0
	okN := notifierFunc(func(context.Context, Event) error { calls++; return nil })
	badN := notifierFunc(func(context.Context, Event) error { calls++; return errors.New("down") })

	assert.NoError(t, Fanout{okN, nil, okN}.OrderPlaced(context.Background(), sampleEvent()))
	err := Fanout{badN, okN}.OrderPlaced(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "down")
	assert.Equal(t, 4, calls)
}
