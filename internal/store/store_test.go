package store

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/nabin216/ZotPot/internal/domain/auth"
	"github.com/nabin216/ZotPot/internal/domain/cart"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/pkg/money"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownAction struct{}

func (unknownAction) ActionType() string { return "test/unknown" }

func pizza(qty int) cart.Item {
	return cart.Item{ID: "a", Name: "Pizza", Price: money.New(9.99), Quantity: qty}
}

func TestStore_DispatchRoutesToSlices(t *testing.T) {
	s := New()

	assert.True(t, s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)}))
	assert.True(t, s.Dispatch(order.AddOrder{Order: order.Order{ID: "o1", Status: order.OrderStatusPending}}))
	assert.True(t, s.Dispatch(auth.SetCredentials{User: auth.User{ID: "u1", Role: auth.RoleDeliveryAgent}, Token: "t"}))

	snap := s.Snapshot()
	assert.Equal(t, "9.99", snap.Cart.Total.String())
	assert.Equal(t, 1, snap.Order.Len())
	assert.Equal(t, "u1", snap.Auth.UserID())
	assert.Equal(t, auth.RouteDeliveryAgent, snap.Route)
	assert.Equal(t, Revisions{Auth: 1, Cart: 1, Order: 1}, snap.Revisions)
}

func TestStore_NotifiesOnlyOnChange(t *testing.T) {
	s := New()
	var calls int
	s.Subscribe(func(State) { calls++ })

	s.Dispatch(cart.RemoveItem{ID: "missing"})
	s.Dispatch(order.UpdateOrderStatus{OrderID: "nope", Status: order.OrderStatusDelivered})
	s.Dispatch(unknownAction{})
	assert.Equal(t, 0, calls)

	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)})
	assert.Equal(t, 1, calls)
}

func TestStore_SubscribersInRegistrationOrder(t *testing.T) {
	s := New()
	var got []string
	s.Subscribe(func(State) { got = append(got, "first") })
	s.Subscribe(func(State) { got = append(got, "second") })
	s.Subscribe(func(State) { got = append(got, "third") })

	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)})

	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := New()
	var calls int
	unsubscribe := s.Subscribe(func(State) { calls++ })

	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)})
	unsubscribe()
	unsubscribe()
	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(2)})

	assert.Equal(t, 1, calls)
}

func TestStore_ReentrantDispatchIsQueued(t *testing.T) {
	s := New()
	var totals []string
	s.Subscribe(func(st State) {
		totals = append(totals, st.Cart.Total.String())
		if st.Cart.Count() == 1 && st.Cart.Quantity() == 1 {
			s.Dispatch(cart.UpdateQuantity{ID: "a", Quantity: 3})
		}
	})

	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)})

	assert.Equal(t, []string{"9.99", "29.97"}, totals)
	assert.Equal(t, "29.97", s.Snapshot().Cart.Total.String())
}

func TestStore_ListenerPanicDoesNotBreakDispatch(t *testing.T) {
	s := New()
	var after int
	s.Subscribe(func(State) { panic("boom") })
	s.Subscribe(func(State) { after++ })

	assert.NotPanics(t, func() { s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)}) })
	assert.Equal(t, 1, after)

	s.Dispatch(cart.Clear{})
	assert.Equal(t, 2, after)
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	s := New()
	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)})

	snap := s.Snapshot()
	snap.Cart.Items[0].Quantity = 50

	s.Dispatch(cart.UpdateQuantity{ID: "a", Quantity: 2})
	assert.Equal(t, 50, snap.Cart.Items[0].Quantity)
	assert.Equal(t, 2, s.Snapshot().Cart.Items[0].Quantity)
}

func TestStore_RejectedTransitionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	s := New(WithLogger(logger))
	s.Dispatch(order.SetOrders{Orders: []order.Order{{ID: "o1", Status: order.OrderStatusDelivered}}})

	assert.False(t, s.Dispatch(order.UpdateOrderStatus{OrderID: "o1", Status: order.OrderStatusPending}))
	assert.Contains(t, buf.String(), "Rejected order status transition")
	assert.Contains(t, buf.String(), `"order_id":"o1"`)
}

func TestStore_PermissiveTransitions(t *testing.T) {
	s := New(WithPermissiveTransitions())
	s.Dispatch(order.SetOrders{Orders: []order.Order{{ID: "o1", Status: order.OrderStatusDelivered}}})

	assert.True(t, s.Dispatch(order.UpdateOrderStatus{OrderID: "o1", Status: order.OrderStatusPending}))
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	s := New()
	var mu sync.Mutex
	var notified int
	s.Subscribe(func(State) {
		mu.Lock()
		notified++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(cart.AddOrUpdateItem{Item: cart.Item{ID: string(rune('A' + i)), Name: "x", Price: money.New(1), Quantity: 1}})
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 50, snap.Cart.Count())
	assert.Equal(t, "50.00", snap.Cart.Total.String())
	assert.Equal(t, uint64(50), snap.Revisions.Cart)
	assert.Equal(t, 50, notified)
}

func TestStore_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	s := New(WithMetrics(m))

	unsubscribe := s.Subscribe(func(State) {})
	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(1)})
	s.Dispatch(cart.RemoveItem{ID: "missing"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("cart/addOrUpdateItem", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("cart/removeItem", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscribers))

	unsubscribe()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.subscribers))
}

func TestState_MarshalJSON(t *testing.T) {
	s := New()
	s.Dispatch(cart.AddOrUpdateItem{Item: pizza(3)})

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "auth", decoded["route"])
	assert.Equal(t, 29.97, decoded["cart"].(map[string]interface{})["total"])
	assert.Contains(t, decoded, "order")
}
