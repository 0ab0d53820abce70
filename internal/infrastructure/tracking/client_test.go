package tracking

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/domain/order"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
}

func seededStore() *store.Store {
	s := store.New()
	s.Dispatch(order.SetOrders{Orders: []order.Order{{ID: "o1", Status: order.OrderStatusConfirmed}}})
	return s
}

func TestClient_FollowDispatchesEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/tracking/o1/", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"agent_assigned","agent":{"id":"d1","name":"Ravi","phone":"999"}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"location_update","location":{"latitude":12.98,"longitude":77.6},"user_id":"d1"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"status_update","order_id":"o1","status":"out_for_delivery"}`))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
		conn.ReadMessage()
	}))
	defer srv.Close()

	s := seededStore()
	client := NewClient(config.TrackingConfig{URL: wsURL(srv)}, s, quiet())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Follow(ctx, "o1"))

	found, ok := s.Snapshot().Order.Find("o1")
	require.True(t, ok)
	assert.Equal(t, order.OrderStatusOutForDelivery, found.Status)
	require.NotNil(t, found.DeliveryAgent)
	require.NotNil(t, found.DeliveryAgent.CurrentLocation)
	assert.Equal(t, 12.98, found.DeliveryAgent.CurrentLocation.Latitude)
}

func TestClient_FollowStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewClient(config.TrackingConfig{URL: wsURL(srv)}, seededStore(), quiet())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- client.Follow(ctx, "o1") }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestClient_RunGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	client := NewClient(config.TrackingConfig{URL: url, ReconnectDelay: time.Millisecond, MaxReconnects: 2}, seededStore(), quiet())

	err := client.Run(context.Background(), "o1")
	assert.Error(t, err)
}

func TestClient_RunKeepsReconnectingAfterDrops(t *testing.T) {
	var sessions atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sessions.Add(1)
		// drop without a close frame
		conn.Close()
	}))
	defer srv.Close()

	client := NewClient(config.TrackingConfig{URL: wsURL(srv), ReconnectDelay: time.Millisecond, MaxReconnects: 2}, seededStore(), quiet())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- client.Run(ctx, "o1") }()

	require.Eventually(t, func() bool { return sessions.Load() >= 6 }, 5*time.Second, 5*time.Millisecond)

	select {
	case err := <-errCh:
		t.Fatalf("Run gave up after connected sessions: %v", err)
	default:
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClient_RunGivesUpReportsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	client := NewClient(config.TrackingConfig{URL: url, ReconnectDelay: time.Millisecond, MaxReconnects: 1}, seededStore(), quiet())
	assert.ErrorIs(t, client.Run(context.Background(), "o1"), ErrFeedUnreachable)
}

func TestManager_StartStop(t *testing.T) {
	connected := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connected <- struct{}{}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewClient(config.TrackingConfig{URL: wsURL(srv), ReconnectDelay: time.Millisecond}, seededStore(), quiet())
	m := NewManager(client, quiet())

	require.NoError(t, m.Start(context.Background(), "o1"))
	assert.ErrorIs(t, m.Start(context.Background(), "o1"), ErrAlreadyTracking)
	assert.Equal(t, []string{"o1"}, m.Tracking())

	select {
	case <-connected:
	case <-time.After(5 * time.Second):
		t.Fatal("tracking client never connected")
	}

	m.Stop("o1")
	m.Stop("unknown")
	assert.Empty(t, m.Tracking())
	m.StopAll()
}
