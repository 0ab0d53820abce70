// internal/infrastructure/tracking/client.go
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nabin216/ZotPot/internal/config"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
	readLimit  = 64 * 1024
)

// Dispatcher receives the actions produced by the feed
type Dispatcher interface {
	Dispatch(a store.Action) bool
}

// Client follows order tracking rooms over websocket and dispatches the
// events into the store
type Client struct {
	baseURL        string
	reconnectDelay time.Duration
	maxReconnects  int
	dialer         *websocket.Dialer
	dispatcher     Dispatcher
	logger         logrus.FieldLogger
}

// NewClient creates a new tracking client
func NewClient(cfg config.TrackingConfig, dispatcher Dispatcher, logger logrus.FieldLogger) *Client {
	base := cfg.URL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Client{
		baseURL:        base,
		reconnectDelay: cfg.ReconnectDelay,
		maxReconnects:  cfg.MaxReconnects,
		dialer:         &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		dispatcher:     dispatcher,
		logger:         logger,
	}
}

// roomURL is the backend route of an order's tracking room
func (c *Client) roomURL(orderID string) string {
	return c.baseURL + "ws/tracking/" + url.PathEscape(orderID) + "/"
}

// Follow connects to the order's room and dispatches events until ctx is
// done (returns nil) or the connection fails (returns the error).
func (c *Client) Follow(ctx context.Context, orderID string) error {
	conn, _, err := c.dialer.DialContext(ctx, c.roomURL(orderID), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFeedUnreachable, err)
	}

	log := c.logger.WithField("order_id", orderID)
	log.Info("Following order tracking")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.keepAlive(ctx, conn, done)
	}()
	defer func() {
		close(done)
		wg.Wait()
		conn.Close()
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("Tracking feed closed")
				return nil
			}
			return fmt.Errorf("tracking feed read failed: %w", err)
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).Warn("Dropping malformed tracking message")
			continue
		}

		action, ok := msg.ToAction(orderID)
		if !ok {
			log.WithField("type", msg.Type).Debug("Ignoring tracking message")
			continue
		}
		c.dispatcher.Dispatch(action)
	}
}

// keepAlive pings the server and closes the connection when ctx ends so the
// blocked read returns
func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// ErrFeedUnreachable is returned by Follow when the room could not be dialed
var ErrFeedUnreachable = errors.New("failed to connect to tracking feed")

// Run follows an order and reconnects after failures until ctx is done or
// the reconnect budget is used up. The budget counts consecutive failed
// dials; a session that connected starts it over.
func (c *Client) Run(ctx context.Context, orderID string) error {
	failures := 0
	for {
		err := c.Follow(ctx, orderID)
		if err == nil || ctx.Err() != nil {
			return nil
		}

		if !errors.Is(err, ErrFeedUnreachable) {
			failures = 0
		}
		failures++
		log := c.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": orderID,
			"attempt":  failures,
		})
		if c.maxReconnects > 0 && failures > c.maxReconnects {
			log.Error("Giving up on order tracking")
			return err
		}
		log.Warn("Tracking feed lost, reconnecting")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.reconnectDelay * time.Duration(failures)):
		}
	}
}

// ErrAlreadyTracking is returned when an order is followed twice
var ErrAlreadyTracking = errors.New("order is already being tracked")

// Manager runs one tracking goroutine per followed order
type Manager struct {
	client *Client
	logger logrus.FieldLogger

	mu      sync.Mutex
	tracked map[string]*trackedOrder
	wg      sync.WaitGroup
}

type trackedOrder struct {
	cancel context.CancelFunc
}

// NewManager creates a new tracking manager
func NewManager(client *Client, logger logrus.FieldLogger) *Manager {
	return &Manager{
		client:  client,
		logger:  logger,
		tracked: make(map[string]*trackedOrder),
	}
}

// Start begins following an order in the background
func (m *Manager) Start(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tracked[orderID]; ok {
		return ErrAlreadyTracking
	}

	ctx, cancel := context.WithCancel(ctx)
	entry := &trackedOrder{cancel: cancel}
	m.tracked[orderID] = entry

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.client.Run(ctx, orderID); err != nil {
			m.logger.WithError(err).WithField("order_id", orderID).Error("Order tracking stopped")
		}
		cancel()
		m.mu.Lock()
		if m.tracked[orderID] == entry {
			delete(m.tracked, orderID)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop stops following an order. Unknown orders are ignored.
func (m *Manager) Stop(orderID string) {
	m.mu.Lock()
	entry, ok := m.tracked[orderID]
	delete(m.tracked, orderID)
	m.mu.Unlock()

	if ok {
		entry.cancel()
	}
}

// Tracking lists the orders currently followed
func (m *Manager) Tracking() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.tracked))
	for id := range m.tracked {
		ids = append(ids, id)
	}
	return ids
}

// StopAll stops every tracking goroutine and waits for them to exit
func (m *Manager) StopAll() {
	m.mu.Lock()
	for id, entry := range m.tracked {
		entry.cancel()
		delete(m.tracked, id)
	}
	m.mu.Unlock()
	m.wg.Wait()
}
