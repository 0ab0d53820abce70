// internal/interfaces/http/handlers/state.go
package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nabin216/ZotPot/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// StateSource is the read side of the store
type StateSource interface {
	Snapshot() store.State
	Subscribe(fn store.Listener) func()
}

var _ StateSource = (*store.Store)(nil)

// StateHandler serves store snapshots to the renderer
type StateHandler struct {
	store    StateSource
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

// NewStateHandler creates a new state handler. allowOrigin decides which
// renderers may open the stream; nil allows same-origin requests only.
func NewStateHandler(st StateSource, allowOrigin func(r *http.Request) bool, logger logrus.FieldLogger) *StateHandler {
	return &StateHandler{
		store: st,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     allowOrigin,
		},
		logger: logger,
	}
}

// GetState handles GET /state
func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "State retrieved successfully",
		"data":    h.store.Snapshot(),
	})
}

// Stream handles GET /state/stream. It sends the current snapshot, then
// every new one. Slow readers skip intermediate snapshots.
func (h *StateHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("State stream upgrade failed")
		return
	}
	defer conn.Close()

	latest := make(chan store.State, 1)
	var (
		mu       sync.Mutex
		offered  bool
		lastSeen uint64
	)
	offer := func(s store.State) {
		mu.Lock()
		defer mu.Unlock()
		// the initial snapshot may race a listener call; never go backwards
		seen := s.Revisions.Auth + s.Revisions.Cart + s.Revisions.Order
		if offered && seen < lastSeen {
			return
		}
		offered, lastSeen = true, seen
		select {
		case <-latest:
		default:
		}
		latest <- s
	}

	unsubscribe := h.store.Subscribe(offer)
	defer unsubscribe()
	offer(h.store.Snapshot())

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case s := <-latest:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(s); err != nil {
				h.logger.WithError(err).Debug("State stream closed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
