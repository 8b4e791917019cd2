package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	module = "internal/delivery/ws"

	defaultWriteTimeout = 5 * time.Second
	pongWait            = 60 * time.Second
	pingPeriod          = (pongWait * 9) / 10
	sendBufferSize      = 16
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// client owns one connection. Only its writeLoop writes data frames;
// close frames go through WriteControl.
type client struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	stopOnce sync.Once
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Hub keeps the set of live websocket subscribers and broadcasts frames of
// the form {"event": name, "data": payload} to all of them. Subscribers get
// no history; inbound messages are read and discarded.
type Hub struct {
	upgrader     *websocket.Upgrader
	conns        map[*client]struct{}
	connsMu      sync.RWMutex
	closed       bool
	writeTimeout time.Duration
	logger       *slog.Logger
}

// NewHub accepts upgrades from allowedOrigin, or from any origin when it
// is empty or "*".
func NewHub(allowedOrigin string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		conns:        make(map[*client]struct{}),
		writeTimeout: defaultWriteTimeout,
		logger:       logger,
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.connsMu.RLock()
	closed := h.closed
	h.connsMu.RUnlock()
	if closed {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			"event", "ws_upgrade_failed",
			"module", module,
			"error", err.Error(),
		)
		return
	}

	c := newClient(conn)
	h.connsMu.Lock()
	if h.closed {
		h.connsMu.Unlock()
		c.stop()
		return
	}
	h.conns[c] = struct{}{}
	total := len(h.conns)
	h.connsMu.Unlock()

	h.logger.Debug("websocket client connected",
		"event", "ws_client_connected",
		"module", module,
		"remote_addr", r.RemoteAddr,
		"clients", total,
	)

	go h.writeLoop(c)
	go h.readLoop(c)
}

// readLoop drains the connection until it fails, then unregisters it.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed",
					"event", "ws_read_failed",
					"module", module,
					"error", err.Error(),
				)
			}
			return
		}
	}
}

// writeLoop sends queued frames and keep-alive pings. A failed write
// disconnects the client.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(messageType int, data []byte) bool {
		_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.conn.WriteMessage(messageType, data); err != nil {
			h.logger.Debug("websocket write failed, dropping client",
				"event", "ws_write_failed",
				"module", module,
				"error", err.Error(),
			)
			h.drop(c)
			return false
		}
		return true
	}

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if !write(websocket.TextMessage, msg) {
				return
			}
		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	h.connsMu.Lock()
	delete(h.conns, c)
	h.connsMu.Unlock()
	c.stop()
}

// Broadcast implements messaging.Transport. It only queues the frame for
// each subscriber; a subscriber whose queue is full misses the event.
func (h *Hub) Broadcast(ctx context.Context, event string, payload []byte) error {
	msg, err := json.Marshal(frame{Event: event, Data: payload})
	if err != nil {
		return err
	}

	h.connsMu.RLock()
	targets := make([]*client, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.connsMu.RUnlock()

	for _, c := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping event for slow websocket client",
				"event", "ws_broadcast_drop",
				"module", module,
				"name", event,
				"remote_addr", c.conn.RemoteAddr().String(),
			)
		}
	}
	return nil
}

func (h *Hub) Connections() int {
	h.connsMu.RLock()
	defer h.connsMu.RUnlock()
	return len(h.conns)
}

// Close disconnects every subscriber and refuses new upgrades.
func (h *Hub) Close() {
	h.connsMu.Lock()
	h.closed = true
	conns := h.conns
	h.conns = make(map[*client]struct{})
	h.connsMu.Unlock()

	for c := range conns {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.stop()
	}
}
