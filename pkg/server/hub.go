package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/cosmos/pkg/preview"
)

// client is one websocket connection watching a fixture.
type client struct {
	id      string
	fixture string
	conn    *websocket.Conn
	send    chan []byte
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

func newClient(id, fixture string, conn *websocket.Conn, buffer int, timeout time.Duration) *client {
	return &client{
		id:      id,
		fixture: fixture,
		conn:    conn,
		send:    make(chan []byte, buffer),
		timeout: timeout,
	}
}

// writeLoop is the only writer on the connection. It returns when send is
// closed or a write fails, closing the connection either way.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// trySend queues msg without blocking. It reports false when the queue is
// full; sends to a closed client are discarded.
func (c *client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// hub fans loader events out to the websocket clients of each fixture.
type hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[string]*client
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[string]map[string]*client),
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	byID := h.clients[c.fixture]
	if byID == nil {
		byID = make(map[string]*client)
		h.clients[c.fixture] = byID
	}
	byID[c.id] = c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	if byID := h.clients[c.fixture]; byID != nil {
		delete(byID, c.id)
		if len(byID) == 0 {
			delete(h.clients, c.fixture)
		}
	}
	h.mu.Unlock()
	c.close()
}

// count returns the number of clients watching fixture.
func (h *hub) count(fixture string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[fixture])
}

// send queues e for a single client.
func (h *hub) send(c *client, e preview.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("encode event", "error", err, "fixture", e.Fixture)
		return
	}
	h.deliver([]*client{c}, data)
}

// broadcast queues e for every client of fixture.
func (h *hub) broadcast(fixture string, e preview.Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[fixture]))
	for _, c := range h.clients[fixture] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("encode event", "error", err, "fixture", fixture)
		return
	}
	h.deliver(targets, data)
}

// deliver drops clients whose queue is full.
func (h *hub) deliver(targets []*client, data []byte) {
	for _, c := range targets {
		if !c.trySend(data) {
			h.logger.Warn("websocket client too slow, dropping", "client", c.id, "fixture", c.fixture)
			h.remove(c)
		}
	}
}

// closeAll disconnects every client.
func (h *hub) closeAll() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[string]map[string]*client)
	h.mu.Unlock()

	for _, byID := range all {
		for _, c := range byID {
			c.close()
		}
	}
}
