package ws

import (
	"encoding/json"
	"sync"

	"watchlist/internal/logger"
	"watchlist/internal/models"
)

// Client is one change-feed connection of a user.
type Client struct {
	UserID uint
	Send   chan []byte
	hub    *Hub
	mu     sync.Mutex
	closed bool
}

func NewClient(userID uint) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, 64)}
}

// Close unregisters the client and closes Send. Safe to call more than once.
func (c *Client) Close() {
	if c.hub != nil {
		c.hub.unregister(c)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// trySend queues data unless the client is closed or its buffer is full.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Hub fans favorite events out to every open connection of the owning user.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byUser: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
}

// Publish sends ev to userID's connections. Slow clients drop events rather than block writers.
func (h *Hub) Publish(userID uint, ev models.FavoriteEvent) {
	h.BroadcastToUser(userID, ev)
}

func (h *Hub) BroadcastToUser(userID uint, payload interface{}) {
	h.mu.RLock()
	m := h.byUser[userID]
	if len(m) == 0 {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(payload)
	if err != nil {
		logger.WithContext("ws", "broadcast").WithError(err).Error("marshal payload")
		return
	}
	for _, c := range clients {
		if !c.trySend(data) {
			logger.WithContext("ws", "broadcast").WithField("user_id", userID).Warn("client buffer full, event dropped")
		}
	}
}

// ClientCount returns the number of open connections, or of userID's connections when given.
func (h *Hub) ClientCount(userID ...uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(userID) > 0 {
		return len(h.byUser[userID[0]])
	}
	n := 0
	for _, m := range h.byUser {
		n += len(m)
	}
	return n
}
