package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"datefinder/backend/internal/relationship"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is one open event stream. The SSE handler reads from it until it is
// closed by Unsubscribe.
type Client chan []byte

// clientBuffer is how many undelivered events a client may queue.
const clientBuffer = 16

// NewClient returns a buffered Client.
func NewClient() Client {
	return make(Client, clientBuffer)
}

// Hub fans events out to every open stream of a user.
type Hub struct {
	users map[uint]map[Client]bool
	mu    sync.RWMutex
	log   *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		users: make(map[uint]map[Client]bool),
		log:   log,
	}
}

// Subscribe registers client for userID's events.
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
}

// Unsubscribe removes client and closes it.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Connected reports how many streams userID has open.
func (h *Hub) Connected(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// SendToUser delivers event to every stream of userID.
func (h *Hub) SendToUser(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[userID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}

	for client := range clients {
		// Non-blocking: a slow client drops events rather than stalling the hub.
		select {
		case client <- messageBytes:
		default:
			h.log.Warn("dropped event for slow client", "user", userID, "type", event.Type)
		}
	}
}

// Notify implements relationship.Notifier.
func (h *Hub) Notify(_ context.Context, ev relationship.Event) {
	h.SendToUser(ev.UserID, Event{Type: string(ev.Type), Payload: ev.Payload})
}
