package ws

import (
	"context"
	"encoding/json"
	"sync"

	"mediavault/pkg/logger"
)

// FileEvent notifies a user's open sessions that one of their files
// changed processing state. The UI uses it to swap the placeholder for
// the player without refetching.
type FileEvent struct {
	Event         string `json:"event"` // "file.ready" or "file.errored"
	FileID        string `json:"fileId"`
	MuxStatus     string `json:"muxStatus"`
	MuxPlaybackID string `json:"muxPlaybackId,omitempty"`
	MuxThumbnail  string `json:"muxThumbnail,omitempty"`
}

// Hub fans file events out to the owning user's connected clients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{} // userID -> clients

	register   chan *Client
	unregister chan *Client
	logger     *logger.Logger
}

func NewHub(l *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		logger:     l,
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast delivers an event to every connection the user has open.
// Slow clients are skipped rather than blocking the sender.
func (h *Hub) Broadcast(userID string, event FileEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorf("ws: marshaling event: %s", err)
		}
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]struct{})
	}
	h.clients[client.UserID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[client.UserID]
	if set == nil {
		return
	}
	if _, ok := set[client]; ok {
		delete(set, client)
		close(client.Send)
		if len(set) == 0 {
			delete(h.clients, client.UserID)
		}
	}
}
