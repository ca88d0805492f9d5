package ws_session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/humanbelnik/kinoswap/duo/internal/model"
)

const (
	broadcastQueueSize = 256
	clientQueueSize    = 16
)

type sessionEvent struct {
	sessionID model.SessionID
	payload   []byte
}

// Hub groups websocket clients by session. A session is the notification
// scope: everything published for it reaches every client that joined it.
type Hub struct {
	logger     *slog.Logger
	clients    map[*Client]bool
	sessions   map[model.SessionID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan sessionEvent
	done       chan struct{}
	mu         sync.RWMutex
}

type HubOption func(*Hub)

func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		logger:     slog.Default(),
		clients:    make(map[*Client]bool),
		sessions:   make(map[model.SessionID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan sessionEvent, broadcastQueueSize),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case event := <-h.broadcast:
			h.broadcastToSession(event)
		}
	}
}

// Publish queues the match list for every client of the session. It never
// blocks; when the queue is full the update is dropped.
func (h *Hub) Publish(sessionID model.SessionID, matches []model.Candidate) {
	payload, err := json.Marshal(model.NewMatchesEvent(sessionID, matches))
	if err != nil {
		h.logger.Error("failed to encode matches event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return
	}

	select {
	case h.broadcast <- sessionEvent{sessionID: sessionID, payload: payload}:
	default:
		h.logger.Warn("broadcast queue full, dropping update",
			slog.String("session_id", sessionID),
		)
	}
}

// Join adds client to its session scope. It reports false once the hub
// has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribers reports how many clients currently watch the session.
func (h *Hub) Subscribers(sessionID model.SessionID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions[sessionID])
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, exists := h.sessions[client.sessionID]; !exists {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	h.logger.Info("client registered",
		slog.String("session_id", client.sessionID),
	)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.drop(client) {
		h.logger.Info("client unregistered",
			slog.String("session_id", client.sessionID),
		)
	}
}

func (h *Hub) broadcastToSession(event sessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.sessions[event.sessionID] {
		select {
		case client.send <- event.payload:
		default:
			h.logger.Warn("client too slow, disconnecting",
				slog.String("session_id", event.sessionID),
			)
			h.drop(client)
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(client *Client) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	close(client.send)

	if sessionClients, exists := h.sessions[client.sessionID]; exists {
		delete(sessionClients, client)
		if len(sessionClients) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	return true
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.drop(client)
	}
}
