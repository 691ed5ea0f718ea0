package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when sending to a closed or saturated client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface is the hub's view of a connected session
type ClientInterface interface {
	ID() string
	WorkspaceID() int32
	Send(data []byte) error
	Close() error
}

// Hub tracks live sessions per workspace. It is safe for concurrent use.
type Hub struct {
	workspaces map[int32]map[string]ClientInterface
	mu         sync.RWMutex
	logger     zerolog.Logger

	// onCount is called with the total session count after every change
	onCount func(total int)
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithLogger sets the hub's logger
func WithLogger(logger zerolog.Logger) HubOption {
	return func(h *Hub) { h.logger = logger.With().Str("component", "websocket_hub").Logger() }
}

// WithClientCountObserver registers a callback for session count changes
func WithClientCountObserver(fn func(total int)) HubOption {
	return func(h *Hub) { h.onCount = fn }
}

// NewHub creates a Hub
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		workspaces: make(map[int32]map[string]ClientInterface),
		logger:     log.Logger.With().Str("component", "websocket_hub").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a client under its workspace
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	workspaceID := client.WorkspaceID()
	if h.workspaces[workspaceID] == nil {
		h.workspaces[workspaceID] = make(map[string]ClientInterface)
	}
	h.workspaces[workspaceID][client.ID()] = client
	total := h.totalLocked()
	h.mu.Unlock()

	h.notify(total)
	h.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client registered")
}

// Unregister removes a client; unknown clients are ignored
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	workspaceID := client.WorkspaceID()
	clients, ok := h.workspaces[workspaceID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		h.mu.Unlock()
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.workspaces, workspaceID)
	}
	total := h.totalLocked()
	h.mu.Unlock()

	h.notify(total)
	h.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("client_id", client.ID()).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to every client of a workspace
func (h *Hub) Broadcast(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		h.logger.Error().
			Err(err).
			Int32("workspace_id", workspaceID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	targets := make([]ClientInterface, 0, len(h.workspaces[workspaceID]))
	for _, client := range h.workspaces[workspaceID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	// Sends never block the caller; a slow client only loses its own messages
	for _, client := range targets {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				h.logger.Warn().
					Err(err).
					Int32("workspace_id", workspaceID).
					Str("client_id", c.ID()).
					Msg("Failed to send to client")
			}
		}(client)
	}

	h.logger.Debug().
		Int32("workspace_id", workspaceID).
		Str("event_type", event.Type).
		Int("client_count", len(targets)).
		Msg("Broadcast event")
}

// ClientCount returns the number of sessions of a workspace
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.workspaces[workspaceID])
}

// TotalClientCount returns the number of sessions across all workspaces
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalLocked()
}

// CloseAll disconnects every session, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	var clients []ClientInterface
	for _, byID := range h.workspaces {
		for _, c := range byID {
			clients = append(clients, c)
		}
	}
	h.workspaces = make(map[int32]map[string]ClientInterface)
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
	h.notify(0)
	h.logger.Info().Int("client_count", len(clients)).Msg("Closed all WebSocket clients")
}

func (h *Hub) totalLocked() int {
	total := 0
	for _, clients := range h.workspaces {
		total += len(clients)
	}
	return total
}

func (h *Hub) notify(total int) {
	if h.onCount != nil {
		h.onCount(total)
	}
}
