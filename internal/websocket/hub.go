package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"activity-tracker-be/internal/pkg/logger"
	"activity-tracker-be/pkg/eventbus"
	"activity-tracker-be/pkg/events"
)

// Hub fans tracker events out to connected dashboard clients. It subscribes
// to the event bus; the tracker never knows the hub exists.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

// Run processes client registration. Blocks; call on its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Dashboard client connected", nil)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// Listen bridges the event bus into the hub until ctx is cancelled.
func (h *Hub) Listen(ctx context.Context, bus *eventbus.Bus) error {
	return bus.Subscribe(ctx, func(_ context.Context, event events.Event) error {
		h.broadcast(event)
		return nil
	})
}

func (h *Hub) broadcast(event events.Event) {
	data, err := json.Marshal(map[string]interface{}{
		"type":        event.EventType(),
		"payload":     event.Payload(),
		"occurred_at": event.Timestamp().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; drop it rather than block the fan-out.
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}
