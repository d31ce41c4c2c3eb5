package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pthm-cable/hangry/game"
	"github.com/pthm-cable/hangry/telemetry"
)

// Message is the envelope for everything sent to websocket clients.
type Message struct {
	Type   string           `json:"type"` // event, reply, status
	Event  *telemetry.Event `json:"event,omitempty"`
	Reply  *Reply           `json:"reply,omitempty"`
	Status *game.Status     `json:"status,omitempty"`
}

// Reply answers one client command.
type Reply struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run handles registration and fan-out until ctx is cancelled. On exit
// every client send channel is closed.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("websocket hub shutting down", "clients", len(h.clients))
			return
		case c := <-h.register:
			h.clients[c] = true
			slog.Info("websocket client connected", "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				slog.Info("websocket client disconnected", "clients", len(h.clients))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.Warn("dropping slow websocket client")
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// Broadcast queues m for every client. It never blocks the session loop;
// when the queue is full the message is dropped.
func (h *Hub) Broadcast(m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		slog.Error("failed to encode broadcast", "type", m.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	default:
		slog.Warn("broadcast queue full, dropping message", "type", m.Type)
	}
}

// BroadcastEvent is a game.EventHandler that forwards session events.
func (h *Hub) BroadcastEvent(ev telemetry.Event) {
	h.Broadcast(Message{Type: "event", Event: &ev})
}
