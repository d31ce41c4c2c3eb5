package server

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/hangry/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// CommandRequest is a command sent by a client.
type CommandRequest struct {
	Verb   string `json:"verb"`
	Fish   uint32 `json:"fish,omitempty"`
	Target uint32 `json:"target,omitempty"`
}

// Command converts the request to a session command.
func (r CommandRequest) Command() game.Command {
	return game.Command{Verb: game.Verb(r.Verb), Fish: r.Fish, Target: r.Target}
}

// Client is one websocket connection. send is owned by the hub; replies
// is owned by the client and never closed.
type Client struct {
	hub     *Hub
	loop    *Loop
	conn    *websocket.Conn
	send    chan []byte
	replies chan []byte
}

func NewClient(hub *Hub, loop *Loop, conn *websocket.Conn) *Client {
	return &Client{
		hub:     hub,
		loop:    loop,
		conn:    conn,
		send:    make(chan []byte, 256),
		replies: make(chan []byte, 16),
	}
}

// Register adds the client to the hub. It reports false if the hub has stopped.
func (c *Client) Register() bool {
	select {
	case c.hub.register <- c:
		return true
	case <-c.hub.done:
		return false
	}
}

// ReadPump reads commands from the connection and answers each with a reply.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req CommandRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.reply(Reply{Error: "invalid command: " + err.Error()})
			continue
		}
		msg, err := c.loop.Apply(req.Command())
		if err != nil {
			c.reply(Reply{Error: err.Error()})
			continue
		}
		c.reply(Reply{OK: true, Message: msg})
	}
}

func (c *Client) reply(r Reply) {
	payload, err := json.Marshal(Message{Type: "reply", Reply: &r})
	if err != nil {
		slog.Error("failed to encode reply", "error", err)
		return
	}
	select {
	case c.replies <- payload:
	default:
		slog.Warn("client send buffer full, dropping reply")
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case message := <-c.replies:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
