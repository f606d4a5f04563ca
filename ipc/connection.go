package ipc

import (
	"log/slog"

	"github.com/gorilla/websocket"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single game server session talking to the
// controller over one websocket.
type Connection struct {
	conn     *websocket.Conn
	handlers map[string]Handler
}

func NewConnection(conn *websocket.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{conn: conn, handlers: handlers}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(env)
}

// ReadLoop blocks until the connection closes or errors. It owns the conn
// lifetime so callers don't need to track cleanup. Handler errors are
// logged and the loop continues: one bad frame must not end the match.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			slog.Info("connection read ended", "error", err)
			return
		}

		env, err := DecodeEnvelope(frame)
		if err != nil {
			slog.Warn("bad frame", "error", err)
			continue
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if resp != nil {
			if err := c.conn.WriteJSON(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
		}
	}
}
