package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Admins never send anything but control frames.
	maxInboundSize = 512
	sendBuffer     = 256
)

// Client is one admin progress connection.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	AdminID uuid.UUID

	// Encoded events, one websocket frame each.
	Send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, adminID uuid.UUID) *Client {
	return &Client{Hub: hub, Conn: conn, AdminID: adminID, Send: make(chan []byte, sendBuffer)}
}

// drain discards inbound frames so pong handling keeps the read deadline moving.
func (c *Client) drain() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxInboundSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Progress connection closed unexpectedly", map[string]interface{}{"admin_id": c.AdminID, "error": err.Error()})
			}
			return
		}
	}
}

// push writes queued events until the hub closes Send or a write fails.
func (c *Client) push() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
