package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection and blocks until the peer goes away.
func ServeWs(hub *Hub, conn *websocket.Conn, adminID uuid.UUID) {
	client := newClient(hub, conn, adminID)
	hub.register <- client

	go client.push()
	client.drain()
}
