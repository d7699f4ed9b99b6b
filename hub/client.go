// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"sync"

	"github.com/gorilla/websocket"
)

// websocketClient serializes writes; gorilla connections allow only one
// concurrent writer and the handler writes the initial tally while Run may
// be broadcasting.
type websocketClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewWebsocketClient wraps a gorilla/websocket connection
func NewWebsocketClient(conn *websocket.Conn) Client {
	return &websocketClient{conn: conn}
}

func (c *websocketClient) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *websocketClient) ReadMessage() (int, []byte, error) {
	return c.conn.ReadMessage()
}

func (c *websocketClient) Close() error {
	return c.conn.Close()
}
