package gui

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one connected display client. Writes are serialized through a
// mutex because broadcasts and the synchronization replay can race.
type Client struct {
	ID string

	mu        sync.Mutex
	conn      *websocket.Conn
	framework string
}

func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{ID: id, conn: conn}
}

// Send writes the message to this client as JSON.
func (c *Client) Send(msg interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Framework returns the display framework this client negotiated, or the
// empty string before negotiation.
func (c *Client) Framework() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framework
}

func (c *Client) setFramework(framework string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.framework = framework
}

func (c *Client) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
