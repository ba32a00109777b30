package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024

	// Per-client outbound queue. A full queue turns Send into an error
	// instead of blocking a poller.
	sendBufferSize = 256
)

// -----------------------------------------------------------------------------
// Client Structure
// -----------------------------------------------------------------------------

// Client is one websocket connection. It implements interfaces.ISubscriber:
// the registry holds it, the pollers call Send on it.
type Client struct {
	id   string
	hub  *Server
	conn *websocket.Conn
	send chan interface{}

	mu     sync.Mutex
	closed bool
}

// -----------------------------------------------------------------------------

func newClient(hub *Server, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan interface{}, sendBufferSize),
	}
}

// -----------------------------------------------------------------------------

// ID returns the connection's identifier for log correlation.
func (c *Client) ID() string {
	return c.id
}

// -----------------------------------------------------------------------------

// Send queues a message without blocking. It fails once the connection is
// closed or when the client cannot drain its queue; a slow consumer is the
// caller's signal, the lifecycle's problem.
func (c *Client) Send(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client %s: connection closed", c.id)
	}

	select {
	case c.send <- message:
		return nil
	default:
		return fmt.Errorf("client %s: send buffer full", c.id)
	}
}

// -----------------------------------------------------------------------------

// closeSend marks the client closed and releases the write pump. Safe to
// call more than once.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// -----------------------------------------------------------------------------
// readPump - handles incoming messages from the client.
// Acts as the watchdog for the connection.
// -----------------------------------------------------------------------------

func (c *Client) readPump() {
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
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.Logger.Error("Client %s websocket error: %v", c.id, err)
			}
			break
		}
		c.hub.handleClientMessage(c, message)
	}
}

// -----------------------------------------------------------------------------
// writePump - sends messages to the client.
// -----------------------------------------------------------------------------

func (c *Client) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.hub.Logger.Error("Client %s write error: %v", c.id, err)
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
