package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client is one connected board session. SessionID is unique per connection
// and stamps every mutation this session issues, so its own events are not
// echoed back to it.
type Client struct {
	SessionID string
	UserID    int64
	BoardID   string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub  *Hub
	Room *Room
	Done chan struct{}
}

func NewClient(sessionID string, userID int64, conn *websocket.Conn, hub *Hub, room *Room) *Client {
	return &Client{
		SessionID: sessionID,
		UserID:    userID,
		BoardID:   room.BoardID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       hub,
		Room:      room,
		Done:      make(chan struct{}),
	}
}

func (c *Client) Run() {
	go c.writePump()

	// handshake so clients can wait for the pumps before sending
	c.queue([]byte(`{"type":"ready"}`))

	c.Room.Register <- c

	c.readPump()
	<-c.Done
}

func (c *Client) queue(msg []byte) {
	select {
	case c.Send <- msg:
	case <-time.After(500 * time.Millisecond):
		log.Printf("Client.queue: session=%s send buffer full, dropping", c.SessionID)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client.readPump: session=%s read error: %v", c.SessionID, err)
			}
			break
		}
		c.Room.HandleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: session=%s write error: %v", c.SessionID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) disconnect() {
	c.Hub.OnDisconnect(c)
	_ = c.Conn.Close()
}
