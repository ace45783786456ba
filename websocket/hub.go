// websocket/hub.go
package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type wsHub struct {
	mutex   sync.Mutex
	clients map[*client]struct{}
}

var hub = &wsHub{clients: make(map[*client]struct{})}

// ServeWS upgrades the connection and keeps it subscribed to back-office
// events until the peer disconnects.
func ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	hub.mutex.Lock()
	hub.clients[c] = struct{}{}
	total := len(hub.clients)
	hub.mutex.Unlock()
	log.Printf("websocket client connected (%d total)", total)

	go c.writeLoop()
	go c.readLoop()
}

func (c *client) writeLoop() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readLoop drains the connection so pings/close frames are processed,
// and unregisters the client on error.
func (c *client) readLoop() {
	defer func() {
		hub.mutex.Lock()
		if _, ok := hub.clients[c]; ok {
			delete(hub.clients, c)
			close(c.send)
		}
		hub.mutex.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func broadcast(data []byte) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for c := range hub.clients {
		select {
		case c.send <- data:
		default:
			close(c.send)
			delete(hub.clients, c)
		}
	}
}
