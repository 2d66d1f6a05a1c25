package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
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

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		// Same-origin only; the remote page is served by this server.
		host := strings.TrimSpace(r.Host)
		return strings.Contains(origin, "://"+host)
	},
}

type outbound struct {
	c    *client
	data []byte
}

type client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans deck events out to every connected remote and feeds their commands back.
type Hub struct {
	clients map[*client]bool

	broadcast  chan []byte
	direct     chan outbound
	register   chan *client
	unregister chan *client
	done       chan struct{}

	// welcome produces the first message a new client receives.
	welcome   func() []byte
	onCommand func(Command) error

	log logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger, welcome func() []byte, onCommand func(Command) error) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan outbound),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		welcome:    welcome,
		onCommand:  onCommand,
		log:        log,
	}
}

// Run owns the client set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.WithField("client", c.id).WithField("clients", len(h.clients)).Info("remote connected")
			if h.welcome != nil {
				if msg := h.welcome(); msg != nil {
					h.deliver(c, msg)
				}
			}
		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				h.log.WithField("client", c.id).WithField("clients", len(h.clients)).Info("remote disconnected")
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
		case o := <-h.direct:
			if h.clients[o.c] {
				h.deliver(o.c, o.data)
			}
		}
	}
}

// Broadcast queues msg for every client. It never blocks the caller; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.WithError(err).Error("marshal broadcast")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("remote broadcast queue full; dropping event")
	}
}

func (h *Hub) deliver(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Slow client.
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithField("client", c.id).WithError(err).Warn("websocket read")
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.reply(errorMessage{Type: "error", Error: "invalid command: " + err.Error()})
			continue
		}
		if c.hub.onCommand == nil {
			continue
		}
		if err := c.hub.onCommand(cmd); err != nil {
			c.reply(errorMessage{Type: "error", Error: err.Error()})
		}
	}
}

// reply sends to this client only, through the hub so the send channel has one owner.
func (c *client) reply(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.hub.direct <- outbound{c: c, data: data}:
	case <-c.hub.done:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
