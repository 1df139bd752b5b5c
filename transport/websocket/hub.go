// Package websocket broadcasts board events to the clients observing a
// match. The hub is the concrete implementation of the engine's Notifier
// boundary.
package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/frostpaw/icechase/game/engine"
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

	// Per-client outbound buffer.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development.
		return true
	},
}

// Message is the wire envelope: the match the event belongs to plus the
// board event itself.
type Message struct {
	MatchID string       `json:"match_id"`
	Event   engine.Event `json:"event"`
}

// Client is one websocket connection observing a match.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID string
}

// Hub maintains the set of active clients per match and fans board events
// out to them.
type Hub struct {
	// Registered clients by match ID.
	matches map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	log *logrus.Entry
}

// NewHub creates a websocket hub.
func NewHub() *Hub {
	return &Hub{
		matches:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        logrus.WithField("component", "ws-hub"),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades an HTTP request into a match-observing client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, matchID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		matchID: matchID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// NotifierFor returns the engine-facing Notifier for one match. Events are
// queued onto the hub loop; the board never blocks on a slow client.
func (h *Hub) NotifierFor(matchID string) engine.Notifier {
	return engine.NotifierFunc(func(ev engine.Event) {
		select {
		case h.broadcast <- &Message{MatchID: matchID, Event: ev}:
		default:
			h.log.WithField("match", matchID).Warn("hub broadcast queue full, dropping event")
		}
	})
}

// registerClient adds a client to a match.
func (h *Hub) registerClient(client *Client) {
	if h.matches[client.matchID] == nil {
		h.matches[client.matchID] = make(map[*Client]bool)
	}
	h.matches[client.matchID][client] = true

	h.log.WithFields(logrus.Fields{
		"match":   client.matchID,
		"clients": len(h.matches[client.matchID]),
	}).Info("client registered")
}

// unregisterClient removes a client from its match.
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.matches[client.matchID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.matches, client.matchID)
	}

	h.log.WithFields(logrus.Fields{
		"match":   client.matchID,
		"clients": len(clients),
	}).Info("client unregistered")
}

// broadcastMessage sends a message to every client observing the match. An
// event whose payload cannot be encoded is replaced with an error event, so
// observers learn they missed an update instead of silently losing it.
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal broadcast message")
		fallback := &Message{
			MatchID: message.MatchID,
			Event: engine.Event{
				Type:    engine.EventError,
				Payload: map[string]string{"message": "event encoding failed"},
			},
		}
		if data, err = json.Marshal(fallback); err != nil {
			return
		}
	}

	for client := range h.matches[message.MatchID] {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, drop it.
			h.unregisterClient(client)
		}
	}
}

// readPump drains the connection; inbound gameplay goes through the REST
// API, so reads only keep the connection and pong handling alive.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("websocket read error")
			}
			break
		}
	}
}

// writePump pumps hub messages to the connection and keeps it pinged.
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush queued messages into the same frame batch.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
