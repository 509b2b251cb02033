package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Message is the standard message format exchanged over WebSocket.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins. Adjust this in production!
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// DraftSink receives the answer text currently typed for a session's
// open question. The timeout auto-submit uses the latest draft.
type DraftSink interface {
	SetDraft(sessionID, text string)
}

// Hub maps each assessment session to its single client connection and
// pushes question delivery, countdown ticks, and completion events.
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Client
	register   chan *Client
	unregister chan *Client
	drafts     DraftSink
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) SetDraftSink(sink DraftSink) {
	h.drafts = sink
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	done      chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		done:      make(chan struct{}),
	}
}

// Run listens on the register and unregister channels. One client per
// session: a reconnect replaces the previous connection.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if prev, ok := h.sessions[client.sessionID]; ok && prev != client {
				close(prev.send)
				close(prev.done)
			}
			h.sessions[client.sessionID] = client
			h.mu.Unlock()
			log.Printf("Client registered for session %s", client.sessionID)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.sessions[client.sessionID]; ok && current == client {
				delete(h.sessions, client.sessionID)
				close(client.send)
				close(client.done)
			}
			h.mu.Unlock()
			log.Printf("Client unregistered for session %s", client.sessionID)
		}
	}
}

// SendToSession marshals and queues a message for the session's client.
// A session with no connected client drops the message silently: the
// HTTP responses carry the same state.
func (h *Hub) SendToSession(sessionID, messageType string, data interface{}) {
	h.mu.RLock()
	client, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	msg := Message{Type: messageType, Data: data}
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling %s message for session %s: %v", messageType, sessionID, err)
		return
	}

	select {
	case client.send <- messageBytes:
	default:
		log.Printf("Send channel full for session %s; unregistering client", sessionID)
		h.unregister <- client
	}
}

// HandleWebSocket upgrades the HTTP connection and attaches it to the
// session from the route.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["sessionID"]
	if sessionID == "" {
		http.Error(w, "Missing session id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := NewClient(h, conn, sessionID)
	h.register <- client

	go client.writePump()
	go client.readPump()
}

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
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close for session %s: %v", c.sessionID, err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message for session %s: %v", c.sessionID, err)
		return
	}

	switch msg.Type {
	case "draft":
		if c.hub.drafts == nil {
			return
		}
		if data, ok := msg.Data.(map[string]interface{}); ok {
			if text, ok := data["text"].(string); ok {
				c.hub.drafts.SetDraft(c.sessionID, text)
			}
		}
	}
}

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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message for session %s: %v", c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
