package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"

	"memora/utils"
)

// Event types published on the change feed.
const (
	NoteCreated   = "note_created"
	NoteUpdated   = "note_updated"
	NoteDeleted   = "note_deleted"
	FolderCreated = "folder_created"
	FolderUpdated = "folder_updated"
	FolderDeleted = "folder_deleted"
)

// Event is one change-feed message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type client struct {
	conn   *websocket.Conn
	userID string
}

type userEvent struct {
	userID string
	event  Event
}

// Hub fans mutation events out to the owning user's open connections.
// All connection state is owned by the Run goroutine.
type Hub struct {
	clients    map[*websocket.Conn]string
	broadcast  chan userEvent
	register   chan *client
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

// NewHub creates a hub; call Run in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]string),
		broadcast:  make(chan userEvent, 256),
		register:   make(chan *client),
		unregister: make(chan *websocket.Conn),
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case cl := <-h.register:
			h.mu.Lock()
			h.clients[cl.conn] = cl.userID
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn, userID := range h.clients {
				if userID != msg.userID {
					continue
				}
				if err := conn.WriteJSON(msg.event); err != nil {
					utils.Log.Warn("websocket write failed: %v", err)
					go func(c *websocket.Conn) { h.unregister <- c }(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues an event for every connection of one user. It never
// blocks the mutation path: when the queue is full the event is dropped.
func (h *Hub) Publish(userID, eventType string, payload interface{}) {
	select {
	case h.broadcast <- userEvent{userID: userID, event: Event{Type: eventType, Payload: payload}}:
	default:
		utils.Log.Warn("change feed full, dropping %s event", eventType)
	}
}

// HandleConnection registers a connection and blocks reading it until
// it closes. Clients send nothing meaningful; the feed is one-way.
func (h *Hub) HandleConnection(userID string, conn *websocket.Conn) {
	h.register <- &client{conn: conn, userID: userID}
	defer func() { h.unregister <- conn }()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
