package realtime

import (
	"encoding/json"
	"log"
)

// Event is the wire format pushed to connected clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type envelope struct {
	userID  uint64
	payload []byte
}

// Hub tracks connected clients per user and delivers events to every open
// connection a user has. All state is owned by the Run goroutine.
type Hub struct {
	clients    map[uint64]map[*Client]bool
	deliver    chan envelope
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint64]map[*Client]bool),
		deliver:    make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PushToUser delivers event to every open connection of userID. Users with no
// connections simply miss the event; persistent state lives in the database.
func (h *Hub) PushToUser(userID uint64, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal event: %v", err)
		return
	}

	select {
	case h.deliver <- envelope{userID: userID, payload: payload}:
	default:
		log.Printf("realtime: delivery queue full, dropping event for user %d", userID)
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			conns := h.clients[client.userID]
			if conns == nil {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true

		case client := <-h.unregister:
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}

		case env := <-h.deliver:
			for client := range h.clients[env.userID] {
				select {
				case client.send <- env.payload:
				default:
					// Send buffer full, assume the connection is gone
					close(client.send)
					delete(h.clients[env.userID], client)
				}
			}
		}
	}
}
