package live

import "sync"

// Client is one websocket connection owned by a user. A user may be
// connected from several devices at once.
type Client struct {
	Send   chan []byte
	UserID string
}

type pushMsg struct {
	UserID string
	Data   []byte
}

// Hub fans server-side events (new message, notification) out to the
// owning user's open connections. Push-only: clients never send domain
// actions over the socket, all writes go through the HTTP API.
type Hub struct {
	users      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	push       chan pushMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan pushMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for _, conns := range h.users {
				for c := range conns {
					close(c.Send)
				}
			}
			h.users = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.users[c.UserID] == nil {
				h.users[c.UserID] = make(map[*Client]bool)
			}
			h.users[c.UserID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.users[c.UserID]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
				if len(conns) == 0 {
					delete(h.users, c.UserID)
				}
			}
			h.mu.Unlock()

		case m := <-h.push:
			h.mu.Lock()
			for c := range h.users[m.UserID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.users[m.UserID], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// PushToUser delivers payload to every open connection of userID.
// No-op when the user is not connected.
func (h *Hub) PushToUser(userID string, payload []byte) {
	select {
	case h.push <- pushMsg{UserID: userID, Data: payload}:
	case <-h.done:
	}
}
