package ws

import (
	"encoding/json"
	"log"
	"sync"

	"triviabattle/internal/protocol"
)

// Hub tracks one live connection per player identity and delivers
// outbound events to it. A newer connection for the same identity
// replaces the older one.
type Hub struct {
	conns map[string]*Connection

	mu           sync.RWMutex
	onDisconnect func(playerID string)

	register   chan *Connection
	unregister chan *Connection
	outbound   chan *outboundMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	PlayerID string
	Username string
	Send     chan []byte
	Hub      *Hub
}

type outboundMessage struct {
	PlayerID string
	Data     []byte
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		outbound:   make(chan *outboundMessage, 1024),
	}
	go h.run()
	return h
}

// SetDisconnectHandler sets the callback fired when an identity's
// current connection closes
func (h *Hub) SetDisconnectHandler(fn func(playerID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDisconnect = fn
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if old, ok := h.conns[conn.PlayerID]; ok && old != conn {
				close(old.Send)
				log.Printf("[Hub] player %s reconnected, replacing old connection", conn.PlayerID)
			}
			h.conns[conn.PlayerID] = conn
			h.mu.Unlock()
			log.Printf("[Hub] player %s connected", conn.PlayerID)

		case conn := <-h.unregister:
			h.mu.Lock()
			current, ok := h.conns[conn.PlayerID]
			if ok && current == conn {
				delete(h.conns, conn.PlayerID)
				close(conn.Send)
			}
			notify := h.onDisconnect
			h.mu.Unlock()
			if ok && current == conn {
				log.Printf("[Hub] player %s disconnected", conn.PlayerID)
				if notify != nil {
					go notify(conn.PlayerID)
				}
			}

		case msg := <-h.outbound:
			h.mu.RLock()
			if conn, ok := h.conns[msg.PlayerID]; ok {
				select {
				case conn.Send <- msg.Data:
				default:
					log.Printf("[Hub] send buffer full for %s, dropping message", msg.PlayerID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Send delivers one event to a player's current connection
func (h *Hub) Send(playerID string, msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		log.Printf("[Hub] marshal %s for %s: %v", msgType, playerID, err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Hub] marshal envelope for %s: %v", playerID, err)
		return
	}
	h.outbound <- &outboundMessage{PlayerID: playerID, Data: data}
}

// Connected reports the number of live connections
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
