package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"triviabattle/internal/game"
	"triviabattle/internal/model"
	"triviabattle/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// TokenValidator resolves a channel token to an identity
type TokenValidator interface {
	ValidateToken(token string) (*model.PlayerClaims, error)
}

// Dispatcher receives decoded client events
type Dispatcher interface {
	Submit(identity string, ev protocol.ClientEvent)
}

// Handler handles WebSocket connections
type Handler struct {
	hub        *Hub
	auth       TokenValidator
	dispatcher Dispatcher
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, auth TokenValidator, dispatcher Dispatcher) *Handler {
	return &Handler{
		hub:        hub,
		auth:       auth,
		dispatcher: dispatcher,
	}
}

// GameWS handles GET /v1/ws?token=...
func (h *Handler) GameWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Hub] WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		PlayerID: claims.PlayerID,
		Username: claims.Username,
		Send:     make(chan []byte, 256),
		Hub:      h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Hub] WebSocket error for %s: %v", conn.PlayerID, err)
			}
			return
		}
		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.reject(conn, fmt.Errorf("%w: %v", protocol.ErrMalformed, err))
			continue
		}
		h.handle(conn, &msg)
	}
}

func (h *Handler) handle(conn *Connection, msg *protocol.Message) {
	ev, err := protocol.Decode(msg)
	if err != nil {
		h.reject(conn, err)
		return
	}
	h.dispatcher.Submit(conn.PlayerID, ev)
}

// reject reports a malformed frame to the sender as InvalidState
func (h *Handler) reject(conn *Connection, err error) {
	log.Printf("[Hub] malformed event from %s: %v", conn.PlayerID, err)
	h.hub.Send(conn.PlayerID, protocol.MsgError, protocol.ErrorPayload{
		Message: err.Error(),
		Kind:    string(game.KindInvalidState),
	})
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
