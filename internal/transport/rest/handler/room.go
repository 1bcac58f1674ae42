package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"triviabattle/internal/cache"
	"triviabattle/internal/model"
	"triviabattle/internal/service"
)

// Rooms is the friends-room surface of the room service
type Rooms interface {
	CreateRoom(ctx context.Context) (*model.RoomReservation, error)
	Resolve(ctx context.Context, code string) (*model.RoomReservation, error)
	QRCode(ctx context.Context, code string) ([]byte, error)
}

// RoomHandler handles room and leaderboard endpoints
type RoomHandler struct {
	roomSvc     Rooms
	leaderboard cache.LeaderboardCache
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomSvc Rooms, leaderboard cache.LeaderboardCache) *RoomHandler {
	return &RoomHandler{
		roomSvc:     roomSvc,
		leaderboard: leaderboard,
	}
}

// Create handles POST /v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.CreateRoom(r.Context())
	if err != nil {
		log.Printf("[Room] create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// Get handles GET /v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])
	room, err := h.roomSvc.Resolve(r.Context(), code)
	if err != nil {
		h.roomError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// QR handles GET /v1/rooms/{code}/qr
func (h *RoomHandler) QR(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])
	png, err := h.roomSvc.QRCode(r.Context(), code)
	if err != nil {
		h.roomError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *RoomHandler) roomError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	log.Printf("[Room] lookup failed: %v", err)
	writeError(w, http.StatusInternalServerError, "failed to load room")
}

// Leaderboard handles GET /v1/leaderboard?top=N
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if l := r.URL.Query().Get("top"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.leaderboard.GetTop(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
