package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"triviabattle/internal/cache"
	"triviabattle/internal/service"
	"triviabattle/internal/transport/rest/handler"
	"triviabattle/internal/transport/rest/middleware"
	"triviabattle/internal/transport/ws"
)

// MatchCounter reports live matches for the health check
type MatchCounter interface {
	ActiveMatches(ctx context.Context) (int, error)
}

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	ProfileService *service.ProfileService
	MatchService   *service.MatchService
	RoomService    *service.RoomService
	Leaderboard    cache.LeaderboardCache
	WSHub          *ws.Hub
	WSHandler      *ws.Handler
	Matches        MatchCounter
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.RoomService, c.Leaderboard)
	profileHandler := handler.NewProfileHandler(c.ProfileService, c.MatchService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/leaderboard", roomHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/matches/{id}/result", profileHandler.MatchResult).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/qr", roomHandler.QR).Methods("GET", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws", c.WSHandler.GameWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", healthHandler(c)).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/me", profileHandler.Me).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/me/matches", profileHandler.History).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")

	return r
}

func healthHandler(c *Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		active, err := c.Matches.ActiveMatches(r.Context())
		if err != nil {
			writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unavailable",
			})
			return
		}
		writeHealth(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"matches":     active,
			"connections": c.WSHub.Connected(),
		})
	}
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
