package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"triviabattle/internal/app"
	"triviabattle/internal/config"
	"triviabattle/internal/game"
	"triviabattle/internal/service"
	"triviabattle/internal/transport/rest"
	"triviabattle/internal/transport/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open backing stores:", err)
	}
	defer a.Close(context.Background())

	// Initialize services
	authSvc := service.NewAuthService(a.ProfileRepo, cfg.JWTSecret, cfg.StartCurrency)
	profileSvc := service.NewProfileService(a.ProfileRepo, a.MatchRepo)
	matchSvc := service.NewMatchService(a.MatchRepo, a.ResultCache)
	roomSvc := service.NewRoomService(a.RoomCache, cfg.PublicURL)
	recorder := service.NewRecorderService(
		a.AnswerRepo, a.AttackRepo, a.MatchRepo, a.ProfileRepo,
		a.ResultCache, a.Leaderboard, a.Publisher,
	)

	// Initialize WebSocket hub and the match coordinator it feeds
	wsHub := ws.NewHub()
	coord := game.NewCoordinator(cfg.Game, a.QuestionRepo, profileSvc, recorder, wsHub)
	wsHub.SetDisconnectHandler(coord.Disconnect)
	go coord.Run(ctx)
	log.Println("Match coordinator started")

	container := &rest.Container{
		AuthService:    authSvc,
		ProfileService: profileSvc,
		MatchService:   matchSvc,
		RoomService:    roomSvc,
		Leaderboard:    a.Leaderboard,
		WSHub:          wsHub,
		WSHandler:      ws.NewHandler(wsHub, authSvc, coord),
		Matches:        coord,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/signup")
		log.Println("  POST /v1/auth/login")
		log.Println("  GET  /v1/me")
		log.Println("  GET  /v1/me/matches")
		log.Println("  GET  /v1/leaderboard")
		log.Println("  POST /v1/rooms")
		log.Println("  GET  /v1/rooms/{code}")
		log.Println("  GET  /v1/rooms/{code}/qr")
		log.Println("  GET  /v1/matches/{id}/result")
		log.Println("  WS   /v1/ws")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Server forced to shutdown:", err)
	}

	// Stop the dispatch loop and let in-flight writes finish
	cancel()
	<-coord.Done()
	coord.Wait()

	log.Println("Server exited")
}
