package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"triviabattle/internal/cache"
	"triviabattle/internal/model"
)

var ErrRoomNotFound = errors.New("room not found")

const qrSize = 256

// RoomService reserves friends room codes
type RoomService struct {
	rooms     cache.RoomCache
	publicURL string
}

// NewRoomService creates a new room service
func NewRoomService(rooms cache.RoomCache, publicURL string) *RoomService {
	return &RoomService{
		rooms:     rooms,
		publicURL: publicURL,
	}
}

// CreateRoom reserves a fresh code bound to a new match id
func (s *RoomService) CreateRoom(ctx context.Context) (*model.RoomReservation, error) {
	matchID := uuid.New().String()
	for attempts := 0; attempts < 10; attempts++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}
		ok, err := s.rooms.Reserve(ctx, code, matchID)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve room: %w", err)
		}
		if ok {
			return s.reservation(code, matchID), nil
		}
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

// Resolve returns the reservation for code
func (s *RoomService) Resolve(ctx context.Context, code string) (*model.RoomReservation, error) {
	matchID, err := s.rooms.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if matchID == "" {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return s.reservation(code, matchID), nil
}

// QRCode renders the room's join link as a PNG
func (s *RoomService) QRCode(ctx context.Context, code string) ([]byte, error) {
	room, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(room.JoinURL, qrcode.Medium, qrSize)
}

func (s *RoomService) reservation(code, matchID string) *model.RoomReservation {
	return &model.RoomReservation{
		RoomCode: code,
		MatchID:  matchID,
		JoinURL:  fmt.Sprintf("%s/join/%s", s.publicURL, code),
	}
}

// generateRoomCode creates a 6-char code without ambiguous characters
func generateRoomCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	b := make([]byte, codeLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := make([]byte, codeLen)
	for i := range code {
		code[i] = chars[int(b[i])%len(chars)]
	}
	return string(code), nil
}
