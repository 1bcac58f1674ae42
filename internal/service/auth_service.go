package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"triviabattle/internal/model"
	"triviabattle/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidSignup      = errors.New("invalid signup")
)

const tokenTTL = 7 * 24 * time.Hour

// AuthService handles player signup, login and channel tokens
type AuthService struct {
	profiles   repository.ProfileRepo
	jwtSecret  []byte
	startCoins int
	hashCost   int
}

// NewAuthService creates a new auth service
func NewAuthService(profiles repository.ProfileRepo, secret string, startCoins int) *AuthService {
	return &AuthService{
		profiles:   profiles,
		jwtSecret:  []byte(secret),
		startCoins: startCoins,
		hashCost:   bcrypt.DefaultCost,
	}
}

// Signup creates a profile and returns a token for it
func (s *AuthService) Signup(ctx context.Context, req *model.SignupRequest) (*model.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Avatar:       req.Avatar,
		Level:        1,
		Coins:        s.startCoins,
		PasswordHash: string(hash),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.issue(profile)
}

func validateSignup(req *model.SignupRequest) error {
	if n := len(req.Username); n < 3 || n > 20 {
		return fmt.Errorf("%w: username must be 3-20 characters", ErrInvalidSignup)
	}
	for _, r := range req.Username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("%w: username may only contain letters, digits and _", ErrInvalidSignup)
		}
	}
	if len(req.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidSignup)
	}
	return nil
}

// Login validates credentials and returns a token
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	profile, err := s.profiles.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(profile)
}

func (s *AuthService) issue(profile *model.Profile) (*model.LoginResponse, error) {
	token, err := s.GenerateToken(profile.ID, profile.Username)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{
		Token:    token,
		PlayerID: profile.ID,
		Profile:  profile,
	}, nil
}

// GenerateToken signs a channel token for a player
func (s *AuthService) GenerateToken(playerID, username string) (string, error) {
	now := time.Now()
	claims := &model.PlayerClaims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a player JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok || !token.Valid || claims.PlayerID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
