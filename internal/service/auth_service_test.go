package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"triviabattle/internal/model"
)

func newTestAuth() (*AuthService, *memProfiles) {
	profiles := newMemProfiles()
	svc := NewAuthService(profiles, "test-secret", 100)
	svc.hashCost = bcrypt.MinCost
	return svc, profiles
}

func TestSignupAndLogin(t *testing.T) {
	svc, profiles := newTestAuth()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &model.SignupRequest{Username: "quizzer", Password: "hunter22", Avatar: "fox"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if resp.Token == "" || resp.PlayerID == "" {
		t.Fatalf("Signup returned empty token or id: %+v", resp)
	}
	stored, _ := profiles.GetByID(ctx, resp.PlayerID)
	if stored.Coins != 100 || stored.Level != 1 {
		t.Errorf("new profile coins/level = %d/%d, want 100/1", stored.Coins, stored.Level)
	}
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in clear text")
	}

	login, err := svc.Login(ctx, "quizzer", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.PlayerID != resp.PlayerID {
		t.Errorf("Login player = %s, want %s", login.PlayerID, resp.PlayerID)
	}

	if _, err := svc.Login(ctx, "quizzer", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.SignupRequest
		want error
	}{
		{"short username", model.SignupRequest{Username: "ab", Password: "secret1"}, ErrInvalidSignup},
		{"bad characters", model.SignupRequest{Username: "a b c", Password: "secret1"}, ErrInvalidSignup},
		{"short password", model.SignupRequest{Username: "player1", Password: "123"}, ErrInvalidSignup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if _, err := svc.Signup(ctx, &req); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := svc.Signup(ctx, &model.SignupRequest{Username: "taken", Password: "secret1"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, &model.SignupRequest{Username: "taken", Password: "secret1"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate signup: got %v, want ErrUsernameTaken", err)
	}
}

func TestValidateToken(t *testing.T) {
	svc, _ := newTestAuth()

	token, err := svc.GenerateToken("p-1", "quizzer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.PlayerID != "p-1" || claims.Username != "quizzer" {
		t.Errorf("claims = %+v", claims)
	}

	other := NewAuthService(newMemProfiles(), "other-secret", 0)
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret: got %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}
}
