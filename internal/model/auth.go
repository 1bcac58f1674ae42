package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims identifying the owner of a game channel
type PlayerClaims struct {
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignupRequest is the request body for account creation
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest is the request body for player login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful signup or login
type LoginResponse struct {
	Token    string   `json:"token"`
	PlayerID string   `json:"playerId"`
	Profile  *Profile `json:"profile"`
}
