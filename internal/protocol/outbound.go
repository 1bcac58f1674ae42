package protocol

import "triviabattle/internal/model"

// GameUpdate carries the current roster
type GameUpdate struct {
	MatchID string              `json:"matchId"`
	Status  model.Phase         `json:"status"`
	Players []model.MatchPlayer `json:"players"`
}

// AnswerSubmitted is broadcast after every scored answer
type AnswerSubmitted struct {
	PlayerID  string `json:"playerId"`
	IsCorrect bool   `json:"isCorrect"`
	Score     int    `json:"score"`
}

// AttackReceived goes to the target only
type AttackReceived struct {
	Kind         model.AttackKind `json:"type"`
	AttackerName string           `json:"attacker"`
	DurationMs   int64            `json:"durationMs"`
}

// AttackUsed is broadcast without effect parameters
type AttackUsed struct {
	AttackerID string           `json:"attackerId"`
	TargetID   string           `json:"targetId"`
	Kind       model.AttackKind `json:"attackType"`
}

// PlayerLeft is broadcast to the remaining players
type PlayerLeft struct {
	PlayerID string              `json:"playerId"`
	Players  []model.MatchPlayer `json:"players"`
}

// ErrorPayload goes to the originating sender only
type ErrorPayload struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}
