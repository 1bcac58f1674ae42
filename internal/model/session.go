package model

import "time"

// Phase is the lifecycle stage of a match
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// MatchSnapshot is the public view of a session sent to clients.
// The current question never carries its correct option here.
type MatchSnapshot struct {
	MatchID         string          `json:"gameId" bson:"matchId"`
	Mode            Mode            `json:"mode" bson:"mode"`
	RoomCode        string          `json:"roomCode,omitempty" bson:"roomCode,omitempty"`
	Category        string          `json:"category" bson:"category"`
	Status          Phase           `json:"status" bson:"status"`
	Players         []MatchPlayer   `json:"players" bson:"players"`
	CurrentQuestion *PublicQuestion `json:"currentQuestion" bson:"currentQuestion,omitempty"`
	QuestionIndex   int             `json:"questionIndex" bson:"questionIndex"`
	TotalQuestions  int             `json:"totalQuestions" bson:"totalQuestions"`
	Capacity        int             `json:"maxPlayers" bson:"maxPlayers"`
	StartTime       *time.Time      `json:"startTime" bson:"startTime,omitempty"`
	Failed          bool            `json:"failed,omitempty" bson:"failed,omitempty"`
}
