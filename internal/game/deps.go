package game

import (
	"context"
	"time"

	"triviabattle/internal/model"
	"triviabattle/internal/protocol"
)

// QuestionProvider returns a random question for a category ("" means any)
// that is not in exclude.
type QuestionProvider interface {
	NextQuestion(ctx context.Context, category string, exclude []string) (*model.Question, error)
}

// ProfileStore loads durable player profiles
type ProfileStore interface {
	GetProfile(ctx context.Context, playerID string) (*model.Profile, error)
}

// Recorder persists everything a match produces
type Recorder interface {
	RecordAnswer(ctx context.Context, rec model.AnswerRecord) error
	RecordAttack(ctx context.Context, rec model.AttackRecord) error
	SettlePlayer(ctx context.Context, playerID string, delta model.ProfileDelta) error
	MatchStarted(ctx context.Context, snap model.MatchSnapshot) error
	RecordMatch(ctx context.Context, rec model.MatchRecord) error
}

// Outbound delivers one event to one identity's channel
type Outbound interface {
	Send(playerID string, msgType protocol.MessageType, payload interface{})
}

// Config holds the coordinator's timing and dependency knobs
type Config struct {
	AutoStartDelay        time.Duration
	QuestionCompleteDelay time.Duration
	QuestionTimeLimit     time.Duration
	QuestionGrace         time.Duration
	DefaultTotalQuestions int
	FriendsMinPlayers     int

	DependencyRetries int
	DependencyTimeout time.Duration
	RetryBackoff      time.Duration
}

// DefaultConfig returns the production timings
func DefaultConfig() Config {
	return Config{
		AutoStartDelay:        3 * time.Second,
		QuestionCompleteDelay: 2 * time.Second,
		QuestionTimeLimit:     10 * time.Second,
		QuestionGrace:         2 * time.Second,
		DefaultTotalQuestions: 10,
		FriendsMinPlayers:     model.FriendsMinCapacity,
		DependencyRetries:     3,
		DependencyTimeout:     5 * time.Second,
		RetryBackoff:          200 * time.Millisecond,
	}
}
