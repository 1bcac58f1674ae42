package game

import (
	"time"

	"triviabattle/internal/model"
)

const (
	maxPoints      = 1000
	minPoints      = 100
	xpDivisor      = 10
	coinsPerAnswer = 5
)

// IsCorrect compares a submitted option with the slot's correct option.
// A negative option is a time-expired submission and never correct.
func IsCorrect(optionIndex, correctIndex int) bool {
	return optionIndex >= 0 && optionIndex == correctIndex
}

// Score returns the points for one answer. elapsedMs is clamped to
// [0, timeLimit] before evaluation.
func Score(isCorrect bool, elapsedMs int64, timeLimit time.Duration) int {
	if !isCorrect {
		return 0
	}
	elapsed := clampElapsed(elapsedMs, timeLimit)
	points := maxPoints - int(elapsed)
	if points < minPoints {
		return minPoints
	}
	return points
}

func clampElapsed(elapsedMs int64, timeLimit time.Duration) int64 {
	if elapsedMs < 0 {
		return 0
	}
	if limit := timeLimit.Milliseconds(); limit > 0 && elapsedMs > limit {
		return limit
	}
	return elapsedMs
}

// RewardsFor computes the completion rewards handed to the profile store
func RewardsFor(p *model.MatchPlayer) model.Rewards {
	return model.Rewards{
		PlayerID:    p.ID,
		Experience:  p.Score / xpDivisor,
		CoinsGained: p.CorrectAnswers * coinsPerAnswer,
	}
}

// SettlementFor builds the profile delta for a player leaving a match.
// completed is false for an early leave, which forfeits the coin bonus.
func SettlementFor(p *model.MatchPlayer, completed bool) model.ProfileDelta {
	r := RewardsFor(p)
	delta := model.ProfileDelta{
		Experience:     r.Experience,
		Coins:          p.Coins - p.StartingCoins,
		CorrectAnswers: p.CorrectAnswers,
		Completed:      completed,
	}
	if completed {
		delta.Coins += r.CoinsGained
	}
	return delta
}
