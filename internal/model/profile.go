package model

import "time"

// Profile is the durable player record
type Profile struct {
	ID           string     `json:"id" bson:"_id"`
	Username     string     `json:"username" bson:"username"`
	Avatar       string     `json:"avatar" bson:"avatar"`
	Level        int        `json:"level" bson:"level"`
	XP           int        `json:"xp" bson:"xp"`
	Coins        int        `json:"coins" bson:"coins"`
	Streak       int        `json:"streak" bson:"streak"`
	GamesPlayed  int        `json:"gamesPlayed" bson:"gamesPlayed"`
	TotalCorrect int        `json:"totalCorrect" bson:"totalCorrect"`
	PasswordHash string     `json:"-" bson:"passwordHash"`
	LastPlayedAt *time.Time `json:"lastPlayedAt,omitempty" bson:"lastPlayedAt,omitempty"`

	// Most recent settled match ids, oldest first
	SettledMatches []string  `json:"-" bson:"settledMatches"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProfileDelta is applied to a profile exactly once per match completion or early leave
type ProfileDelta struct {
	MatchID        string `json:"matchId"`
	Experience     int    `json:"experience"`
	Coins          int    `json:"coins"`
	CorrectAnswers int    `json:"correctAnswers"`
	Completed      bool   `json:"completed"`
}

// MaxSettledMatches bounds the settled match ids kept per profile
const MaxSettledMatches = 50

// XPPerLevel is the experience needed for each level step
const XPPerLevel = 100

// LevelFor derives the level from accumulated experience
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

// Apply folds a settlement delta into the profile. The balance never
// drops below zero and the level is re-derived from experience. A delta
// for a match already settled on this profile is skipped and Apply
// reports false.
func (p *Profile) Apply(d ProfileDelta, now time.Time) bool {
	if d.MatchID != "" {
		if p.Settled(d.MatchID) {
			return false
		}
		p.SettledMatches = append(p.SettledMatches, d.MatchID)
		if n := len(p.SettledMatches); n > MaxSettledMatches {
			p.SettledMatches = append([]string(nil), p.SettledMatches[n-MaxSettledMatches:]...)
		}
	}

	p.XP += d.Experience
	p.Coins += d.Coins
	if p.Coins < 0 {
		p.Coins = 0
	}
	p.TotalCorrect += d.CorrectAnswers
	if d.Completed {
		p.GamesPlayed++
		p.Streak = nextStreak(p.Streak, p.LastPlayedAt, now)
		played := now
		p.LastPlayedAt = &played
	}
	p.Level = LevelFor(p.XP)
	p.UpdatedAt = now
	return true
}

// Settled reports whether matchID was already applied to the profile
func (p *Profile) Settled(matchID string) bool {
	for _, id := range p.SettledMatches {
		if id == matchID {
			return true
		}
	}
	return false
}

// nextStreak counts consecutive UTC days with a completed match
func nextStreak(streak int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	day := func(t time.Time) time.Time {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	switch int(day(now).Sub(day(*last)).Hours() / 24) {
	case 0:
		if streak < 1 {
			return 1
		}
		return streak
	case 1:
		return streak + 1
	}
	return 1
}
