package model

import "time"

// Rewards are computed per player when a match completes
type Rewards struct {
	PlayerID    string `json:"playerId" bson:"playerId"`
	Experience  int    `json:"xpGained" bson:"xpGained"`
	CoinsGained int    `json:"coinsGained" bson:"coinsGained"`
}

// MatchResult is the game-finished payload and the cached result record
type MatchResult struct {
	Game    MatchSnapshot `json:"game" bson:"game"`
	Rewards []Rewards     `json:"rewards" bson:"rewards"`
	Error   string        `json:"error,omitempty" bson:"error,omitempty"`
}

// MatchRecord is the durable history entry for a finished match
type MatchRecord struct {
	ID         string      `json:"id" bson:"_id"`
	Mode       Mode        `json:"mode" bson:"mode"`
	PlayerIDs  []string    `json:"playerIds" bson:"playerIds"`
	Result     MatchResult `json:"result" bson:"result"`
	StartedAt  *time.Time  `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	FinishedAt time.Time   `json:"finishedAt" bson:"finishedAt"`
}
