package model

// MatchPlayer is one participant's live state inside a match
type MatchPlayer struct {
	ID              string `json:"id" bson:"playerId"`
	Username        string `json:"username" bson:"username"`
	Avatar          string `json:"avatar" bson:"avatar"`
	Score           int    `json:"score" bson:"score"`
	CorrectAnswers  int    `json:"correctAnswers" bson:"correctAnswers"`
	Coins           int    `json:"coins" bson:"coins"`
	AttacksUsed     int    `json:"attacksUsed" bson:"attacksUsed"`
	AttacksReceived int    `json:"attacksReceived" bson:"attacksReceived"`

	// Reset at the start of every question
	Answered   bool   `json:"answered" bson:"-"`
	AnswerTime *int64 `json:"answerTime" bson:"-"`

	// Durable balance at join time, used to compute the settlement delta
	StartingCoins int `json:"-" bson:"startingCoins"`
}

// NewMatchPlayer builds the session-local state for a profile joining a match
func NewMatchPlayer(p *Profile) *MatchPlayer {
	return &MatchPlayer{
		ID:            p.ID,
		Username:      p.Username,
		Avatar:        p.Avatar,
		Coins:         p.Coins,
		StartingCoins: p.Coins,
	}
}
