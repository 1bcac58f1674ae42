package model

import "time"

// AnswerRecord is persisted once per scored submission
type AnswerRecord struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	MatchID       string    `json:"matchId" bson:"matchId"`
	PlayerID      string    `json:"playerId" bson:"playerId"`
	QuestionID    string    `json:"questionId" bson:"questionId"`
	QuestionIndex int       `json:"questionIndex" bson:"questionIndex"`
	AnswerIndex   int       `json:"answerIndex" bson:"answerIndex"`
	IsCorrect     bool      `json:"isCorrect" bson:"isCorrect"`
	Points        int       `json:"points" bson:"points"`
	TimeTakenMs   int64     `json:"timeTakenMs" bson:"timeTakenMs"`
	AnsweredAt    time.Time `json:"answeredAt" bson:"answeredAt"`
}
