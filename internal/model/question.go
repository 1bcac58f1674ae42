package model

import "time"

// CategoryMixed requests questions from every category
const CategoryMixed = "mixed"

// Categories lists the question bank categories
var Categories = []string{"cartoons", "bollywood", "hollywood", "gadgets", "snacks", "toys"}

// Difficulty of a bank question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is a question bank record
type Question struct {
	ID            string     `json:"id" bson:"_id,omitempty"`
	Category      string     `json:"category" bson:"category"`
	Prompt        string     `json:"question" bson:"question"`
	Options       []string   `json:"options" bson:"options"`
	CorrectAnswer int        `json:"correctAnswer" bson:"correctAnswer"`
	Difficulty    Difficulty `json:"difficulty" bson:"difficulty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
}

// QuestionSlot is the question currently in play for a match.
// It is replaced wholesale when the match advances.
type QuestionSlot struct {
	ID            string
	Prompt        string
	Options       []string
	CorrectAnswer int
	Category      string
	TimeLimit     time.Duration
	StartTime     time.Time
}

// PublicQuestion is a slot as sent to clients, without the correct option
type PublicQuestion struct {
	ID        string    `json:"id" bson:"id"`
	Prompt    string    `json:"question" bson:"question"`
	Options   []string  `json:"options" bson:"options"`
	Category  string    `json:"category" bson:"category"`
	TimeLimit int64     `json:"timeLimit" bson:"timeLimit"`
	StartTime time.Time `json:"startTime" bson:"startTime"`
}

// Public strips the correct option from the slot
func (q *QuestionSlot) Public() *PublicQuestion {
	if q == nil {
		return nil
	}
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return &PublicQuestion{
		ID:        q.ID,
		Prompt:    q.Prompt,
		Options:   opts,
		Category:  q.Category,
		TimeLimit: q.TimeLimit.Milliseconds(),
		StartTime: q.StartTime,
	}
}
