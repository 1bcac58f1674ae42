package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"triviabattle/internal/model"
)

// ErrMalformed is returned for payloads that fail boundary validation
var ErrMalformed = errors.New("malformed event")

// MaxTotalQuestions bounds the per-match question count a client may request
const MaxTotalQuestions = 50

// ClientEvent is one of the inbound event types below
type ClientEvent interface {
	EventType() MessageType
	Match() string
}

type JoinGame struct {
	MatchID        string     `json:"matchId"`
	Mode           model.Mode `json:"mode"`
	RoomCode       string     `json:"roomCode,omitempty"`
	Category       string     `json:"category,omitempty"`
	TotalQuestions *int       `json:"totalQuestions,omitempty"`
	MaxPlayers     int        `json:"maxPlayers,omitempty"`
}

type StartGame struct {
	MatchID string `json:"matchId"`
}

type SubmitAnswer struct {
	MatchID     string `json:"matchId"`
	QuestionID  string `json:"questionId"`
	OptionIndex *int   `json:"optionIndex"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

type UseAttack struct {
	MatchID    string           `json:"matchId"`
	TargetID   string           `json:"targetId"`
	AttackKind model.AttackKind `json:"attackKind"`
}

type LeaveGame struct {
	MatchID string `json:"matchId"`
}

func (JoinGame) EventType() MessageType     { return MsgJoinGame }
func (StartGame) EventType() MessageType    { return MsgStartGame }
func (SubmitAnswer) EventType() MessageType { return MsgSubmitAnswer }
func (UseAttack) EventType() MessageType    { return MsgUseAttack }
func (LeaveGame) EventType() MessageType    { return MsgLeaveGame }

func (e JoinGame) Match() string     { return e.MatchID }
func (e StartGame) Match() string    { return e.MatchID }
func (e SubmitAnswer) Match() string { return e.MatchID }
func (e UseAttack) Match() string    { return e.MatchID }
func (e LeaveGame) Match() string    { return e.MatchID }

// Option returns the submitted option; Decode guarantees it is set
func (e SubmitAnswer) Option() int {
	if e.OptionIndex == nil {
		return -1
	}
	return *e.OptionIndex
}

// Decode validates an inbound envelope and returns its typed event
func Decode(msg *Message) (ClientEvent, error) {
	switch msg.Type {
	case MsgJoinGame:
		var ev JoinGame
		if err := unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, validateJoin(&ev)
	case MsgStartGame:
		var ev StartGame
		if err := unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, requireMatch(ev.MatchID)
	case MsgSubmitAnswer:
		var ev SubmitAnswer
		if err := unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, validateSubmit(&ev)
	case MsgUseAttack:
		var ev UseAttack
		if err := unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, validateAttack(&ev)
	case MsgLeaveGame:
		var ev LeaveGame
		if err := unmarshal(msg.Payload, &ev); err != nil {
			return nil, err
		}
		return ev, requireMatch(ev.MatchID)
	}
	return nil, fmt.Errorf("%w: unknown event type %q", ErrMalformed, msg.Type)
}

func unmarshal(data json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty payload", ErrMalformed)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func requireMatch(id string) error {
	if id == "" {
		return fmt.Errorf("%w: matchId is required", ErrMalformed)
	}
	return nil
}

func validateJoin(ev *JoinGame) error {
	if !ev.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrMalformed, ev.Mode)
	}
	if ev.Mode == model.ModeFriends && ev.RoomCode == "" {
		return fmt.Errorf("%w: roomCode is required for friends mode", ErrMalformed)
	}
	if ev.Mode != model.ModeFriends && ev.RoomCode != "" {
		return fmt.Errorf("%w: roomCode is only valid for friends mode", ErrMalformed)
	}
	if ev.MatchID == "" && ev.Mode != model.ModeRandom && ev.Mode != model.ModeFriends {
		return fmt.Errorf("%w: matchId is required", ErrMalformed)
	}
	if ev.TotalQuestions != nil && (*ev.TotalQuestions < 0 || *ev.TotalQuestions > MaxTotalQuestions) {
		return fmt.Errorf("%w: totalQuestions must be between 0 and %d", ErrMalformed, MaxTotalQuestions)
	}
	if ev.MaxPlayers < 0 || ev.MaxPlayers > model.FriendsMaxCapacity {
		return fmt.Errorf("%w: maxPlayers must be at most %d", ErrMalformed, model.FriendsMaxCapacity)
	}
	if ev.Category != "" && !validCategory(ev.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrMalformed, ev.Category)
	}
	return nil
}

func validCategory(c string) bool {
	if c == model.CategoryMixed {
		return true
	}
	for _, known := range model.Categories {
		if c == known {
			return true
		}
	}
	return false
}

func validateSubmit(ev *SubmitAnswer) error {
	if err := requireMatch(ev.MatchID); err != nil {
		return err
	}
	if ev.QuestionID == "" {
		return fmt.Errorf("%w: questionId is required", ErrMalformed)
	}
	if ev.OptionIndex == nil {
		return fmt.Errorf("%w: optionIndex is required", ErrMalformed)
	}
	if *ev.OptionIndex < -1 {
		return fmt.Errorf("%w: optionIndex must be -1 or a valid option", ErrMalformed)
	}
	return nil
}

func validateAttack(ev *UseAttack) error {
	if err := requireMatch(ev.MatchID); err != nil {
		return err
	}
	if ev.TargetID == "" {
		return fmt.Errorf("%w: targetId is required", ErrMalformed)
	}
	if ev.AttackKind == "" {
		return fmt.Errorf("%w: attackKind is required", ErrMalformed)
	}
	return nil
}
