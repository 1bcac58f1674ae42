package protocol

import "encoding/json"

// MessageType names an event on the wire
type MessageType string

// Client -> server
const (
	MsgJoinGame     MessageType = "join-game"
	MsgStartGame    MessageType = "start-game"
	MsgSubmitAnswer MessageType = "submit-answer"
	MsgUseAttack    MessageType = "use-attack"
	MsgLeaveGame    MessageType = "leave-game"
)

// Server -> client
const (
	MsgGameUpdate       MessageType = "game-update"
	MsgGameStarted      MessageType = "game-started"
	MsgNewQuestion      MessageType = "new-question"
	MsgAnswerSubmitted  MessageType = "answer-submitted"
	MsgAttackReceived   MessageType = "attack-received"
	MsgAttackUsed       MessageType = "attack-used"
	MsgQuestionComplete MessageType = "question-complete"
	MsgGameFinished     MessageType = "game-finished"
	MsgPlayerLeft       MessageType = "player-left"
	MsgError            MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage marshals payload into an envelope
func NewMessage(t MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: t, Payload: data}, nil
}
