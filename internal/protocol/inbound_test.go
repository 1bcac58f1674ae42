package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"triviabattle/internal/model"
)

func envelope(t MessageType, payload string) *Message {
	return &Message{Type: t, Payload: json.RawMessage(payload)}
}

func TestDecodeValidEvents(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want MessageType
	}{
		{"solo join", envelope(MsgJoinGame, `{"matchId":"m1","mode":"solo","category":"toys"}`), MsgJoinGame},
		{"random join without match", envelope(MsgJoinGame, `{"mode":"random"}`), MsgJoinGame},
		{"friends join", envelope(MsgJoinGame, `{"mode":"friends","roomCode":"ABC234","maxPlayers":3}`), MsgJoinGame},
		{"start", envelope(MsgStartGame, `{"matchId":"m1"}`), MsgStartGame},
		{"answer", envelope(MsgSubmitAnswer, `{"matchId":"m1","questionId":"q1","optionIndex":2,"elapsedMs":400}`), MsgSubmitAnswer},
		{"timeout answer", envelope(MsgSubmitAnswer, `{"matchId":"m1","questionId":"q1","optionIndex":-1}`), MsgSubmitAnswer},
		{"attack", envelope(MsgUseAttack, `{"matchId":"m1","targetId":"p2","attackKind":"blur"}`), MsgUseAttack},
		{"leave", envelope(MsgLeaveGame, `{"matchId":"m1"}`), MsgLeaveGame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.msg)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if ev.EventType() != tt.want {
				t.Errorf("type = %s, want %s", ev.EventType(), tt.want)
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{"unknown type", envelope("dance", `{}`)},
		{"empty payload", envelope(MsgStartGame, ``)},
		{"bad json", envelope(MsgStartGame, `{"matchId":`)},
		{"unknown mode", envelope(MsgJoinGame, `{"matchId":"m1","mode":"8player"}`)},
		{"friends without code", envelope(MsgJoinGame, `{"mode":"friends"}`)},
		{"code outside friends", envelope(MsgJoinGame, `{"matchId":"m1","mode":"1v1","roomCode":"ABC234"}`)},
		{"solo without match", envelope(MsgJoinGame, `{"mode":"solo"}`)},
		{"too many questions", envelope(MsgJoinGame, `{"matchId":"m1","mode":"solo","totalQuestions":51}`)},
		{"too many players", envelope(MsgJoinGame, `{"mode":"friends","roomCode":"ABC234","maxPlayers":5}`)},
		{"unknown category", envelope(MsgJoinGame, `{"matchId":"m1","mode":"solo","category":"sports"}`)},
		{"start without match", envelope(MsgStartGame, `{}`)},
		{"answer without option", envelope(MsgSubmitAnswer, `{"matchId":"m1","questionId":"q1"}`)},
		{"answer without question", envelope(MsgSubmitAnswer, `{"matchId":"m1","optionIndex":1}`)},
		{"answer below -1", envelope(MsgSubmitAnswer, `{"matchId":"m1","questionId":"q1","optionIndex":-2}`)},
		{"attack without target", envelope(MsgUseAttack, `{"matchId":"m1","attackKind":"blur"}`)},
		{"attack without kind", envelope(MsgUseAttack, `{"matchId":"m1","targetId":"p2"}`)},
		{"leave without match", envelope(MsgLeaveGame, `{}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.msg); !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeJoinFields(t *testing.T) {
	ev, err := Decode(envelope(MsgJoinGame, `{"matchId":"m1","mode":"1v1","category":"mixed","totalQuestions":0}`))
	if err != nil {
		t.Fatal(err)
	}
	join := ev.(JoinGame)
	if join.Mode != model.ModeOneVOne || join.Match() != "m1" {
		t.Errorf("join = %+v", join)
	}
	if join.TotalQuestions == nil || *join.TotalQuestions != 0 {
		t.Errorf("totalQuestions = %v, want explicit 0", join.TotalQuestions)
	}
}

func TestSubmitOption(t *testing.T) {
	two := 2
	if got := (SubmitAnswer{OptionIndex: &two}).Option(); got != 2 {
		t.Errorf("Option() = %d, want 2", got)
	}
	if got := (SubmitAnswer{}).Option(); got != -1 {
		t.Errorf("Option() with nil = %d, want -1", got)
	}
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(MsgError, ErrorPayload{Message: "nope", Kind: "NotFound"})
	if err != nil {
		t.Fatal(err)
	}
	var p ErrorPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatal(err)
	}
	if msg.Type != MsgError || p.Kind != "NotFound" {
		t.Errorf("message = %s %+v", msg.Type, p)
	}
}
