package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"triviabattle/internal/model"
	"triviabattle/internal/protocol"
)

type stubAuth struct{}

func (stubAuth) ValidateToken(token string) (*model.PlayerClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &model.PlayerClaims{PlayerID: "p1", Username: "ann"}, nil
}

type submitted struct {
	identity string
	ev       protocol.ClientEvent
}

type chanDispatcher chan submitted

func (c chanDispatcher) Submit(identity string, ev protocol.ClientEvent) {
	c <- submitted{identity, ev}
}

func dial(t *testing.T, srv *httptest.Server, token string) (*websocket.Conn, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	return conn, err
}

func TestGameWSRejectsBadToken(t *testing.T) {
	h := NewHandler(NewHub(), stubAuth{}, make(chanDispatcher, 1))
	srv := httptest.NewServer(http.HandlerFunc(h.GameWS))
	defer srv.Close()

	if _, err := dial(t, srv, "bad"); err == nil {
		t.Fatal("expected handshake to fail")
	}
}

func TestGameWSDispatchesDecodedEvents(t *testing.T) {
	events := make(chanDispatcher, 4)
	h := NewHandler(NewHub(), stubAuth{}, events)
	srv := httptest.NewServer(http.HandlerFunc(h.GameWS))
	defer srv.Close()

	conn, err := dial(t, srv, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	join := `{"type":"join-game","payload":{"matchId":"m1","mode":"solo"}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(join)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-events:
		if got.identity != "p1" {
			t.Errorf("identity = %s, want p1", got.identity)
		}
		ev, ok := got.ev.(protocol.JoinGame)
		if !ok || ev.MatchID != "m1" || ev.Mode != model.ModeSolo {
			t.Errorf("event = %#v", got.ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not dispatched")
	}
}

func TestGameWSRejectsMalformedEvents(t *testing.T) {
	events := make(chanDispatcher, 4)
	h := NewHandler(NewHub(), stubAuth{}, events)
	srv := httptest.NewServer(http.HandlerFunc(h.GameWS))
	defer srv.Close()

	conn, err := dial(t, srv, "good")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for _, frame := range []string{
		`not json`,
		`{"type":"submit-answer","payload":{"matchId":"m1","questionId":"q1"}}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("write: %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg protocol.Message
		json.Unmarshal(data, &msg)
		if msg.Type != protocol.MsgError {
			t.Fatalf("type = %s, want error", msg.Type)
		}
		var payload protocol.ErrorPayload
		json.Unmarshal(msg.Payload, &payload)
		if payload.Kind != "InvalidState" {
			t.Errorf("kind = %s, want InvalidState", payload.Kind)
		}
	}

	select {
	case got := <-events:
		t.Fatalf("malformed frame dispatched: %#v", got)
	default:
	}
}
