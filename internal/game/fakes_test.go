package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"triviabattle/internal/model"
	"triviabattle/internal/protocol"
)

var errUnavailable = errors.New("unavailable")

type sent struct {
	to      string
	msgType protocol.MessageType
	payload interface{}
}

// recordingOutbound keeps one buffered channel per identity
type recordingOutbound struct {
	mu    sync.Mutex
	boxes map[string]chan sent
}

func newRecordingOutbound() *recordingOutbound {
	return &recordingOutbound{boxes: make(map[string]chan sent)}
}

func (o *recordingOutbound) box(id string) chan sent {
	o.mu.Lock()
	defer o.mu.Unlock()
	b, ok := o.boxes[id]
	if !ok {
		b = make(chan sent, 256)
		o.boxes[id] = b
	}
	return b
}

func (o *recordingOutbound) Send(playerID string, msgType protocol.MessageType, payload interface{}) {
	o.box(playerID) <- sent{to: playerID, msgType: msgType, payload: payload}
}

// expect skips messages to id until one of type t arrives
func (o *recordingOutbound) expect(t *testing.T, id string, msgType protocol.MessageType) interface{} {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case m := <-o.box(id):
			if m.msgType == msgType {
				return m.payload
			}
		case <-timeout:
			t.Fatalf("%s never received %s", id, msgType)
			return nil
		}
	}
}

func (o *recordingOutbound) expectError(t *testing.T, id string, kind ErrorKind) {
	t.Helper()
	p := o.expect(t, id, protocol.MsgError).(protocol.ErrorPayload)
	if p.Kind != string(kind) {
		t.Fatalf("%s got error kind %s (%s), want %s", id, p.Kind, p.Message, kind)
	}
}

type fakeQuestions struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeQuestions) NextQuestion(ctx context.Context, category string, exclude []string) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errUnavailable
	}
	return question(fmt.Sprintf("q%d", len(exclude)+1)), nil
}

// fakeProfiles fails "ghost" transiently and never finds "missing"
type fakeProfiles struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeProfiles) GetProfile(ctx context.Context, playerID string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[playerID]++
	switch playerID {
	case "ghost":
		return nil, errUnavailable
	case "missing":
		return nil, fmt.Errorf("profile %s: %w", playerID, ErrNotFound)
	}
	return &model.Profile{ID: playerID, Username: playerID, Coins: 100}, nil
}

func (f *fakeProfiles) fetches(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type fakeRecorder struct {
	mu       sync.Mutex
	answers  []model.AnswerRecord
	attacks  []model.AttackRecord
	settled  map[string]model.ProfileDelta
	started  []string
	finished []model.MatchRecord

	// balances are keyed by player and credited once per match
	balances    map[string]*model.Profile
	settleCalls int
	// SettlePlayer commits but reports a failure this many times
	lostReplies int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		settled:  make(map[string]model.ProfileDelta),
		balances: make(map[string]*model.Profile),
	}
}

func (r *fakeRecorder) RecordAnswer(ctx context.Context, rec model.AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, rec)
	return nil
}

func (r *fakeRecorder) RecordAttack(ctx context.Context, rec model.AttackRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attacks = append(r.attacks, rec)
	return nil
}

func (r *fakeRecorder) SettlePlayer(ctx context.Context, playerID string, delta model.ProfileDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleCalls++
	r.settled[playerID] = delta
	p, ok := r.balances[playerID]
	if !ok {
		p = &model.Profile{ID: playerID}
		r.balances[playerID] = p
	}
	p.Apply(delta, time.Now())
	if r.lostReplies > 0 {
		r.lostReplies--
		return errUnavailable
	}
	return nil
}

func (r *fakeRecorder) balance(id string) (coins, calls int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.balances[id]; ok {
		coins = p.Coins
	}
	return coins, r.settleCalls
}

func (r *fakeRecorder) MatchStarted(ctx context.Context, snap model.MatchSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, snap.MatchID)
	return nil
}

func (r *fakeRecorder) RecordMatch(ctx context.Context, rec model.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, rec)
	return nil
}

func (r *fakeRecorder) settlement(id string) (model.ProfileDelta, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.settled[id]
	return d, ok
}

// eventually polls cond until it holds or the deadline passes
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testConfig() Config {
	return Config{
		AutoStartDelay:        20 * time.Millisecond,
		QuestionCompleteDelay: 10 * time.Millisecond,
		QuestionTimeLimit:     10 * time.Second,
		QuestionGrace:         2 * time.Second,
		DefaultTotalQuestions: 2,
		FriendsMinPlayers:     2,
		DependencyRetries:     2,
		DependencyTimeout:     time.Second,
		RetryBackoff:          time.Millisecond,
	}
}

type harness struct {
	c         *Coordinator
	out       *recordingOutbound
	questions *fakeQuestions
	profiles  *fakeProfiles
	recorder  *fakeRecorder
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		out:       newRecordingOutbound(),
		questions: &fakeQuestions{},
		profiles:  &fakeProfiles{},
		recorder:  newFakeRecorder(),
	}
	h.c = NewCoordinator(cfg, h.questions, h.profiles, h.recorder, h.out)

	ctx, cancel := context.WithCancel(context.Background())
	go h.c.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.c.Done()
		h.c.Wait()
	})
	return h
}

func intPtr(n int) *int { return &n }

func (h *harness) answer(id, matchID, questionID string, option int, elapsedMs int64) {
	h.c.Submit(id, protocol.SubmitAnswer{
		MatchID:     matchID,
		QuestionID:  questionID,
		OptionIndex: intPtr(option),
		ElapsedMs:   elapsedMs,
	})
}
