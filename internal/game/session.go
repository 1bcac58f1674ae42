package game

import (
	"fmt"
	"time"

	"triviabattle/internal/model"
)

// Session is the authoritative state of one match. It is only ever touched
// from the coordinator's dispatch goroutine and therefore holds no lock.
type Session struct {
	ID             string
	Mode           model.Mode
	RoomCode       string
	Category       string
	Capacity       int
	TotalQuestions int

	phase     model.Phase
	players   []*model.MatchPlayer
	question  *model.QuestionSlot
	index     int
	startTime *time.Time
	failed    bool

	cooldowns Cooldowns
	asked     []string

	autoStartScheduled  bool
	autoStartGen        int
	starting            bool
	loading             bool
	completionScheduled bool
}

// NewSession creates an empty Waiting session
func NewSession(id string, mode model.Mode, capacity int) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		Capacity:  capacity,
		Category:  model.CategoryMixed,
		phase:     model.PhaseWaiting,
		index:     -1,
		cooldowns: make(Cooldowns),
	}
}

// AnswerResult describes one scored submission
type AnswerResult struct {
	PlayerID    string
	QuestionID  string
	Index       int
	OptionIndex int
	ElapsedMs   int64
	IsCorrect   bool
	Points      int
	Score       int
}

// AttackResult describes one successful attack
type AttackResult struct {
	Attacker *model.MatchPlayer
	Target   *model.MatchPlayer
	Effect   model.AttackEffect
	Cost     int
}

// Phase returns the lifecycle phase
func (s *Session) Phase() model.Phase { return s.phase }

// Question returns the current question slot, or nil
func (s *Session) Question() *model.QuestionSlot { return s.question }

// QuestionIndex is -1 until the first question loads
func (s *Session) QuestionIndex() int { return s.index }

func (s *Session) Len() int    { return len(s.players) }
func (s *Session) Full() bool  { return len(s.players) >= s.Capacity }
func (s *Session) Empty() bool { return len(s.players) == 0 }

// Loading reports whether a question fetch is in flight
func (s *Session) Loading() bool { return s.loading }

// Starting reports whether a start was accepted but the first question is pending
func (s *Session) Starting() bool { return s.starting }

// AutoStartGen identifies the most recent auto-start schedule
func (s *Session) AutoStartGen() int { return s.autoStartGen }

// AskedQuestions returns ids of questions already served in this match
func (s *Session) AskedQuestions() []string {
	out := make([]string, len(s.asked))
	copy(out, s.asked)
	return out
}

func (s *Session) hasPlayer(id string) bool { return s.Player(id) != nil }

func minimumViable(mode model.Mode, capacity, friendsMin int) int {
	switch mode {
	case model.ModeSolo:
		return 1
	case model.ModeFriends:
		if friendsMin < model.FriendsMinCapacity {
			friendsMin = model.FriendsMinCapacity
		}
		if friendsMin > capacity {
			return capacity
		}
		return friendsMin
	}
	return capacity
}

// Player returns the player with id, or nil
func (s *Session) Player(id string) *model.MatchPlayer {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Join appends p. It reports whether an auto-start should be scheduled:
// the session just reached capacity, the mode is not solo, and no
// auto-start was scheduled before.
func (s *Session) Join(p *model.MatchPlayer) (bool, error) {
	if s.hasPlayer(p.ID) {
		return false, ErrAlreadyJoined
	}
	if s.phase != model.PhaseWaiting || s.starting {
		return false, fmt.Errorf("%w: game already started", ErrInvalidState)
	}
	if s.Full() {
		return false, ErrSessionFull
	}

	p.Score = 0
	p.CorrectAnswers = 0
	p.AttacksUsed = 0
	p.AttacksReceived = 0
	p.Answered = false
	p.AnswerTime = nil
	s.players = append(s.players, p)

	if len(s.players) == s.Capacity && s.Mode != model.ModeSolo && !s.autoStartScheduled {
		s.autoStartScheduled = true
		s.autoStartGen++
		return true, nil
	}
	return false, nil
}

// CanStart validates an explicit or scheduled start
func (s *Session) CanStart(friendsMin int) error {
	if s.phase != model.PhaseWaiting || s.starting {
		return fmt.Errorf("%w: game is %s", ErrInvalidState, s.phase)
	}
	if need := minimumViable(s.Mode, s.Capacity, friendsMin); len(s.players) < need {
		return fmt.Errorf("%w: need %d players, have %d", ErrInvalidState, need, len(s.players))
	}
	return nil
}

// BeginStart marks the session as starting. It stays Waiting until the
// first question arrives so that an Active session always has a question.
func (s *Session) BeginStart() {
	s.starting = true
}

// NextIndex is the index the next advance would load
func (s *Session) NextIndex() int {
	if s.index < 0 {
		return 0
	}
	return s.index + 1
}

// Exhausted reports whether loading index would run past the configured total
func (s *Session) Exhausted(index int) bool {
	return s.TotalQuestions > 0 && index >= s.TotalQuestions
}

// BeginLoad marks a question fetch as in flight
func (s *Session) BeginLoad() {
	s.loading = true
}

// AbortLoad clears an in-flight fetch that will not complete
func (s *Session) AbortLoad() {
	s.loading = false
	s.starting = false
}

// LoadQuestion replaces the question slot and resets every player's
// per-question flags. It reports whether this load activated the match.
func (s *Session) LoadQuestion(q *model.Question, index int, timeLimit time.Duration, now time.Time) bool {
	for _, p := range s.players {
		p.Answered = false
		p.AnswerTime = nil
	}
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	s.question = &model.QuestionSlot{
		ID:            q.ID,
		Prompt:        q.Prompt,
		Options:       opts,
		CorrectAnswer: q.CorrectAnswer,
		Category:      q.Category,
		TimeLimit:     timeLimit,
		StartTime:     now,
	}
	s.index = index
	s.asked = append(s.asked, q.ID)
	s.loading = false
	s.completionScheduled = false

	if s.starting {
		s.starting = false
		s.phase = model.PhaseActive
		start := now
		s.startTime = &start
		return true
	}
	return false
}

// SubmitAnswer scores a player's answer to the current question
func (s *Session) SubmitAnswer(playerID, questionID string, optionIndex int, elapsedMs int64) (AnswerResult, error) {
	if s.phase != model.PhaseActive || s.question == nil {
		return AnswerResult{}, fmt.Errorf("%w: no question in play", ErrInvalidState)
	}
	p := s.Player(playerID)
	if p == nil {
		return AnswerResult{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	if questionID != s.question.ID {
		return AnswerResult{}, ErrStaleQuestion
	}
	if p.Answered {
		return AnswerResult{}, ErrAlreadyAnswered
	}
	return s.score(p, optionIndex, elapsedMs), nil
}

func (s *Session) score(p *model.MatchPlayer, optionIndex int, elapsedMs int64) AnswerResult {
	latency := clampElapsed(elapsedMs, s.question.TimeLimit)
	p.Answered = true
	p.AnswerTime = &latency

	correct := IsCorrect(optionIndex, s.question.CorrectAnswer)
	points := Score(correct, elapsedMs, s.question.TimeLimit)
	if correct {
		p.Score += points
		p.CorrectAnswers++
	}

	return AnswerResult{
		PlayerID:    p.ID,
		QuestionID:  s.question.ID,
		Index:       s.index,
		OptionIndex: optionIndex,
		ElapsedMs:   latency,
		IsCorrect:   correct,
		Points:      points,
		Score:       p.Score,
	}
}

// ExpireUnanswered scores every player who has not answered the current
// question as a time-expired submission
func (s *Session) ExpireUnanswered() []AnswerResult {
	if s.phase != model.PhaseActive || s.question == nil {
		return nil
	}
	var results []AnswerResult
	for _, p := range s.players {
		if !p.Answered {
			results = append(results, s.score(p, -1, s.question.TimeLimit.Milliseconds()))
		}
	}
	return results
}

// AllAnswered reports whether every player answered the current question
func (s *Session) AllAnswered() bool {
	if len(s.players) == 0 {
		return false
	}
	for _, p := range s.players {
		if !p.Answered {
			return false
		}
	}
	return true
}

// ClaimCompletion returns true exactly once per question
func (s *Session) ClaimCompletion() bool {
	if s.completionScheduled {
		return false
	}
	s.completionScheduled = true
	return true
}

// UseAttack validates membership and phase, then delegates to the resolver
func (s *Session) UseAttack(attackerID, targetID string, kind model.AttackKind, now time.Time) (AttackResult, error) {
	if s.phase != model.PhaseActive {
		return AttackResult{}, fmt.Errorf("%w: game is %s", ErrInvalidState, s.phase)
	}
	attacker := s.Player(attackerID)
	if attacker == nil {
		return AttackResult{}, fmt.Errorf("%w: player %s", ErrNotFound, attackerID)
	}
	target := s.Player(targetID)
	if target == nil {
		return AttackResult{}, fmt.Errorf("%w: target %s", ErrNotFound, targetID)
	}
	if attacker.ID == target.ID {
		return AttackResult{}, fmt.Errorf("%w: cannot attack yourself", ErrInvalidState)
	}

	effect, err := AttackResolver{}.Resolve(attacker, target, kind, s.cooldowns, now)
	if err != nil {
		return AttackResult{}, err
	}
	cost, _ := AttackCost(kind)
	return AttackResult{Attacker: attacker, Target: target, Effect: effect, Cost: cost}, nil
}

// Leave removes a player. An emptied session becomes Finished.
func (s *Session) Leave(playerID string) (*model.MatchPlayer, error) {
	for i, p := range s.players {
		if p.ID == playerID {
			s.players = append(s.players[:i], s.players[i+1:]...)
			if s.phase == model.PhaseWaiting && !s.starting {
				// invalidates an auto-start timer already in flight
				s.autoStartScheduled = false
				s.autoStartGen++
			}
			if len(s.players) == 0 {
				s.phase = model.PhaseFinished
				s.cooldowns = make(Cooldowns)
			}
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
}

// Finish moves the session to its terminal phase and returns each
// player's rewards. failed marks a match aborted by a dependency failure.
func (s *Session) Finish(failed bool) []model.Rewards {
	s.phase = model.PhaseFinished
	s.failed = failed
	s.loading = false
	s.starting = false
	s.cooldowns = make(Cooldowns)

	rewards := make([]model.Rewards, 0, len(s.players))
	for _, p := range s.players {
		rewards = append(rewards, RewardsFor(p))
	}
	return rewards
}

// PlayerIDs returns member ids in join order
func (s *Session) PlayerIDs() []string {
	ids := make([]string, len(s.players))
	for i, p := range s.players {
		ids[i] = p.ID
	}
	return ids
}

// PurgeCooldowns drops expired cooldown entries
func (s *Session) PurgeCooldowns(now time.Time) {
	s.cooldowns.Purge(now)
}

// Roster returns a copy of the players in join order
func (s *Session) Roster() []model.MatchPlayer {
	roster := make([]model.MatchPlayer, len(s.players))
	for i, p := range s.players {
		roster[i] = *p
	}
	return roster
}

// Snapshot returns the public view of the session
func (s *Session) Snapshot() model.MatchSnapshot {
	idx := s.index
	if idx < 0 {
		idx = 0
	}
	return model.MatchSnapshot{
		MatchID:         s.ID,
		Mode:            s.Mode,
		RoomCode:        s.RoomCode,
		Category:        s.Category,
		Status:          s.phase,
		Players:         s.Roster(),
		CurrentQuestion: s.question.Public(),
		QuestionIndex:   idx,
		TotalQuestions:  s.TotalQuestions,
		Capacity:        s.Capacity,
		StartTime:       s.startTime,
		Failed:          s.failed,
	}
}
