package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"triviabattle/internal/model"
	"triviabattle/internal/protocol"
)

const inboxSize = 256

// Coordinator routes client events to sessions. Every mutation of the
// registry or a session happens inside Run's goroutine; transport reads,
// timer firings and dependency results are all queued onto the inbox.
type Coordinator struct {
	cfg       Config
	registry  *Registry
	questions QuestionProvider
	profiles  ProfileStore
	recorder  Recorder
	out       Outbound

	inbox chan func()
	done  chan struct{}
	now   func() time.Time

	// identity -> match id of joins waiting on a profile fetch
	pending map[string]string

	wg sync.WaitGroup
}

// NewCoordinator creates a coordinator. Call Run to start dispatching.
func NewCoordinator(cfg Config, questions QuestionProvider, profiles ProfileStore, recorder Recorder, out Outbound) *Coordinator {
	if cfg.DependencyRetries < 1 {
		cfg.DependencyRetries = 1
	}
	if cfg.DependencyTimeout <= 0 {
		cfg.DependencyTimeout = DefaultConfig().DependencyTimeout
	}
	return &Coordinator{
		cfg:       cfg,
		registry:  NewRegistry(),
		questions: questions,
		profiles:  profiles,
		recorder:  recorder,
		out:       out,
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		now:       time.Now,
		pending:   make(map[string]string),
	}
}

// Run is the dispatch loop. It returns when ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	log.Println("[Coordinator] dispatch loop started")
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			log.Println("[Coordinator] dispatch loop stopped")
			return
		case fn := <-c.inbox:
			c.exec(fn)
		}
	}
}

// Done is closed once Run has returned
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until in-flight persistence calls have returned. Call it
// after Done so no new work can be scheduled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Submit queues a decoded client event from identity
func (c *Coordinator) Submit(identity string, ev protocol.ClientEvent) {
	c.enqueue(func() { c.route(identity, ev) })
}

// Disconnect queues a leave for whatever match identity belongs to
func (c *Coordinator) Disconnect(identity string) {
	c.enqueue(func() {
		delete(c.pending, identity)
		matchID, ok := c.registry.ResolveByPlayer(identity)
		if !ok {
			return
		}
		if s, ok := c.registry.Get(matchID); ok {
			if err := c.leave(s, identity); err != nil {
				log.Printf("[Coordinator] disconnect %s from %s: %v", identity, matchID, err)
			}
		}
	})
}

// ActiveMatches reports the number of live sessions
func (c *Coordinator) ActiveMatches(ctx context.Context) (int, error) {
	result := make(chan int, 1)
	c.enqueue(func() { result <- c.registry.Len() })
	select {
	case n := <-result:
		return n, nil
	case <-c.done:
		return 0, errors.New("coordinator stopped")
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (c *Coordinator) enqueue(fn func()) {
	select {
	case c.inbox <- fn:
	case <-c.done:
	}
}

func (c *Coordinator) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Coordinator] recovered from panic: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// schedule re-enters the loop with fn after d
func (c *Coordinator) schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { c.enqueue(fn) })
}

func (c *Coordinator) route(identity string, ev protocol.ClientEvent) {
	var err error
	switch e := ev.(type) {
	case protocol.JoinGame:
		err = c.handleJoin(identity, e)
	case protocol.StartGame:
		err = c.handleStart(identity, e)
	case protocol.SubmitAnswer:
		err = c.handleSubmit(identity, e)
	case protocol.UseAttack:
		err = c.handleAttack(identity, e)
	case protocol.LeaveGame:
		err = c.handleLeave(identity, e)
	default:
		err = fmt.Errorf("%w: unsupported event %T", ErrInvalidState, ev)
	}
	if err != nil {
		c.reject(identity, ev.Match(), err)
	}
}

// reject reports err to the sender only
func (c *Coordinator) reject(identity, matchID string, err error) {
	if Silent(err) {
		log.Printf("[Coordinator] ignored event from %s on %s: %v", identity, matchID, err)
		return
	}
	log.Printf("[Coordinator] rejected event from %s on %s: %v", identity, matchID, err)
	c.out.Send(identity, protocol.MsgError, protocol.ErrorPayload{
		Message: err.Error(),
		Kind:    string(KindOf(err)),
	})
}

func (c *Coordinator) broadcast(s *Session, t protocol.MessageType, payload interface{}) {
	for _, id := range s.PlayerIDs() {
		c.out.Send(id, t, payload)
	}
}

func (c *Coordinator) sessionFor(identity, matchID string) (*Session, error) {
	s, ok := c.registry.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if !s.hasPlayer(identity) {
		return nil, fmt.Errorf("%w: player %s in match %s", ErrNotFound, identity, matchID)
	}
	return s, nil
}

func (c *Coordinator) handleJoin(identity string, e protocol.JoinGame) error {
	if current, ok := c.registry.ResolveByPlayer(identity); ok {
		if s, ok := c.registry.Get(current); ok && (current == e.MatchID || e.MatchID == "") && s.Mode == e.Mode {
			c.out.Send(identity, protocol.MsgGameUpdate, updateOf(s))
			return ErrAlreadyJoined
		}
		return fmt.Errorf("%w: already in match %s", ErrInvalidState, current)
	}
	if _, ok := c.pending[identity]; ok {
		return ErrAlreadyJoined
	}

	s, err := c.placeJoin(e)
	if err != nil {
		return err
	}
	if s.Mode != e.Mode {
		return fmt.Errorf("%w: match %s is %s", ErrInvalidState, s.ID, s.Mode)
	}
	if s.Phase() != model.PhaseWaiting || s.Starting() {
		return fmt.Errorf("%w: game already started", ErrInvalidState)
	}
	if s.Len()+c.pendingFor(s.ID) >= s.Capacity {
		return ErrSessionFull
	}

	matchID := s.ID
	c.pending[identity] = matchID
	c.async(func() {
		var profile *model.Profile
		err := c.retry(func(ctx context.Context) error {
			var err error
			profile, err = c.profiles.GetProfile(ctx, identity)
			return err
		})
		c.enqueue(func() { c.onProfileLoaded(identity, matchID, profile, err) })
	})
	return nil
}

// placeJoin resolves or creates the session a join is aimed at
func (c *Coordinator) placeJoin(e protocol.JoinGame) (*Session, error) {
	matchID := e.MatchID
	switch e.Mode {
	case model.ModeRandom:
		if matchID == "" {
			if s, ok := c.registry.OpenRandom(); ok {
				return s, nil
			}
			matchID = uuid.New().String()
		}
	case model.ModeFriends:
		if matchID == "" {
			if s, ok := c.registry.ByRoomCode(e.RoomCode); ok {
				return s, nil
			}
			matchID = uuid.New().String()
		} else if s, ok := c.registry.Get(matchID); ok && s.RoomCode != e.RoomCode {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, e.RoomCode)
		}
	}

	s, created := c.registry.CreateOrGet(matchID, e.Mode, e.Mode.Capacity(e.MaxPlayers))
	if created {
		s.RoomCode = e.RoomCode
		if e.Category != "" {
			s.Category = e.Category
		}
		s.TotalQuestions = c.cfg.DefaultTotalQuestions
		if e.TotalQuestions != nil {
			s.TotalQuestions = *e.TotalQuestions
		}
		log.Printf("[Coordinator] created %s match %s (capacity %d)", s.Mode, s.ID, s.Capacity)
	}
	return s, nil
}

func (c *Coordinator) pendingFor(matchID string) int {
	n := 0
	for _, m := range c.pending {
		if m == matchID {
			n++
		}
	}
	return n
}

func (c *Coordinator) onProfileLoaded(identity, matchID string, profile *model.Profile, err error) {
	if m, ok := c.pending[identity]; !ok || m != matchID {
		// disconnected while the fetch was in flight
		c.dropIfAbandoned(matchID)
		return
	}
	delete(c.pending, identity)

	s, ok := c.registry.Get(matchID)
	if !ok {
		c.reject(identity, matchID, fmt.Errorf("%w: match %s", ErrNotFound, matchID))
		return
	}
	if err != nil {
		c.reject(identity, matchID, err)
		c.dropIfAbandoned(matchID)
		return
	}

	p := model.NewMatchPlayer(profile)
	p.ID = identity
	autoStart, err := s.Join(p)
	if err != nil {
		c.reject(identity, matchID, err)
		c.dropIfAbandoned(matchID)
		return
	}
	c.registry.Index(identity, matchID)
	log.Printf("[Coordinator] %s joined %s (%d/%d)", identity, matchID, s.Len(), s.Capacity)
	c.broadcast(s, protocol.MsgGameUpdate, updateOf(s))

	if autoStart {
		gen := s.AutoStartGen()
		c.schedule(c.cfg.AutoStartDelay, func() { c.onAutoStart(matchID, gen) })
	}
}

// dropIfAbandoned removes a session nobody joined or is joining
func (c *Coordinator) dropIfAbandoned(matchID string) {
	s, ok := c.registry.Get(matchID)
	if ok && s.Empty() && c.pendingFor(matchID) == 0 {
		c.registry.Remove(matchID)
	}
}

func (c *Coordinator) handleStart(identity string, e protocol.StartGame) error {
	s, err := c.sessionFor(identity, e.MatchID)
	if err != nil {
		return err
	}
	if err := s.CanStart(c.cfg.FriendsMinPlayers); err != nil {
		return err
	}
	c.start(s)
	return nil
}

func (c *Coordinator) onAutoStart(matchID string, gen int) {
	s, ok := c.registry.Get(matchID)
	if !ok || s.AutoStartGen() != gen {
		return
	}
	if err := s.CanStart(c.cfg.FriendsMinPlayers); err != nil {
		log.Printf("[Coordinator] auto-start skipped for %s: %v", matchID, err)
		return
	}
	c.start(s)
}

func (c *Coordinator) start(s *Session) {
	log.Printf("[Coordinator] starting %s with %d players", s.ID, s.Len())
	s.BeginStart()
	c.advance(s)
}

// advance loads the next question or finishes an exhausted match
func (c *Coordinator) advance(s *Session) {
	next := s.NextIndex()
	if s.Exhausted(next) {
		c.finish(s, false)
		return
	}
	if s.Loading() {
		return
	}
	s.BeginLoad()

	matchID := s.ID
	category := s.Category
	if category == model.CategoryMixed {
		category = ""
	}
	exclude := s.AskedQuestions()
	c.async(func() {
		var q *model.Question
		err := c.retry(func(ctx context.Context) error {
			var err error
			q, err = c.questions.NextQuestion(ctx, category, exclude)
			return err
		})
		c.enqueue(func() { c.onQuestionLoaded(matchID, next, q, err) })
	})
}

func (c *Coordinator) onQuestionLoaded(matchID string, index int, q *model.Question, err error) {
	s, ok := c.registry.Get(matchID)
	if !ok || s.Phase() == model.PhaseFinished || !s.Loading() || s.NextIndex() != index {
		return
	}
	if err != nil {
		log.Printf("[Coordinator] question fetch failed for %s: %v", matchID, err)
		s.AbortLoad()
		c.finish(s, true)
		return
	}

	if s.LoadQuestion(q, index, c.cfg.QuestionTimeLimit, c.now()) {
		snap := s.Snapshot()
		c.broadcast(s, protocol.MsgGameStarted, snap)
		c.persist("match started", func(ctx context.Context) error {
			return c.recorder.MatchStarted(ctx, snap)
		})
	}
	c.broadcast(s, protocol.MsgNewQuestion, s.Question().Public())
	c.schedule(c.cfg.QuestionTimeLimit+c.cfg.QuestionGrace, func() { c.onDeadline(matchID, index) })
}

func (c *Coordinator) handleSubmit(identity string, e protocol.SubmitAnswer) error {
	s, ok := c.registry.Get(e.MatchID)
	if !ok {
		return fmt.Errorf("%w: match %s", ErrNotFound, e.MatchID)
	}
	res, err := s.SubmitAnswer(identity, e.QuestionID, e.Option(), e.ElapsedMs)
	if err != nil {
		return err
	}
	c.afterAnswers(s, []AnswerResult{res})
	return nil
}

func (c *Coordinator) afterAnswers(s *Session, results []AnswerResult) {
	now := c.now()
	for _, res := range results {
		c.broadcast(s, protocol.MsgAnswerSubmitted, protocol.AnswerSubmitted{
			PlayerID:  res.PlayerID,
			IsCorrect: res.IsCorrect,
			Score:     res.Score,
		})
		rec := model.AnswerRecord{
			ID:            uuid.New().String(),
			MatchID:       s.ID,
			PlayerID:      res.PlayerID,
			QuestionID:    res.QuestionID,
			QuestionIndex: res.Index,
			AnswerIndex:   res.OptionIndex,
			IsCorrect:     res.IsCorrect,
			Points:        res.Points,
			TimeTakenMs:   res.ElapsedMs,
			AnsweredAt:    now,
		}
		c.persist("answer", func(ctx context.Context) error {
			return c.recorder.RecordAnswer(ctx, rec)
		})
	}
	c.maybeComplete(s)
}

// maybeComplete schedules question completion once everyone has answered
func (c *Coordinator) maybeComplete(s *Session) {
	if s.Phase() != model.PhaseActive || !s.AllAnswered() || !s.ClaimCompletion() {
		return
	}
	matchID, index := s.ID, s.QuestionIndex()
	c.schedule(c.cfg.QuestionCompleteDelay, func() { c.onQuestionComplete(matchID, index) })
}

func (c *Coordinator) onDeadline(matchID string, index int) {
	s, ok := c.registry.Get(matchID)
	if !ok || s.Phase() != model.PhaseActive || s.QuestionIndex() != index {
		return
	}
	if results := s.ExpireUnanswered(); len(results) > 0 {
		log.Printf("[Coordinator] question %d of %s expired for %d players", index, matchID, len(results))
		c.afterAnswers(s, results)
	}
}

func (c *Coordinator) onQuestionComplete(matchID string, index int) {
	s, ok := c.registry.Get(matchID)
	if !ok || s.Phase() != model.PhaseActive || s.QuestionIndex() != index {
		return
	}
	c.broadcast(s, protocol.MsgQuestionComplete, s.Snapshot())
	c.advance(s)
}

func (c *Coordinator) handleAttack(identity string, e protocol.UseAttack) error {
	s, err := c.sessionFor(identity, e.MatchID)
	if err != nil {
		return err
	}
	now := c.now()
	res, err := s.UseAttack(identity, e.TargetID, e.AttackKind, now)
	if err != nil {
		return err
	}

	c.out.Send(res.Target.ID, protocol.MsgAttackReceived, protocol.AttackReceived{
		Kind:         res.Effect.Kind,
		AttackerName: res.Attacker.Username,
		DurationMs:   res.Effect.Duration.Milliseconds(),
	})
	c.broadcast(s, protocol.MsgAttackUsed, protocol.AttackUsed{
		AttackerID: res.Attacker.ID,
		TargetID:   res.Target.ID,
		Kind:       res.Effect.Kind,
	})

	rec := model.AttackRecord{
		ID:         uuid.New().String(),
		MatchID:    s.ID,
		AttackerID: res.Attacker.ID,
		TargetID:   res.Target.ID,
		Kind:       res.Effect.Kind,
		Cost:       res.Cost,
		UsedAt:     now,
	}
	c.persist("attack", func(ctx context.Context) error {
		return c.recorder.RecordAttack(ctx, rec)
	})

	matchID := s.ID
	c.schedule(AttackCooldown, func() {
		if s, ok := c.registry.Get(matchID); ok {
			s.PurgeCooldowns(c.now())
		}
	})
	return nil
}

func (c *Coordinator) handleLeave(identity string, e protocol.LeaveGame) error {
	s, err := c.sessionFor(identity, e.MatchID)
	if err != nil {
		return err
	}
	return c.leave(s, identity)
}

func (c *Coordinator) leave(s *Session, identity string) error {
	wasActive := s.Phase() == model.PhaseActive
	p, err := s.Leave(identity)
	if err != nil {
		return err
	}
	c.registry.Unindex(identity)
	log.Printf("[Coordinator] %s left %s", identity, s.ID)

	if wasActive {
		c.settle(s.ID, p, false)
	}
	if s.Empty() {
		log.Printf("[Coordinator] match %s emptied, removing", s.ID)
		c.registry.Remove(s.ID)
		return nil
	}
	c.broadcast(s, protocol.MsgPlayerLeft, protocol.PlayerLeft{
		PlayerID: identity,
		Players:  s.Roster(),
	})
	c.maybeComplete(s)
	return nil
}

// finish ends the match, broadcasts the final result, settles every
// player and reclaims the session
func (c *Coordinator) finish(s *Session, failed bool) {
	rewards := s.Finish(failed)
	snap := s.Snapshot()
	result := model.MatchResult{Game: snap, Rewards: rewards}
	if failed {
		result.Error = "question provider unavailable"
	}
	log.Printf("[Coordinator] match %s finished (failed=%t)", s.ID, failed)
	c.broadcast(s, protocol.MsgGameFinished, result)

	played := snap.StartTime != nil
	ids := s.PlayerIDs()
	for _, id := range ids {
		if played {
			c.settle(s.ID, s.Player(id), true)
		}
		c.registry.Unindex(id)
	}

	rec := model.MatchRecord{
		ID:         s.ID,
		Mode:       s.Mode,
		PlayerIDs:  ids,
		Result:     result,
		StartedAt:  snap.StartTime,
		FinishedAt: c.now(),
	}
	c.persist("match", func(ctx context.Context) error {
		return c.recorder.RecordMatch(ctx, rec)
	})
	c.registry.Remove(s.ID)
}

// settle is keyed by match so a retried write credits the player once
func (c *Coordinator) settle(matchID string, p *model.MatchPlayer, completed bool) {
	delta := SettlementFor(p, completed)
	delta.MatchID = matchID
	playerID := p.ID
	c.persist("settlement", func(ctx context.Context) error {
		return c.recorder.SettlePlayer(ctx, playerID, delta)
	})
}

// persist runs a recorder call off the loop and only logs failures
func (c *Coordinator) persist(what string, fn func(ctx context.Context) error) {
	c.async(func() {
		if err := c.retry(fn); err != nil {
			log.Printf("[Coordinator] persisting %s: %v", what, err)
		}
	})
}

func (c *Coordinator) async(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// retry calls fn up to DependencyRetries times, each bounded by
// DependencyTimeout. The final error wraps ErrDependencyFailure. An
// ErrNotFound is permanent and returned as is.
func (c *Coordinator) retry(fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= c.cfg.DependencyRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.DependencyTimeout)
		err = fn(ctx)
		cancel()
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		if attempt < c.cfg.DependencyRetries {
			time.Sleep(c.cfg.RetryBackoff * time.Duration(attempt))
		}
	}
	return fmt.Errorf("%w: %v", ErrDependencyFailure, err)
}

func updateOf(s *Session) protocol.GameUpdate {
	return protocol.GameUpdate{
		MatchID: s.ID,
		Status:  s.Phase(),
		Players: s.Roster(),
	}
}
