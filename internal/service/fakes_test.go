package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"triviabattle/internal/cache"
	"triviabattle/internal/model"
	"triviabattle/internal/repository"
)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]*model.Profile
	// ApplyDelta commits but reports a timeout this many times
	lostReplies int
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byID: make(map[string]*model.Profile)}
}

func (m *memProfiles) Create(_ context.Context, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == p.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) GetByUsername(_ context.Context, username string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memProfiles) ApplyDelta(ctx context.Context, id string, delta model.ProfileDelta) (*model.Profile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	applied := p.Apply(delta, time.Now())
	cp := *p
	if m.lostReplies > 0 {
		m.lostReplies--
		return nil, false, context.DeadlineExceeded
	}
	return &cp, applied, nil
}

type memRooms struct {
	codes map[string]string
	// reserve fails this many times before succeeding
	collisions int
}

func (m *memRooms) Reserve(_ context.Context, code, matchID string) (bool, error) {
	if m.collisions > 0 {
		m.collisions--
		return false, nil
	}
	if _, ok := m.codes[code]; ok {
		return false, nil
	}
	m.codes[code] = matchID
	return true, nil
}

func (m *memRooms) Lookup(_ context.Context, code string) (string, error) {
	return m.codes[code], nil
}

func (m *memRooms) Release(_ context.Context, code string) error {
	delete(m.codes, code)
	return nil
}

type memMatches struct {
	byID map[string]*model.MatchRecord
	err  error
}

func (m *memMatches) Create(_ context.Context, rec *model.MatchRecord) error {
	if m.err != nil {
		return m.err
	}
	m.byID[rec.ID] = rec
	return nil
}

func (m *memMatches) GetByID(_ context.Context, id string) (*model.MatchRecord, error) {
	rec, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec, nil
}

func (m *memMatches) GetByPlayerID(_ context.Context, playerID string, limit int64) ([]*model.MatchRecord, error) {
	var out []*model.MatchRecord
	for _, rec := range m.byID {
		for _, id := range rec.PlayerIDs {
			if id == playerID {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

type memResults struct {
	byID map[string]*model.MatchResult
	gets int
}

func (m *memResults) Set(_ context.Context, r *model.MatchResult) error {
	m.byID[r.Game.MatchID] = r
	return nil
}

func (m *memResults) Get(_ context.Context, id string) (*model.MatchResult, error) {
	m.gets++
	return m.byID[id], nil
}

func (m *memResults) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type memLeaderboard struct {
	xp  map[string]int
	err error
}

func (m *memLeaderboard) AddExperience(_ context.Context, playerID, _ string, xp int) error {
	if m.err != nil {
		return m.err
	}
	m.xp[playerID] += xp
	return nil
}

func (m *memLeaderboard) GetTop(context.Context, int) ([]cache.LeaderboardEntry, error) {
	return nil, nil
}

func (m *memLeaderboard) GetRank(context.Context, string) (int64, error) { return -1, nil }

type published struct {
	subject string
	payload interface{}
}

type memPublisher struct {
	sent []published
	err  error
}

func (m *memPublisher) Publish(_ context.Context, subject string, payload interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, published{subject, payload})
	return nil
}

func (m *memPublisher) Close() {}

type memAnswers struct{ recs []*model.AnswerRecord }

func (m *memAnswers) Create(_ context.Context, r *model.AnswerRecord) error {
	m.recs = append(m.recs, r)
	return nil
}
func (m *memAnswers) GetByMatchID(context.Context, string) ([]*model.AnswerRecord, error) {
	return m.recs, nil
}
func (m *memAnswers) GetByPlayerID(context.Context, string) ([]*model.AnswerRecord, error) {
	return m.recs, nil
}

type memAttacks struct{ recs []*model.AttackRecord }

func (m *memAttacks) Create(_ context.Context, r *model.AttackRecord) error {
	m.recs = append(m.recs, r)
	return nil
}
func (m *memAttacks) GetByMatchID(context.Context, string) ([]*model.AttackRecord, error) {
	return m.recs, nil
}

var errBoom = errors.New("boom")
