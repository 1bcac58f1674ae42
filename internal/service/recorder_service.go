package service

import (
	"context"
	"fmt"
	"log"

	"triviabattle/internal/cache"
	"triviabattle/internal/events"
	"triviabattle/internal/model"
	"triviabattle/internal/repository"
)

// RecorderService persists what matches produce. Each method is safe to
// retry: records carry stable ids, settlements are keyed by match id on
// the profile, and the best-effort fan-out only logs its failures.
type RecorderService struct {
	answers     repository.AnswerRepository
	attacks     repository.AttackRepo
	matches     repository.MatchRepo
	profiles    repository.ProfileRepo
	results     cache.ResultCache
	leaderboard cache.LeaderboardCache
	publisher   events.Publisher
}

// NewRecorderService creates a new recorder service
func NewRecorderService(
	answers repository.AnswerRepository,
	attacks repository.AttackRepo,
	matches repository.MatchRepo,
	profiles repository.ProfileRepo,
	results cache.ResultCache,
	leaderboard cache.LeaderboardCache,
	publisher events.Publisher,
) *RecorderService {
	return &RecorderService{
		answers:     answers,
		attacks:     attacks,
		matches:     matches,
		profiles:    profiles,
		results:     results,
		leaderboard: leaderboard,
		publisher:   publisher,
	}
}

func (s *RecorderService) RecordAnswer(ctx context.Context, rec model.AnswerRecord) error {
	if err := s.answers.Create(ctx, &rec); err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

func (s *RecorderService) RecordAttack(ctx context.Context, rec model.AttackRecord) error {
	if err := s.attacks.Create(ctx, &rec); err != nil {
		return fmt.Errorf("save attack: %w", err)
	}
	return nil
}

// SettlePlayer writes the durable balance and experience once per match
func (s *RecorderService) SettlePlayer(ctx context.Context, playerID string, delta model.ProfileDelta) error {
	profile, applied, err := s.profiles.ApplyDelta(ctx, playerID, delta)
	if err != nil {
		return fmt.Errorf("settle %s: %w", playerID, err)
	}
	if !applied {
		log.Printf("[Recorder] %s already settled for match %s", playerID, delta.MatchID)
		return nil
	}
	log.Printf("[Recorder] settled %s: xp %+d coins %+d (level %d, balance %d)",
		playerID, delta.Experience, delta.Coins, profile.Level, profile.Coins)

	if delta.Experience > 0 {
		if err := s.leaderboard.AddExperience(ctx, playerID, profile.Username, delta.Experience); err != nil {
			log.Printf("[Recorder] leaderboard update for %s: %v", playerID, err)
		}
	}
	return nil
}

func (s *RecorderService) MatchStarted(ctx context.Context, snap model.MatchSnapshot) error {
	return s.publisher.Publish(ctx, events.SubjectMatchStarted, snap)
}

// RecordMatch stores match history, caches the result and announces it
func (s *RecorderService) RecordMatch(ctx context.Context, rec model.MatchRecord) error {
	if err := s.matches.Create(ctx, &rec); err != nil {
		return fmt.Errorf("save match %s: %w", rec.ID, err)
	}
	if err := s.results.Set(ctx, &rec.Result); err != nil {
		log.Printf("[Recorder] result cache for %s: %v", rec.ID, err)
	}
	if err := s.publisher.Publish(ctx, events.SubjectMatchFinished, rec); err != nil {
		log.Printf("[Recorder] publish %s: %v", rec.ID, err)
	}
	return nil
}
