package service

import (
	"context"
	"errors"
	"fmt"

	"triviabattle/internal/game"
	"triviabattle/internal/model"
	"triviabattle/internal/repository"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService reads durable profiles and match history
type ProfileService struct {
	profiles repository.ProfileRepo
	matches  repository.MatchRepo
}

// NewProfileService creates a new profile service
func NewProfileService(profiles repository.ProfileRepo, matches repository.MatchRepo) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		matches:  matches,
	}
}

// GetProfile loads a profile by player id
func (s *ProfileService) GetProfile(ctx context.Context, playerID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrNotFound) {
		// game.ErrNotFound stops the coordinator from retrying the fetch
		return nil, fmt.Errorf("%w: %w: %s", ErrProfileNotFound, game.ErrNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", playerID, err)
	}
	return profile, nil
}

// History returns the player's most recent finished matches
func (s *ProfileService) History(ctx context.Context, playerID string, limit int64) ([]*model.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	matches, err := s.matches.GetByPlayerID(ctx, playerID, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []*model.MatchRecord{}
	}
	return matches, nil
}
