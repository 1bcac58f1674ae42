package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"triviabattle/internal/cache"
	"triviabattle/internal/model"
	"triviabattle/internal/repository"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchService serves finished match results
type MatchService struct {
	matches repository.MatchRepo
	results cache.ResultCache
}

// NewMatchService creates a new match service
func NewMatchService(matches repository.MatchRepo, results cache.ResultCache) *MatchService {
	return &MatchService{
		matches: matches,
		results: results,
	}
}

// Result returns the final result of a match, from cache when possible
func (s *MatchService) Result(ctx context.Context, matchID string) (*model.MatchResult, error) {
	result, err := s.results.Get(ctx, matchID)
	if err != nil {
		log.Printf("[Match] result cache read for %s: %v", matchID, err)
	}
	if result != nil {
		return result, nil
	}

	rec, err := s.matches.GetByID(ctx, matchID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.results.Set(ctx, &rec.Result); err != nil {
		log.Printf("[Match] result cache write for %s: %v", matchID, err)
	}
	return &rec.Result, nil
}
