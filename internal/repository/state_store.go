package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/internal/domain/repository"
	"github.com/Vitek192/sola-sub000/pkg/cache"
)

const (
	stateKeyTokens   = "state:tokens"
	stateKeyStrategy = "state:strategy"
	stateKeyAlerts   = "state:alerts"

	// State outlives restarts but not abandonment; a scanner down for two
	// weeks starts fresh.
	stateTTL = 14 * 24 * time.Hour
)

// CacheStateStore persists tracker state through the layered cache, so hot
// reads hit memory and restarts recover from Redis.
type CacheStateStore struct {
	cache cache.Service
}

// NewCacheStateStore creates the cache-backed state store.
func NewCacheStateStore(c cache.Service) repository.StateStore {
	return &CacheStateStore{cache: c}
}

func (s *CacheStateStore) SaveTokens(ctx context.Context, tokens []models.Token) error {
	return s.cache.Set(ctx, stateKeyTokens, tokens, stateTTL)
}

func (s *CacheStateStore) LoadTokens(ctx context.Context) ([]models.Token, error) {
	var tokens []models.Token
	if err := s.cache.Get(ctx, stateKeyTokens, &tokens); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return tokens, nil
}

func (s *CacheStateStore) SaveStrategy(ctx context.Context, cfg models.StrategyConfig) error {
	return s.cache.Set(ctx, stateKeyStrategy, cfg, stateTTL)
}

func (s *CacheStateStore) LoadStrategy(ctx context.Context) (models.StrategyConfig, error) {
	var cfg models.StrategyConfig
	if err := s.cache.Get(ctx, stateKeyStrategy, &cfg); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.DefaultStrategy(), nil
		}
		return models.StrategyConfig{}, err
	}
	if len(cfg.Stages) == 0 {
		return models.DefaultStrategy(), nil
	}
	return cfg, nil
}

func (s *CacheStateStore) SaveAlerts(ctx context.Context, alerts []models.RiskAlert) error {
	return s.cache.Set(ctx, stateKeyAlerts, alerts, stateTTL)
}

func (s *CacheStateStore) LoadAlerts(ctx context.Context) ([]models.RiskAlert, error) {
	var alerts []models.RiskAlert
	if err := s.cache.Get(ctx, stateKeyAlerts, &alerts); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return alerts, nil
}
