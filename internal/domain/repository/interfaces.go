package repository

import (
	"context"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

// LaunchStream delivers freshly-launched token events over a live feed.
type LaunchStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.NewTokenEvent, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// MarketData fetches current metric snapshots for tracked token addresses.
type MarketData interface {
	Snapshots(ctx context.Context, addresses []string) (map[string]models.MetricSnapshot, error)
}

// AlertPublisher pushes admitted risk alerts onto the alert stream.
type AlertPublisher interface {
	Publish(ctx context.Context, a models.RiskAlert) error
	PublishBatch(ctx context.Context, alerts []models.RiskAlert) error
	Close() error
}

// GraveyardStore archives removed tokens. The archive is append-only and
// read newest-first.
type GraveyardStore interface {
	Init(ctx context.Context) error
	Archive(ctx context.Context, dead []models.DeletedToken) error
	Recent(ctx context.Context, limit int) ([]models.DeletedToken, error)
	Health(ctx context.Context) error
	Close() error
}

// StateStore persists live tracker state between restarts.
type StateStore interface {
	SaveTokens(ctx context.Context, tokens []models.Token) error
	LoadTokens(ctx context.Context) ([]models.Token, error)
	SaveStrategy(ctx context.Context, cfg models.StrategyConfig) error
	LoadStrategy(ctx context.Context) (models.StrategyConfig, error)
	SaveAlerts(ctx context.Context, alerts []models.RiskAlert) error
	LoadAlerts(ctx context.Context) ([]models.RiskAlert, error)
}

// Metrics records operational measurements.
type Metrics interface {
	RecordCycle(tracked, removed, alerts int, elapsed time.Duration)
	RecordTokenAdded()
	RecordRemoval(reasonKind string)
	RecordAlert(alertType string, escalated bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
