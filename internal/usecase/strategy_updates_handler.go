package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
	pkgkafka "github.com/Vitek192/sola-sub000/pkg/kafka"
	"github.com/Vitek192/sola-sub000/pkg/logger"
)

// StrategyUpdatesHandler consumes strategy configuration pushed from the
// settings surface. The new strategy applies from the next cycle on.
type StrategyUpdatesHandler struct {
	topic   string
	tracker *Tracker
	state   drepo.StateStore
	metrics drepo.Metrics
	logger  *logger.Logger
}

func NewStrategyUpdatesHandler(topic string, tracker *Tracker, state drepo.StateStore, metrics drepo.Metrics, log *logger.Logger) *StrategyUpdatesHandler {
	return &StrategyUpdatesHandler{topic: topic, tracker: tracker, state: state, metrics: metrics, logger: log}
}

func (h *StrategyUpdatesHandler) Topic() string { return h.topic }

func (h *StrategyUpdatesHandler) Handle(ctx context.Context, b []byte) error {
	var cfg models.StrategyConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if len(cfg.Stages) == 0 {
		h.metrics.RecordError("strategy_invalid")
		return fmt.Errorf("strategy update without stages")
	}

	h.tracker.SetStrategy(cfg)
	if h.state != nil {
		if err := h.state.SaveStrategy(ctx, cfg); err != nil {
			h.metrics.RecordError("state_save")
			h.logger.Error("strategy persist failed", logger.Error(err))
		}
	}
	h.logger.Info("strategy updated",
		logger.Int("stages", len(cfg.Stages)),
		logger.Int("correlations", len(cfg.Correlations)))
	return nil
}

var _ pkgkafka.MessageHandler = (*StrategyUpdatesHandler)(nil)
