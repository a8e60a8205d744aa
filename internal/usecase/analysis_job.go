package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
	dservice "github.com/Vitek192/sola-sub000/internal/domain/service"
	"github.com/Vitek192/sola-sub000/pkg/cache"
	"github.com/Vitek192/sola-sub000/pkg/logger"
	"github.com/Vitek192/sola-sub000/pkg/queue"
)

const (
	// AnalysisJobType is the queue message type for token analysis requests.
	AnalysisJobType = "token_analysis"

	analysisResultTTL = 30 * time.Minute
)

// AnalysisPayload is the queued request body.
type AnalysisPayload struct {
	Address string `json:"address"`
}

// AnalysisJob runs AI analysis for a tracked token off the request path.
// Results land in the cache where the read endpoint picks them up.
type AnalysisJob struct {
	tracker  *Tracker
	analyzer dservice.Analyzer
	cache    cache.Service
	metrics  drepo.Metrics
	logger   *logger.Logger
}

func NewAnalysisJob(tracker *Tracker, analyzer dservice.Analyzer, c cache.Service, metrics drepo.Metrics, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{tracker: tracker, analyzer: analyzer, cache: c, metrics: metrics, logger: log}
}

func (j *AnalysisJob) Name() string { return "token-analysis" }
func (j *AnalysisJob) Type() string { return AnalysisJobType }

func (j *AnalysisJob) Handle(ctx context.Context, payload interface{}) error {
	req, err := queue.ParsePayload[AnalysisPayload](payload)
	if err != nil {
		j.metrics.RecordError("analysis_payload")
		return err
	}

	token, ok := j.tracker.FindToken(req.Address)
	if !ok {
		// Token may have been removed between enqueue and execution; not
		// worth a retry.
		j.logger.Debug("analysis target no longer tracked", logger.String("address", req.Address))
		return nil
	}

	started := time.Now()
	result, err := j.analyzer.Analyze(ctx, token)
	j.metrics.RecordLatency("analysis_seconds", time.Since(started).Seconds())
	if err != nil {
		j.metrics.RecordError("analysis")
		return fmt.Errorf("analyze %s: %w", req.Address, err)
	}

	if err := j.cache.Set(ctx, AnalysisCacheKey(req.Address), result, analysisResultTTL); err != nil {
		j.metrics.RecordError("analysis_cache")
		return err
	}
	j.logger.Info("token analysis complete",
		logger.String("address", req.Address),
		logger.String("verdict", result.Verdict),
		logger.String("provider", result.Provider))
	return nil
}

// AnalysisCacheKey is the cache key for a token's stored analysis result.
func AnalysisCacheKey(address string) string {
	return "analysis:" + address
}

var _ queue.Job = (*AnalysisJob)(nil)
