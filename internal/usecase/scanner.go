package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
	dservice "github.com/Vitek192/sola-sub000/internal/domain/service"
	"github.com/Vitek192/sola-sub000/pkg/logger"
)

// Scanner drives the periodic refresh-and-filter loop. One goroutine owns
// the ticker, so ticks never overlap: a slow pass delays the next one
// instead of racing it.
type Scanner struct {
	tracker   *Tracker
	refresher *Refresher
	cycle     *Cycle
	graveyard drepo.GraveyardStore
	alerts    drepo.AlertPublisher
	state     drepo.StateStore
	notifier  dservice.Notifier
	metrics   drepo.Metrics
	logger    *logger.Logger

	interval time.Duration
	enabled  atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithInterval overrides the default 60s tick interval.
func WithInterval(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithNotifier attaches an escalation channel.
func WithNotifier(n dservice.Notifier) ScannerOption {
	return func(s *Scanner) { s.notifier = n }
}

// NewScanner wires the scan loop over its collaborators.
func NewScanner(
	tracker *Tracker,
	refresher *Refresher,
	cycle *Cycle,
	graveyard drepo.GraveyardStore,
	alerts drepo.AlertPublisher,
	state drepo.StateStore,
	metrics drepo.Metrics,
	log *logger.Logger,
	opts ...ScannerOption,
) *Scanner {
	s := &Scanner{
		tracker:   tracker,
		refresher: refresher,
		cycle:     cycle,
		graveyard: graveyard,
		alerts:    alerts,
		state:     state,
		metrics:   metrics,
		logger:    log,
		interval:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.enabled.Store(true)
	return s
}

// Start launches the tick loop.
func (s *Scanner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop terminates the loop and waits for an in-flight tick to finish.
func (s *Scanner) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Enable resumes ticking after a Disable.
func (s *Scanner) Enable() { s.enabled.Store(true) }

// Disable pauses ticking without tearing down the loop; tracked state stays
// readable while paused.
func (s *Scanner) Disable() { s.enabled.Store(false) }

// Enabled reports whether the loop is actively scanning.
func (s *Scanner) Enabled() bool { return s.enabled.Load() }

// Interval returns the configured tick interval.
func (s *Scanner) Interval() time.Duration { return s.interval }

func (s *Scanner) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.enabled.Load() {
				continue
			}
			s.Tick(ctx)
		}
	}
}

// Tick runs one refresh-and-filter pass. Exported so a forced scan can be
// triggered from the API.
func (s *Scanner) Tick(ctx context.Context) {
	started := time.Now()
	in := s.tracker.Snapshot(started)

	if err := s.refresher.Refresh(ctx, in.Tokens, started); err != nil {
		s.metrics.RecordError("refresh")
		if len(in.Tokens) == 0 {
			// Nothing to show at all: surface the failure.
			s.tracker.SetError("market data unavailable: " + err.Error())
			s.logger.Error("market refresh failed with empty set", logger.Error(err))
			return
		}
		// A stale set beats a blank screen: drop this tick, keep the
		// previous data, stay quiet.
		s.logger.Debug("market refresh failed, keeping previous set", logger.Error(err))
		return
	}
	s.tracker.ClearError()

	res := s.cycle.Run(in)
	s.tracker.Commit(res)
	s.metrics.RecordCycle(len(res.Retained), len(res.Removed), len(res.Alerts), time.Since(started))

	for _, d := range res.Removed {
		s.metrics.RecordRemoval(reasonKind(d.DeletionReason))
	}
	for _, a := range res.Alerts {
		s.metrics.RecordAlert(string(a.Type), a.Escalates())
	}
	for _, l := range res.Logs {
		s.logger.Warn(l.Message, logger.Int("removed", len(res.Removed)))
	}

	s.flush(ctx, res)
	s.persist(ctx)
}

// flush pushes cycle outputs to the downstream surfaces. Failures here are
// recorded but never fail the tick; the committed state is already live.
func (s *Scanner) flush(ctx context.Context, res CycleResult) {
	if len(res.Removed) > 0 && s.graveyard != nil {
		if err := s.graveyard.Archive(ctx, res.Removed); err != nil {
			s.metrics.RecordError("graveyard")
			s.logger.Error("graveyard archive failed", logger.Error(err), logger.Int("count", len(res.Removed)))
		}
	}
	if len(res.Alerts) > 0 && s.alerts != nil {
		if err := s.alerts.PublishBatch(ctx, res.Alerts); err != nil {
			s.metrics.RecordError("alert_publish")
			s.logger.Error("alert publish failed", logger.Error(err), logger.Int("count", len(res.Alerts)))
		}
	}
	if s.notifier != nil {
		for _, a := range res.Escalated {
			if err := s.notifier.Notify(ctx, a.NotifyText()); err != nil {
				s.metrics.RecordError("notify")
				s.logger.Error("notification failed", logger.Error(err), logger.String("type", string(a.Type)))
			}
		}
	}
}

func (s *Scanner) persist(ctx context.Context) {
	if s.state == nil {
		return
	}
	if err := s.state.SaveTokens(ctx, s.tracker.Tokens()); err != nil {
		s.metrics.RecordError("state_save")
		s.logger.Error("token state save failed", logger.Error(err))
	}
	if err := s.state.SaveAlerts(ctx, s.tracker.Alerts()); err != nil {
		s.metrics.RecordError("state_save")
		s.logger.Error("alert state save failed", logger.Error(err))
	}
}

func reasonKind(reason string) string {
	switch {
	case strings.HasPrefix(reason, "Expired"):
		return "expired"
	case strings.HasPrefix(reason, "Liq"):
		return "low_liquidity"
	case strings.HasPrefix(reason, "MCAP"):
		return "mcap_ceiling"
	case strings.HasPrefix(reason, "Rug"):
		return "rug_pull"
	default:
		return "other"
	}
}
