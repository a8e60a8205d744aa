package usecase

import (
	"sync"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
)

const (
	maxAlertFeed  = 500
	maxGraveyard  = 200
	maxSystemLogs = 500
	maxTracked    = 2000
)

// Tracker holds the live observation state between ticks: the tracked set,
// the strategy, the alert feed, the recent graveyard and the system log.
// Cycles read a snapshot and commit results back; readers never see a pass
// in progress.
type Tracker struct {
	mu         sync.RWMutex
	tokens     []models.Token
	strategy   models.StrategyConfig
	alerts     []models.RiskAlert     // newest first
	graveyard  []models.DeletedToken  // newest first, capped; full archive lives in ClickHouse
	deletedIDs map[string]struct{}
	logs       []models.SystemLog // newest first, capped
	lastErr    string
	metrics    drepo.Metrics
}

// NewTracker creates a tracker with the given starting strategy.
func NewTracker(strategy models.StrategyConfig, metrics drepo.Metrics) *Tracker {
	return &Tracker{
		strategy:   strategy,
		deletedIDs: make(map[string]struct{}),
		metrics:    metrics,
	}
}

// Restore seeds the tracker from persisted state.
func (tr *Tracker) Restore(tokens []models.Token, alerts []models.RiskAlert, dead []models.DeletedToken) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.tokens = tokens
	tr.alerts = alerts
	tr.graveyard = dead
	for i := range dead {
		tr.deletedIDs[dead[i].ID] = struct{}{}
	}
}

// Add registers a freshly-launched token. Duplicates and already-buried
// addresses are ignored.
func (tr *Tracker) Add(ev models.NewTokenEvent) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if len(tr.tokens) >= maxTracked {
		return false
	}
	if _, buried := tr.deletedIDs[ev.Address]; buried {
		return false
	}
	for i := range tr.tokens {
		if tr.tokens[i].Address == ev.Address {
			return false
		}
	}

	tr.tokens = append(tr.tokens, ev.Token())
	if tr.metrics != nil {
		tr.metrics.RecordTokenAdded()
	}
	return true
}

// Snapshot returns the input for one cycle, copied under the read lock.
func (tr *Tracker) Snapshot(now time.Time) CycleInput {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	deleted := make(map[string]struct{}, len(tr.deletedIDs))
	for id := range tr.deletedIDs {
		deleted[id] = struct{}{}
	}

	return CycleInput{
		Tokens:     cloneTokens(tr.tokens),
		Strategy:   tr.strategy,
		AlertFeed:  append([]models.RiskAlert(nil), tr.alerts...),
		DeletedIDs: deleted,
		Now:        now,
	}
}

// Commit merges a cycle's outputs back into the live state. The cycle ran
// against a snapshot, so live mutations that raced the pass win: tokens
// admitted after the snapshot are carried over, and ownership flips made
// mid-cycle are re-applied to the retained set.
func (tr *Tracker) Commit(res CycleResult) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	retained := res.Retained
	byAddr := make(map[string]int, len(retained))
	for i := range retained {
		byAddr[retained[i].Address] = i
	}
	removed := make(map[string]struct{}, len(res.Removed))
	for i := range res.Removed {
		removed[res.Removed[i].Address] = struct{}{}
	}

	for i := range tr.tokens {
		live := &tr.tokens[i]
		if j, ok := byAddr[live.Address]; ok {
			retained[j].IsOwned = live.IsOwned
			continue
		}
		if _, gone := removed[live.Address]; gone {
			continue
		}
		// Admitted after the snapshot; the next cycle sorts it into place.
		retained = append(retained, *live)
	}
	tr.tokens = retained

	for i := len(res.Removed) - 1; i >= 0; i-- {
		d := res.Removed[i]
		tr.graveyard = append([]models.DeletedToken{d}, tr.graveyard...)
		tr.deletedIDs[d.ID] = struct{}{}
	}
	if len(tr.graveyard) > maxGraveyard {
		tr.graveyard = tr.graveyard[:maxGraveyard]
	}

	if len(res.Alerts) > 0 {
		tr.alerts = append(append([]models.RiskAlert(nil), res.Alerts...), tr.alerts...)
		if len(tr.alerts) > maxAlertFeed {
			tr.alerts = tr.alerts[:maxAlertFeed]
		}
	}

	for _, l := range res.Logs {
		tr.logs = append([]models.SystemLog{l}, tr.logs...)
	}
	if len(tr.logs) > maxSystemLogs {
		tr.logs = tr.logs[:maxSystemLogs]
	}
}

// Tokens returns a copy of the tracked set.
func (tr *Tracker) Tokens() []models.Token {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return cloneTokens(tr.tokens)
}

// Alerts returns a copy of the alert feed, newest first.
func (tr *Tracker) Alerts() []models.RiskAlert {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return append([]models.RiskAlert(nil), tr.alerts...)
}

// Graveyard returns the recent dead-letter list, newest first.
func (tr *Tracker) Graveyard() []models.DeletedToken {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return append([]models.DeletedToken(nil), tr.graveyard...)
}

// Logs returns recent system log entries, newest first.
func (tr *Tracker) Logs() []models.SystemLog {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return append([]models.SystemLog(nil), tr.logs...)
}

// AddLog appends an operator-visible log entry.
func (tr *Tracker) AddLog(level models.SystemLogLevel, msg string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.logs = append([]models.SystemLog{{Level: level, Message: msg, Timestamp: time.Now()}}, tr.logs...)
	if len(tr.logs) > maxSystemLogs {
		tr.logs = tr.logs[:maxSystemLogs]
	}
}

// Strategy returns the active strategy value.
func (tr *Tracker) Strategy() models.StrategyConfig {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.strategy
}

// SetStrategy swaps the strategy; the next cycle picks it up.
func (tr *Tracker) SetStrategy(cfg models.StrategyConfig) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.strategy = cfg
}

// MarkOwned flips the portfolio exemption on a tracked token.
func (tr *Tracker) MarkOwned(id string, owned bool) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for i := range tr.tokens {
		if tr.tokens[i].ID == id {
			tr.tokens[i].IsOwned = owned
			return true
		}
	}
	return false
}

// FindToken looks up a tracked token by id or address.
func (tr *Tracker) FindToken(key string) (models.Token, bool) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	for i := range tr.tokens {
		if tr.tokens[i].ID == key || tr.tokens[i].Address == key {
			return tr.tokens[i].Clone(), true
		}
	}
	return models.Token{}, false
}

// SetError surfaces a tick-level failure to the status endpoint.
func (tr *Tracker) SetError(msg string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.lastErr = msg
}

// ClearError drops the surfaced failure.
func (tr *Tracker) ClearError() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.lastErr = ""
}

// LastError returns the surfaced failure, empty when healthy.
func (tr *Tracker) LastError() string {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.lastErr
}

// Counts reports tracked/buried/alert totals for the status endpoint.
func (tr *Tracker) Counts() (tracked, buried, alerts int) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return len(tr.tokens), len(tr.graveyard), len(tr.alerts)
}

func cloneTokens(in []models.Token) []models.Token {
	out := make([]models.Token, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
