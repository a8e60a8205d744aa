package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/internal/services/lifecycle"
)

// CycleResult carries the outputs of one filtering pass.
type CycleResult struct {
	Retained  []models.Token
	Removed   []models.DeletedToken
	Alerts    []models.RiskAlert // admitted this cycle, newest first
	Escalated []models.RiskAlert // subset of Alerts forwarded to the notifier
	Logs      []models.SystemLog
}

// CycleInput is the state snapshot a pass operates on, taken at cycle start.
type CycleInput struct {
	Tokens     []models.Token
	Strategy   models.StrategyConfig
	AlertFeed  []models.RiskAlert  // existing feed, newest first
	DeletedIDs map[string]struct{} // archive as of the previous commit
	Now        time.Time
}

// Cycle is the per-tick orchestrator: it composes stage resolution,
// threshold overrides, correlation evaluation, deletion and alert
// deduplication into one pass over the tracked set.
type Cycle struct {
	dedup *lifecycle.Deduplicator
}

// NewCycle creates a cycle orchestrator.
func NewCycle() *Cycle {
	return &Cycle{dedup: lifecycle.NewDeduplicator()}
}

// Run evaluates every token against the strategy and partitions the set.
// Input tokens are cloned, not mutated; the caller's slice stays valid for
// concurrent readers until the result is committed.
func (c *Cycle) Run(in CycleInput) CycleResult {
	var res CycleResult
	maxAge := in.Strategy.MaxTrackingAge()

	// Alerts admitted during this pass join the feed immediately so later
	// tokens dedup against them too.
	feed := in.AlertFeed

	for i := range in.Tokens {
		tok := in.Tokens[i].Clone()
		tok.ActiveRisk = nil

		age := tok.Age(in.Now)

		ev := lifecycle.EvaluateCorrelations(&tok, in.Strategy.Correlations, age.Minutes(), in.Now)
		tok.ActiveRisk = ev.Annotation
		for _, a := range ev.Alerts {
			if !c.dedup.Admit(a, feed, in.DeletedIDs, in.Now) {
				continue
			}
			feed = prependAlert(feed, a)
			res.Alerts = prependAlert(res.Alerts, a)
			if a.Escalates() {
				res.Escalated = append(res.Escalated, a)
			}
		}

		stage := lifecycle.ResolveStage(age, in.Strategy.Stages)
		th := lifecycle.MergeThresholds(stage, tok.StrategyOverride)

		if dec := lifecycle.Decide(&tok, age, th, maxAge); dec.Remove {
			res.Removed = append(res.Removed, models.DeletedToken{
				Token:          tok,
				DeletedAt:      in.Now,
				DeletionReason: dec.Reason,
			})
			continue
		}
		res.Retained = append(res.Retained, tok)
	}

	// Owned positions first (stable among themselves), newest launches next.
	sort.SliceStable(res.Retained, func(i, j int) bool {
		a, b := &res.Retained[i], &res.Retained[j]
		if a.IsOwned != b.IsOwned {
			return a.IsOwned
		}
		if a.IsOwned {
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	if len(res.Removed) > 0 {
		res.Logs = append(res.Logs, models.SystemLog{
			Level:     models.LogWarning,
			Message:   fmt.Sprintf("Removed %d tokens via Filters", len(res.Removed)),
			Timestamp: in.Now,
		})
	}

	return res
}

func prependAlert(feed []models.RiskAlert, a models.RiskAlert) []models.RiskAlert {
	out := make([]models.RiskAlert, 0, len(feed)+1)
	out = append(out, a)
	return append(out, feed...)
}
