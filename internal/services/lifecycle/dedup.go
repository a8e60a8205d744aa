package lifecycle

import (
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

// DedupWindow is how long a (token, type) pair stays muted after an alert.
const DedupWindow = 10 * time.Minute

// Deduplicator suppresses repeat alerts and alerts for tokens already in
// the dead-letter archive.
type Deduplicator struct {
	window time.Duration
}

// NewDeduplicator creates a deduplicator with the default window.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{window: DedupWindow}
}

// Admit reports whether the candidate alert should be emitted.
//
// deletedIDs is the archive snapshot taken at cycle start, so a token
// removed later in the same pass can still alert once before removal is
// committed; only prior-cycle removals are muted here.
func (d *Deduplicator) Admit(candidate models.RiskAlert, existing []models.RiskAlert, deletedIDs map[string]struct{}, now time.Time) bool {
	if _, gone := deletedIDs[candidate.TokenID]; gone {
		return false
	}
	for i := range existing {
		a := &existing[i]
		if a.TokenAddress == candidate.TokenAddress &&
			a.Type == candidate.Type &&
			now.Sub(a.Timestamp) < d.window {
			return false
		}
	}
	return true
}
