package usecase

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func TestTrackerAddDeduplicates(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	ev := models.NewTokenEvent{Address: "addr1", Symbol: "TK1", CreatedAt: time.Now()}

	if !tr.Add(ev) {
		t.Fatal("first add rejected")
	}
	if tr.Add(ev) {
		t.Error("duplicate address admitted")
	}
	if got, _, _ := tr.Counts(); got != 1 {
		t.Errorf("tracked = %d, want 1", got)
	}
}

func TestTrackerBuriedAddressStaysOut(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	now := time.Now()

	tr.Add(models.NewTokenEvent{Address: "addr1", Symbol: "TK1", CreatedAt: now})
	in := tr.Snapshot(now)
	tr.Commit(CycleResult{
		Removed: []models.DeletedToken{{
			Token:          in.Tokens[0],
			DeletedAt:      now,
			DeletionReason: "Rug Pull (-90%)",
		}},
	})

	if tr.Add(models.NewTokenEvent{Address: "addr1", Symbol: "TK1", CreatedAt: now}) {
		t.Error("buried address re-admitted")
	}
	if tracked, buried, _ := tr.Counts(); tracked != 0 || buried != 1 {
		t.Errorf("counts = %d tracked / %d buried", tracked, buried)
	}
	if got := tr.Graveyard(); len(got) != 1 || got[0].DeletionReason != "Rug Pull (-90%)" {
		t.Errorf("graveyard = %+v", got)
	}
}

func TestTrackerSnapshotIsolation(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	now := time.Now()
	tr.Add(models.NewTokenEvent{Address: "addr1", Symbol: "TK1", CreatedAt: now, InitialPrice: 1})

	in := tr.Snapshot(now)
	in.Tokens[0].Symbol = "MUT"
	in.Tokens[0].History[0].Price = 99

	live := tr.Tokens()
	if live[0].Symbol != "TK1" || live[0].History[0].Price != 1 {
		t.Error("snapshot mutation leaked into live state")
	}
}

func TestTrackerCommitPrependsAlertsAndLogs(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	old := models.RiskAlert{TokenAddress: "a", Type: models.AlertSystem, Timestamp: time.Now().Add(-time.Hour)}
	tr.Commit(CycleResult{Alerts: []models.RiskAlert{old}})

	fresh := models.RiskAlert{TokenAddress: "b", Type: models.AlertCorrelation, Timestamp: time.Now()}
	tr.Commit(CycleResult{
		Alerts: []models.RiskAlert{fresh},
		Logs:   []models.SystemLog{{Level: models.LogWarning, Message: "Removed 2 tokens via Filters"}},
	})

	alerts := tr.Alerts()
	if len(alerts) != 2 || alerts[0].TokenAddress != "b" {
		t.Errorf("alert order = %+v", alerts)
	}
	logs := tr.Logs()
	if len(logs) != 1 || logs[0].Message != "Removed 2 tokens via Filters" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestTrackerCommitKeepsMidCycleAdds(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	now := time.Now()
	tr.Add(models.NewTokenEvent{Address: "pre", Symbol: "PRE", CreatedAt: now})

	in := tr.Snapshot(now)
	// A launch lands while the cycle is still running against the snapshot.
	tr.Add(models.NewTokenEvent{Address: "mid", Symbol: "MID", CreatedAt: now})

	tr.Commit(CycleResult{Retained: in.Tokens})

	if tracked, _, _ := tr.Counts(); tracked != 2 {
		t.Fatalf("tracked = %d, want 2", tracked)
	}
	if _, ok := tr.FindToken("mid"); !ok {
		t.Error("token admitted mid-cycle lost on commit")
	}
}

func TestTrackerCommitKeepsMidCycleOwnedFlip(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	now := time.Now()
	tr.Add(models.NewTokenEvent{Address: "addr1", Symbol: "TK1", CreatedAt: now})

	in := tr.Snapshot(now)
	// Operator claims the token while the cycle runs; the snapshot copy
	// still carries IsOwned=false.
	tr.MarkOwned("addr1", true)

	tr.Commit(CycleResult{Retained: in.Tokens})

	tok, ok := tr.FindToken("addr1")
	if !ok || !tok.IsOwned {
		t.Error("mid-cycle owned flip reverted by commit")
	}
}

func TestTrackerCommitStillDropsRemoved(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	now := time.Now()
	tr.Add(models.NewTokenEvent{Address: "dead", Symbol: "DED", CreatedAt: now})
	tr.Add(models.NewTokenEvent{Address: "live", Symbol: "LIV", CreatedAt: now})

	in := tr.Snapshot(now)
	tr.Commit(CycleResult{
		Retained: in.Tokens[1:2],
		Removed: []models.DeletedToken{{
			Token:          in.Tokens[0],
			DeletedAt:      now,
			DeletionReason: "Expired (> 7d 0h)",
		}},
	})

	if tracked, buried, _ := tr.Counts(); tracked != 1 || buried != 1 {
		t.Errorf("counts = %d tracked / %d buried, want 1/1", tracked, buried)
	}
	if _, ok := tr.FindToken("dead"); ok {
		t.Error("removed token survived commit")
	}
}

func TestTrackerMarkOwned(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	tr.Add(models.NewTokenEvent{Address: "addr1", Symbol: "TK1", CreatedAt: time.Now()})

	if !tr.MarkOwned("addr1", true) {
		t.Fatal("mark failed")
	}
	tok, ok := tr.FindToken("addr1")
	if !ok || !tok.IsOwned {
		t.Error("owned flag not set")
	}
	if tr.MarkOwned("missing", true) {
		t.Error("marked a token that does not exist")
	}
}

func TestTrackerErrorBanner(t *testing.T) {
	tr := NewTracker(models.DefaultStrategy(), nil)
	if tr.LastError() != "" {
		t.Fatal("fresh tracker has error")
	}
	tr.SetError("market data unavailable: upstream down")
	if tr.LastError() == "" {
		t.Error("error not surfaced")
	}
	tr.ClearError()
	if tr.LastError() != "" {
		t.Error("error not cleared")
	}
}
