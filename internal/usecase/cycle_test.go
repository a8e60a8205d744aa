package usecase

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func launchedToken(id string, createdAt time.Time, launchPrice float64) models.Token {
	return models.Token{
		ID:        id,
		Address:   id,
		Symbol:    "TK" + id,
		CreatedAt: createdAt,
		History: []models.MetricSnapshot{{
			Price:     launchPrice,
			Liquidity: 50_000,
			MarketCap: 1_000_000,
			Timestamp: createdAt,
		}},
	}
}

func withLatest(t models.Token, snap models.MetricSnapshot) models.Token {
	t.History = append(t.History, snap)
	return t
}

func TestCycleRemovesRuggedToken(t *testing.T) {
	now := time.Now()
	created := now.Add(-90 * time.Minute)

	tok := withLatest(launchedToken("t1", created, 1.0), models.MetricSnapshot{
		Price:     0.05,
		Liquidity: 50_000,
		MarketCap: 1_000_000,
		Timestamp: now,
	})

	res := NewCycle().Run(CycleInput{
		Tokens:     []models.Token{tok},
		Strategy:   models.DefaultStrategy(),
		DeletedIDs: map[string]struct{}{},
		Now:        now,
	})

	if len(res.Removed) != 1 {
		t.Fatalf("removed = %d, want 1", len(res.Removed))
	}
	if got := res.Removed[0].DeletionReason; got != "Rug Pull (-90%)" {
		t.Errorf("reason = %q", got)
	}
	if !res.Removed[0].DeletedAt.Equal(now) {
		t.Errorf("deletedAt = %v, want cycle time", res.Removed[0].DeletedAt)
	}
	if len(res.Retained) != 0 {
		t.Errorf("retained = %d, want 0", len(res.Retained))
	}
	if len(res.Logs) != 1 || res.Logs[0].Message != "Removed 1 tokens via Filters" {
		t.Errorf("logs = %+v", res.Logs)
	}
	if res.Logs[0].Level != models.LogWarning {
		t.Errorf("log level = %q", res.Logs[0].Level)
	}
}

func TestCycleSortOwnedFirstThenNewest(t *testing.T) {
	now := time.Now()
	healthy := func(id string, age time.Duration, owned bool) models.Token {
		tok := withLatest(launchedToken(id, now.Add(-age), 1.0), models.MetricSnapshot{
			Price:     1.1,
			Liquidity: 100_000,
			MarketCap: 1_000_000,
			Timestamp: now,
		})
		tok.IsOwned = owned
		return tok
	}

	in := CycleInput{
		Tokens: []models.Token{
			healthy("a", 3*time.Hour, false),
			healthy("own1", 5*time.Hour, true),
			healthy("b", 1*time.Hour, false),
			healthy("own2", 2*time.Hour, true),
		},
		Strategy:   models.DefaultStrategy(),
		DeletedIDs: map[string]struct{}{},
		Now:        now,
	}
	res := NewCycle().Run(in)

	want := []string{"own1", "own2", "b", "a"}
	if len(res.Retained) != len(want) {
		t.Fatalf("retained = %d, want %d", len(res.Retained), len(want))
	}
	for i, id := range want {
		if res.Retained[i].ID != id {
			t.Errorf("retained[%d] = %s, want %s", i, res.Retained[i].ID, id)
		}
	}
	// owned tokens keep their relative input order even when older
	if res.Retained[0].ID != "own1" {
		t.Errorf("owned order not stable: %s first", res.Retained[0].ID)
	}
}

func TestCycleDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	tok := withLatest(launchedToken("t1", now.Add(-40*time.Minute), 1.0), models.MetricSnapshot{
		Price:     1.0,
		Liquidity: 100_000,
		MarketCap: 1_000_000,
		Timestamp: now,
	})
	tok.TxCount = 0 // trips the Dead Pool rule
	tok.ActiveRisk = &models.RiskAnnotation{Message: "stale"}

	in := CycleInput{
		Tokens:     []models.Token{tok},
		Strategy:   models.DefaultStrategy(),
		DeletedIDs: map[string]struct{}{},
		Now:        now,
	}
	res := NewCycle().Run(in)

	if in.Tokens[0].ActiveRisk == nil || in.Tokens[0].ActiveRisk.Message != "stale" {
		t.Error("input token was mutated")
	}
	if len(res.Retained) != 1 {
		t.Fatalf("retained = %d, want 1", len(res.Retained))
	}
	if res.Retained[0].ActiveRisk == nil {
		t.Fatal("annotation missing on retained clone")
	}
	if got := res.Retained[0].ActiveRisk.Message; got != "Risk Pattern Detected" {
		t.Errorf("annotation = %q", got)
	}
}

func TestCycleAlertFlow(t *testing.T) {
	now := time.Now()
	trip := func(id string, age time.Duration) models.Token {
		tok := withLatest(launchedToken(id, now.Add(-age), 1.0), models.MetricSnapshot{
			Price:     1.0,
			Liquidity: 100_000,
			MarketCap: 1_000_000,
			Timestamp: now,
		})
		tok.TxCount = 0
		return tok
	}

	t.Run("fresh alert is admitted and escalated", func(t *testing.T) {
		res := NewCycle().Run(CycleInput{
			Tokens:     []models.Token{trip("t1", 40 * time.Minute)},
			Strategy:   models.DefaultStrategy(),
			DeletedIDs: map[string]struct{}{},
			Now:        now,
		})
		if len(res.Alerts) != 1 {
			t.Fatalf("alerts = %d, want 1", len(res.Alerts))
		}
		a := res.Alerts[0]
		if a.Type != models.AlertCorrelation {
			t.Errorf("type = %q", a.Type)
		}
		if a.Message != "Pattern Triggered: Dead Pool" {
			t.Errorf("message = %q", a.Message)
		}
		if len(res.Escalated) != 1 {
			t.Errorf("escalated = %d, want 1", len(res.Escalated))
		}
	})

	t.Run("recent identical alert suppresses", func(t *testing.T) {
		res := NewCycle().Run(CycleInput{
			Tokens:   []models.Token{trip("t1", 40 * time.Minute)},
			Strategy: models.DefaultStrategy(),
			AlertFeed: []models.RiskAlert{{
				TokenAddress: "t1",
				Type:         models.AlertCorrelation,
				Timestamp:    now.Add(-2 * time.Minute),
			}},
			DeletedIDs: map[string]struct{}{},
			Now:        now,
		})
		if len(res.Alerts) != 0 {
			t.Errorf("alerts = %d, want 0", len(res.Alerts))
		}
	})

	t.Run("buried token never alerts", func(t *testing.T) {
		res := NewCycle().Run(CycleInput{
			Tokens:     []models.Token{trip("t1", 40 * time.Minute)},
			Strategy:   models.DefaultStrategy(),
			DeletedIDs: map[string]struct{}{"t1": {}},
			Now:        now,
		})
		if len(res.Alerts) != 0 {
			t.Errorf("alerts = %d, want 0", len(res.Alerts))
		}
	})

	t.Run("young token skips age-gated rule", func(t *testing.T) {
		res := NewCycle().Run(CycleInput{
			Tokens:     []models.Token{trip("t1", 10 * time.Minute)},
			Strategy:   models.DefaultStrategy(),
			DeletedIDs: map[string]struct{}{},
			Now:        now,
		})
		if len(res.Alerts) != 0 {
			t.Errorf("alerts = %d, want 0", len(res.Alerts))
		}
	})
}

func TestCycleOwnedExemptFromRemoval(t *testing.T) {
	now := time.Now()
	tok := withLatest(launchedToken("own", now.Add(-90*time.Minute), 1.0), models.MetricSnapshot{
		Price:     0.01, // -99% from launch
		Liquidity: 0,
		MarketCap: 1_000_000,
		Timestamp: now,
	})
	tok.IsOwned = true

	res := NewCycle().Run(CycleInput{
		Tokens:     []models.Token{tok},
		Strategy:   models.DefaultStrategy(),
		DeletedIDs: map[string]struct{}{},
		Now:        now,
	})
	if len(res.Removed) != 0 {
		t.Fatalf("removed = %d, want 0", len(res.Removed))
	}
	if len(res.Retained) != 1 {
		t.Fatalf("retained = %d, want 1", len(res.Retained))
	}
}

func TestCycleExpiredBeatsOtherReasons(t *testing.T) {
	now := time.Now()
	// 8 days old with rugged price: expiry must win.
	tok := withLatest(launchedToken("t1", now.Add(-8*24*time.Hour), 1.0), models.MetricSnapshot{
		Price:     0.01,
		Liquidity: 0,
		MarketCap: 1_000_000,
		Timestamp: now,
	})

	res := NewCycle().Run(CycleInput{
		Tokens:     []models.Token{tok},
		Strategy:   models.DefaultStrategy(),
		DeletedIDs: map[string]struct{}{},
		Now:        now,
	})
	if len(res.Removed) != 1 {
		t.Fatalf("removed = %d, want 1", len(res.Removed))
	}
	if got := res.Removed[0].DeletionReason; got != "Expired (> 7d 0h)" {
		t.Errorf("reason = %q", got)
	}
}
