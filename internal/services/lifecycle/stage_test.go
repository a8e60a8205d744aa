package lifecycle

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func stage(name string, enabled bool, start float64) models.LifecycleStage {
	return models.LifecycleStage{Name: name, Enabled: enabled, StartAgeMinutes: start}
}

func TestResolveStagePicksLatestStarted(t *testing.T) {
	stages := []models.LifecycleStage{
		stage("launch", true, 0),
		stage("growth", true, 60),
		stage("mature", true, 1440),
	}
	got := ResolveStage(90*time.Minute, stages)
	if got.Name != "growth" {
		t.Fatalf("expected growth, got %s", got.Name)
	}
}

func TestResolveStageAllDisabledFallsBackToFirst(t *testing.T) {
	stages := []models.LifecycleStage{
		stage("a", false, 0),
		stage("b", false, 60),
	}
	got := ResolveStage(90*time.Minute, stages)
	if got.Name != "a" {
		t.Fatalf("expected first configured stage, got %s", got.Name)
	}
}

func TestResolveStageYoungerThanAllEnabled(t *testing.T) {
	// No enabled stage has started yet: the entry-order tail of the
	// enabled list wins, not the smallest start age.
	stages := []models.LifecycleStage{
		stage("late", true, 120),
		stage("early", true, 30),
	}
	got := ResolveStage(5*time.Minute, stages)
	if got.Name != "early" {
		t.Fatalf("expected early (enabled tail), got %s", got.Name)
	}
}

func TestResolveStageDoesNotReorderInput(t *testing.T) {
	stages := []models.LifecycleStage{
		stage("mature", true, 1440),
		stage("launch", true, 0),
		stage("growth", true, 60),
	}
	_ = ResolveStage(2*time.Hour, stages)
	if stages[0].Name != "mature" || stages[1].Name != "launch" || stages[2].Name != "growth" {
		t.Fatalf("input slice was reordered: %v", stages)
	}
}

func TestResolveStageTotality(t *testing.T) {
	cases := []struct {
		name   string
		age    time.Duration
		stages []models.LifecycleStage
	}{
		{"empty list", time.Hour, nil},
		{"all disabled", time.Hour, []models.LifecycleStage{stage("x", false, 0)}},
		{"zero age", 0, []models.LifecycleStage{stage("x", true, 0)}},
		{"huge age", 1000 * time.Hour, []models.LifecycleStage{stage("x", true, 10)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// must not panic; value result is always usable
			_ = ResolveStage(tc.age, tc.stages)
		})
	}
}

func TestMergeThresholdsHonorsZeroOverride(t *testing.T) {
	st := models.LifecycleStage{MinLiquidity: 5000, MaxLiquidity: 100000, MaxMcap: 1000000}
	zero := 0.0
	th := MergeThresholds(st, &models.StrategyOverride{MinLiquidity: &zero})
	if th.MinLiquidity != 0 {
		t.Fatalf("zero override must win, got %v", th.MinLiquidity)
	}
	if th.MaxMcap != 1000000 {
		t.Fatalf("unset fields fall back to stage, got %v", th.MaxMcap)
	}
}

func TestMergeThresholdsNilOverride(t *testing.T) {
	st := models.LifecycleStage{MinLiquidity: 5000, MaxLiquidity: 100000, MaxMcap: 1000000}
	th := MergeThresholds(st, nil)
	if th.MinLiquidity != 5000 || th.MaxLiquidity != 100000 || th.MaxMcap != 1000000 {
		t.Fatalf("unexpected thresholds %+v", th)
	}
}
