package lifecycle

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func TestEvaluateCorrelationsAgeGate(t *testing.T) {
	rule := models.CorrelationRule{
		Name:          "Dead Pool",
		Metric:        models.MetricTxCount,
		Condition:     models.ConditionEQ,
		Value:         0,
		MinAgeMinutes: 30,
		Enabled:       true,
	}
	tok := &models.Token{ID: "t1", Address: "addr1", Symbol: "TST", TxCount: 0}
	now := time.Now()

	old := EvaluateCorrelations(tok, []models.CorrelationRule{rule}, 40, now)
	if len(old.Triggered) != 1 {
		t.Fatalf("expected trigger at 40m, got %d", len(old.Triggered))
	}

	young := EvaluateCorrelations(tok, []models.CorrelationRule{rule}, 10, now)
	if len(young.Triggered) != 0 {
		t.Fatalf("expected no trigger at 10m, got %d", len(young.Triggered))
	}
	if young.Annotation != nil {
		t.Fatalf("no annotation without triggers")
	}
}

func TestEvaluateCorrelationsOperators(t *testing.T) {
	now := time.Now()
	tok := &models.Token{ID: "t1", Address: "addr1", Symbol: "TST", PriceChange5m: -35.5, NetVolume: 120}

	cases := []struct {
		name string
		rule models.CorrelationRule
		hit  bool
	}{
		{"lt hit", models.CorrelationRule{Name: "dump", Metric: models.MetricPriceChange5m, Condition: models.ConditionLT, Value: -30, Enabled: true}, true},
		{"lt miss", models.CorrelationRule{Name: "dump", Metric: models.MetricPriceChange5m, Condition: models.ConditionLT, Value: -40, Enabled: true}, false},
		{"gt hit", models.CorrelationRule{Name: "flow", Metric: models.MetricNetVolume, Condition: models.ConditionGT, Value: 100, Enabled: true}, true},
		{"gt boundary", models.CorrelationRule{Name: "flow", Metric: models.MetricNetVolume, Condition: models.ConditionGT, Value: 120, Enabled: true}, false},
		{"eq exact", models.CorrelationRule{Name: "flat", Metric: models.MetricNetVolume, Condition: models.ConditionEQ, Value: 120, Enabled: true}, true},
		{"disabled", models.CorrelationRule{Name: "flow", Metric: models.MetricNetVolume, Condition: models.ConditionGT, Value: 100, Enabled: false}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := EvaluateCorrelations(tok, []models.CorrelationRule{tc.rule}, 60, now)
			if (len(ev.Triggered) == 1) != tc.hit {
				t.Fatalf("hit=%v, triggered=%d", tc.hit, len(ev.Triggered))
			}
		})
	}
}

func TestEvaluateCorrelationsAnnotation(t *testing.T) {
	now := time.Now()
	tok := &models.Token{
		ID: "t1", Address: "addr1", Symbol: "TST",
		TxCount:       0,
		PriceChange5m: -50,
	}
	rules := []models.CorrelationRule{
		{Name: "Dead Pool", Metric: models.MetricTxCount, Condition: models.ConditionEQ, Value: 0, Enabled: true},
		{Name: "Dump Velocity", Metric: models.MetricPriceChange5m, Condition: models.ConditionLT, Value: -30, Enabled: true},
	}

	ev := EvaluateCorrelations(tok, rules, 60, now)
	if len(ev.Alerts) != 2 {
		t.Fatalf("expected 2 alert candidates, got %d", len(ev.Alerts))
	}
	if ev.Annotation == nil {
		t.Fatal("expected aggregated annotation")
	}
	if ev.Annotation.Message != "Risk Pattern Detected" {
		t.Fatalf("unexpected message %q", ev.Annotation.Message)
	}
	if len(ev.Annotation.Details) != 2 {
		t.Fatalf("expected 2 details, got %v", ev.Annotation.Details)
	}
	if ev.Annotation.Details[0] != "Dead Pool (0)" {
		t.Fatalf("unexpected detail %q", ev.Annotation.Details[0])
	}
	if ev.Annotation.Details[1] != "Dump Velocity (-50)" {
		t.Fatalf("unexpected detail %q", ev.Annotation.Details[1])
	}

	a := ev.Alerts[0]
	if a.Type != models.AlertCorrelation || a.Severity != models.SeverityWarning {
		t.Fatalf("unexpected alert classification %+v", a)
	}
	if a.Value != "0" {
		t.Fatalf("unexpected literal value %q", a.Value)
	}
}

func TestEvaluateCorrelationsVolume24hFromLatestSnapshot(t *testing.T) {
	now := time.Now()
	tok := &models.Token{
		ID: "t1", Address: "addr1", Symbol: "TST",
		History: []models.MetricSnapshot{
			{Volume24h: 10},
			{Volume24h: 5000},
		},
	}
	rule := models.CorrelationRule{Name: "hot", Metric: models.MetricVolume24h, Condition: models.ConditionGT, Value: 1000, Enabled: true}
	ev := EvaluateCorrelations(tok, []models.CorrelationRule{rule}, 60, now)
	if len(ev.Triggered) != 1 {
		t.Fatalf("expected latest snapshot volume to fire, got %d triggers", len(ev.Triggered))
	}
}
