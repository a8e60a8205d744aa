package lifecycle

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func alertAt(ts time.Time) models.RiskAlert {
	return models.RiskAlert{
		TokenID:      "t1",
		TokenAddress: "addr1",
		TokenSymbol:  "TST",
		Type:         models.AlertCorrelation,
		Severity:     models.SeverityWarning,
		Timestamp:    ts,
	}
}

func TestAdmitSuppressesWithinWindow(t *testing.T) {
	d := NewDeduplicator()
	now := time.Now()
	existing := []models.RiskAlert{alertAt(now.Add(-2 * time.Minute))}

	if d.Admit(alertAt(now), existing, nil, now) {
		t.Fatal("duplicate inside 10m window must be suppressed")
	}
}

func TestAdmitAllowsOutsideWindow(t *testing.T) {
	d := NewDeduplicator()
	now := time.Now()
	existing := []models.RiskAlert{alertAt(now.Add(-11 * time.Minute))}

	if !d.Admit(alertAt(now), existing, nil, now) {
		t.Fatal("alert outside the window must be admitted")
	}
}

func TestAdmitDistinguishesType(t *testing.T) {
	d := NewDeduplicator()
	now := time.Now()
	existing := []models.RiskAlert{alertAt(now.Add(-2 * time.Minute))}

	other := alertAt(now)
	other.Type = models.AlertLowLiquidity
	if !d.Admit(other, existing, nil, now) {
		t.Fatal("different type on the same token is not a duplicate")
	}
}

func TestAdmitSuppressesDeadLetterTokens(t *testing.T) {
	d := NewDeduplicator()
	now := time.Now()
	deleted := map[string]struct{}{"t1": {}}

	if d.Admit(alertAt(now), nil, deleted, now) {
		t.Fatal("archived token must not alert")
	}
}

func TestEscalationSelection(t *testing.T) {
	cases := []struct {
		name  string
		alert models.RiskAlert
		want  bool
	}{
		{"critical", models.RiskAlert{Type: models.AlertLowLiquidity, Severity: models.SeverityCritical}, true},
		{"custom rule", models.RiskAlert{Type: models.AlertCustomRule, Severity: models.SeverityInfo}, true},
		{"correlation", models.RiskAlert{Type: models.AlertCorrelation, Severity: models.SeverityWarning}, true},
		{"plain warning", models.RiskAlert{Type: models.AlertLowLiquidity, Severity: models.SeverityWarning}, false},
		{"plain info", models.RiskAlert{Type: models.AlertSystem, Severity: models.SeverityInfo}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.alert.Escalates() != tc.want {
				t.Fatalf("Escalates()=%v, want %v", tc.alert.Escalates(), tc.want)
			}
		})
	}
}
