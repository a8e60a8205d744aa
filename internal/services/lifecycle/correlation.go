package lifecycle

import (
	"fmt"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/pkg/util"
)

// Trigger is one correlation rule hit with the metric value that fired it.
type Trigger struct {
	Name  string
	Value float64
}

// Description renders the trigger for the risk annotation detail list.
func (t Trigger) Description() string {
	return fmt.Sprintf("%s (%s)", t.Name, util.FormatAmount(t.Value))
}

// Evaluation is the outcome of testing one token against the pattern rules.
type Evaluation struct {
	Triggered  []Trigger
	Alerts     []models.RiskAlert
	Annotation *models.RiskAnnotation
}

// EvaluateCorrelations tests a token's live metrics against the enabled
// pattern rules. Rules younger than their age gate are skipped. Hits only
// annotate risk; deletion is a separate concern.
func EvaluateCorrelations(t *models.Token, rules []models.CorrelationRule, ageMinutes float64, now time.Time) Evaluation {
	var ev Evaluation

	for _, r := range rules {
		if !r.Enabled || ageMinutes < r.MinAgeMinutes {
			continue
		}

		v := r.Metric.Resolve(t)

		hit := false
		switch r.Condition {
		case models.ConditionGT:
			hit = v > r.Value
		case models.ConditionLT:
			hit = v < r.Value
		case models.ConditionEQ:
			// exact numeric equality, no epsilon
			hit = v == r.Value
		}
		if !hit {
			continue
		}

		ev.Triggered = append(ev.Triggered, Trigger{Name: r.Name, Value: v})
		ev.Alerts = append(ev.Alerts, models.RiskAlert{
			TokenID:      t.ID,
			TokenAddress: t.Address,
			TokenSymbol:  t.Symbol,
			Type:         models.AlertCorrelation,
			Severity:     models.SeverityWarning,
			Message:      fmt.Sprintf("Pattern Triggered: %s", r.Name),
			Value:        util.FormatAmount(v),
			Timestamp:    now,
		})
	}

	if len(ev.Triggered) > 0 {
		details := make([]string, len(ev.Triggered))
		for i, tr := range ev.Triggered {
			details[i] = tr.Description()
		}
		ev.Annotation = &models.RiskAnnotation{
			Type:     models.AlertCorrelation,
			Severity: models.SeverityWarning,
			Message:  "Risk Pattern Detected",
			Details:  details,
		}
	}

	return ev
}
