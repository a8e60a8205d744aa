package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"verdict":"SCAM"}`, `{"verdict":"SCAM"}`},
		{"fenced", "```json\n{\"verdict\":\"BEARISH\"}\n```", `{"verdict":"BEARISH"}`},
		{"prose around", `Here you go: {"verdict":"NEUTRAL"} hope that helps`, `{"verdict":"NEUTRAL"}`},
		{"no braces", "cannot answer", "cannot answer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	now := time.Now()
	tok := models.Token{
		Address:   "So1anaMint111",
		Symbol:    "PUMP",
		CreatedAt: now.Add(-2 * time.Hour),
		History: []models.MetricSnapshot{
			{Timestamp: now.Add(-time.Hour), Price: 0.001, Liquidity: 40_000, MarketCap: 800_000},
			{Timestamp: now, Price: 0.0005, Liquidity: 20_000, MarketCap: 400_000, Volume24h: 90_000},
		},
		PriceChange1h: -50,
		TxCount:       120,
		ActiveRisk: &models.RiskAnnotation{
			Message: "Risk Pattern Detected",
			Details: []string{"Dead Pool"},
		},
	}

	prompt := buildPrompt(&tok)
	for _, want := range []string{"PUMP", "So1anaMint111", "Liquidity: 20000", "Risk Pattern Detected", "Dead Pool"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "volatility") {
		t.Errorf("two snapshots should not produce a volatility line:\n%s", prompt)
	}
}
