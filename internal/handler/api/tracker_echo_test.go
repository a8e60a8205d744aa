package api

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func sortableToken(addr string, age time.Duration, liquidity, mcap float64) models.Token {
	now := time.Now()
	return models.Token{
		ID:        addr,
		Address:   addr,
		CreatedAt: now.Add(-age),
		History: []models.MetricSnapshot{{
			Timestamp: now,
			Liquidity: liquidity,
			MarketCap: mcap,
		}},
	}
}

func TestSortTokens(t *testing.T) {
	build := func() []models.Token {
		return []models.Token{
			sortableToken("a", 3*time.Hour, 10_000, 900_000),
			sortableToken("b", time.Hour, 30_000, 100_000),
			sortableToken("c", 2*time.Hour, 20_000, 500_000),
		}
	}

	tests := []struct {
		by   string
		want []string
	}{
		{"tracked", []string{"a", "b", "c"}},
		{"age", []string{"a", "c", "b"}},
		{"liquidity", []string{"b", "c", "a"}},
		{"mcap", []string{"a", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.by, func(t *testing.T) {
			tokens := build()
			sortTokens(tokens, tt.by)
			for i, want := range tt.want {
				if tokens[i].Address != want {
					t.Errorf("order[%d] = %s, want %s", i, tokens[i].Address, want)
				}
			}
		})
	}
}
