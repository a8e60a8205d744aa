package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/pkg/logger"
)

type stubMarket struct {
	snaps map[string]models.MetricSnapshot
	err   error
	calls int
}

func (m *stubMarket) Snapshots(_ context.Context, _ []string) (map[string]models.MetricSnapshot, error) {
	m.calls++
	return m.snaps, m.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestRefresherMergesSnapshots(t *testing.T) {
	now := time.Now()
	created := now.Add(-time.Hour)
	tokens := []models.Token{launchedToken("t1", created, 1.0)}

	market := &stubMarket{snaps: map[string]models.MetricSnapshot{
		"t1": {
			Price:      2.0,
			Liquidity:  80_000,
			MarketCap:  2_000_000,
			Buys:       30,
			Sells:      12,
			BuyVolume:  9_000,
			SellVolume: 4_000,
		},
	}}

	r := NewRefresher(market, testLogger(t))
	if err := r.Refresh(context.Background(), tokens, now); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	tok := tokens[0]
	if len(tok.History) != 2 {
		t.Fatalf("history = %d, want 2", len(tok.History))
	}
	if tok.History[0].Price != 1.0 {
		t.Error("launch snapshot was rewritten")
	}
	if tok.TxCount != 42 {
		t.Errorf("txCount = %d, want 42", tok.TxCount)
	}
	if tok.NetVolume != 5_000 {
		t.Errorf("netVolume = %v, want 5000", tok.NetVolume)
	}
	if !tok.Latest().Timestamp.Equal(now) {
		t.Errorf("snapshot timestamp = %v", tok.Latest().Timestamp)
	}
	// launch snapshot 1h old is the 5m reference too: +100%
	if tok.PriceChange5m != 100 {
		t.Errorf("priceChange5m = %v, want 100", tok.PriceChange5m)
	}
	if tok.PriceChange1h != 100 {
		t.Errorf("priceChange1h = %v, want 100", tok.PriceChange1h)
	}
}

func TestRefresherErrorLeavesTokensUntouched(t *testing.T) {
	now := time.Now()
	tokens := []models.Token{launchedToken("t1", now.Add(-time.Hour), 1.0)}
	market := &stubMarket{err: errors.New("upstream down")}

	r := NewRefresher(market, testLogger(t))
	if err := r.Refresh(context.Background(), tokens, now); err == nil {
		t.Fatal("expected error")
	}
	if len(tokens[0].History) != 1 {
		t.Errorf("history = %d, want 1", len(tokens[0].History))
	}
}

func TestRefresherEmptySetSkipsFetch(t *testing.T) {
	market := &stubMarket{}
	r := NewRefresher(market, testLogger(t))
	if err := r.Refresh(context.Background(), nil, time.Now()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if market.calls != 0 {
		t.Errorf("calls = %d, want 0", market.calls)
	}
}

func TestChangeSinceWindows(t *testing.T) {
	base := time.Now().Add(-2 * time.Hour)
	history := []models.MetricSnapshot{
		{Price: 1.0, Timestamp: base},
		{Price: 4.0, Timestamp: base.Add(115 * time.Minute)},
		{Price: 2.0, Timestamp: base.Add(2 * time.Hour)},
	}

	// 5m window: reference is the snapshot at -5m: (2-4)/4 = -50%
	if got := changeSince(history, 5*time.Minute); got != -50 {
		t.Errorf("5m change = %v, want -50", got)
	}
	// 24h window reaches the launch snapshot: (2-1)/1 = +100%
	if got := changeSince(history, 24*time.Hour); got != 100 {
		t.Errorf("24h change = %v, want 100", got)
	}
	if got := changeSince(history[:1], time.Hour); got != 0 {
		t.Errorf("single snapshot change = %v, want 0", got)
	}
	if got := changeSince([]models.MetricSnapshot{{Price: 0, Timestamp: base}, {Price: 2, Timestamp: base.Add(time.Minute)}}, time.Hour); got != 0 {
		t.Errorf("zero reference change = %v, want 0", got)
	}
}
