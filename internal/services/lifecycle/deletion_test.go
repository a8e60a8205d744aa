package lifecycle

import (
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func tokenWith(first, latest models.MetricSnapshot) *models.Token {
	return &models.Token{
		ID: "t1", Address: "addr1", Symbol: "TST",
		History: []models.MetricSnapshot{first, latest},
	}
}

func TestDecideExpiredWinsOverRugPull(t *testing.T) {
	// Both expiry and a -95% drop apply; the expiry check runs first.
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 50000, MarketCap: 50000},
		models.MetricSnapshot{Price: 0.05, Liquidity: 50000, MarketCap: 50000},
	)
	maxAge := 7 * 24 * time.Hour
	dec := Decide(tok, maxAge+time.Hour, Thresholds{MinLiquidity: 0, MaxMcap: 1e12}, maxAge)
	if !dec.Remove {
		t.Fatal("expected removal")
	}
	if dec.Reason != "Expired (> 7d 0h)" {
		t.Fatalf("expected expiry reason to win, got %q", dec.Reason)
	}
}

func TestDecideLiquidityBelowMinimum(t *testing.T) {
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 1, Liquidity: 900, MarketCap: 50000},
	)
	dec := Decide(tok, time.Hour, Thresholds{MinLiquidity: 1000, MaxMcap: 1e12}, 7*24*time.Hour)
	if !dec.Remove || dec.Reason != "Liq < Stage Minimum (1000)" {
		t.Fatalf("unexpected decision %+v", dec)
	}
}

func TestDecideMcapAboveMax(t *testing.T) {
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 2, Liquidity: 10000, MarketCap: 2000000},
	)
	dec := Decide(tok, time.Hour, Thresholds{MinLiquidity: 1000, MaxMcap: 1000000}, 7*24*time.Hour)
	if !dec.Remove || dec.Reason != "MCAP > Stage Max (1000000)" {
		t.Fatalf("unexpected decision %+v", dec)
	}
}

func TestDecideRugPull(t *testing.T) {
	// (0.05 - 1) / 1 = -0.95 < -0.90
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 0.05, Liquidity: 9000, MarketCap: 4000},
	)
	dec := Decide(tok, 2*time.Hour, Thresholds{MinLiquidity: 1000, MaxMcap: 1e12}, 7*24*time.Hour)
	if !dec.Remove || dec.Reason != "Rug Pull (-90%)" {
		t.Fatalf("unexpected decision %+v", dec)
	}
}

func TestDecideRugPullBoundary(t *testing.T) {
	// exactly -90% does not trip the strict less-than
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 0.1, Liquidity: 10000, MarketCap: 5000},
	)
	dec := Decide(tok, time.Hour, Thresholds{MinLiquidity: 1000, MaxMcap: 1e12}, 7*24*time.Hour)
	if dec.Remove {
		t.Fatalf("boundary drop must not remove, got %+v", dec)
	}
}

func TestDecideZeroFirstPriceSkipsRugCheck(t *testing.T) {
	tok := tokenWith(
		models.MetricSnapshot{Price: 0, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 0.0001, Liquidity: 10000, MarketCap: 5000},
	)
	dec := Decide(tok, time.Hour, Thresholds{MinLiquidity: 1000, MaxMcap: 1e12}, 7*24*time.Hour)
	if dec.Remove {
		t.Fatalf("zero launch price must not divide, got %+v", dec)
	}
}

func TestDecideOwnedTokenNeverRemoved(t *testing.T) {
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 50000, MarketCap: 50000},
		models.MetricSnapshot{Price: 0.01, Liquidity: 1, MarketCap: 1e13},
	)
	tok.IsOwned = true
	maxAge := 24 * time.Hour
	dec := Decide(tok, maxAge*10, Thresholds{MinLiquidity: 1000, MaxMcap: 1000000}, maxAge)
	if dec.Remove || dec.Reason != "" {
		t.Fatalf("owned token must survive every check, got %+v", dec)
	}
}

func TestDecideRetain(t *testing.T) {
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 1.2, Liquidity: 12000, MarketCap: 60000},
	)
	dec := Decide(tok, time.Hour, Thresholds{MinLiquidity: 1000, MaxMcap: 1000000}, 7*24*time.Hour)
	if dec.Remove {
		t.Fatalf("healthy token removed: %+v", dec)
	}
}

func TestDecideExpiryReasonFormatsHours(t *testing.T) {
	tok := tokenWith(
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
		models.MetricSnapshot{Price: 1, Liquidity: 10000, MarketCap: 50000},
	)
	maxAge := 2*24*time.Hour + 12*time.Hour
	dec := Decide(tok, maxAge+time.Minute, Thresholds{MinLiquidity: 0, MaxMcap: 1e12}, maxAge)
	if dec.Reason != "Expired (> 2d 12h)" {
		t.Fatalf("unexpected reason %q", dec.Reason)
	}
}
