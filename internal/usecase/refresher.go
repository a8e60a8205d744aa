package usecase

import (
	"context"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
	"github.com/Vitek192/sola-sub000/pkg/logger"
)

// maxHistory caps the per-token snapshot window. The launch snapshot at
// index 0 is always kept; trimming drops the oldest interior entries.
const maxHistory = 300

// Refresher pulls fresh market snapshots and recomputes the derived fields
// the filter pass reads.
type Refresher struct {
	market drepo.MarketData
	logger *logger.Logger
}

// NewRefresher wires a refresher over the given market data source.
func NewRefresher(market drepo.MarketData, log *logger.Logger) *Refresher {
	return &Refresher{market: market, logger: log}
}

// Refresh fetches snapshots for every tracked token and merges them in.
// It mutates the passed slice in place and returns the fetch error, if any;
// on error the slice is left untouched.
func (r *Refresher) Refresh(ctx context.Context, tokens []models.Token, now time.Time) error {
	if len(tokens) == 0 {
		return nil
	}

	addresses := make([]string, 0, len(tokens))
	for i := range tokens {
		addresses = append(addresses, tokens[i].Address)
	}

	snaps, err := r.market.Snapshots(ctx, addresses)
	if err != nil {
		return err
	}

	missed := 0
	for i := range tokens {
		snap, ok := snaps[tokens[i].Address]
		if !ok {
			missed++
			continue
		}
		snap.Timestamp = now
		mergeSnapshot(&tokens[i], snap)
	}
	if missed > 0 {
		r.logger.Debug("market refresh partial", logger.Int("missing", missed), logger.Int("total", len(tokens)))
	}
	return nil
}

func mergeSnapshot(t *models.Token, snap models.MetricSnapshot) {
	t.History = append(t.History, snap)
	if len(t.History) > maxHistory {
		// keep history[0], drop the oldest interior snapshots
		trimmed := make([]models.MetricSnapshot, 0, maxHistory)
		trimmed = append(trimmed, t.History[0])
		trimmed = append(trimmed, t.History[len(t.History)-(maxHistory-1):]...)
		t.History = trimmed
	}

	t.TxCount = snap.Buys + snap.Sells
	t.NetVolume = snap.BuyVolume - snap.SellVolume
	t.PriceChange5m = changeSince(t.History, 5*time.Minute)
	t.PriceChange1h = changeSince(t.History, time.Hour)
	t.PriceChange24h = changeSince(t.History, 24*time.Hour)
}

// changeSince returns the percent price change between the latest snapshot
// and the oldest one inside the window. Zero reference prices yield zero.
func changeSince(history []models.MetricSnapshot, window time.Duration) float64 {
	if len(history) < 2 {
		return 0
	}
	latest := history[len(history)-1]
	cutoff := latest.Timestamp.Add(-window)

	ref := history[0]
	for i := len(history) - 2; i >= 0; i-- {
		ref = history[i]
		if !history[i].Timestamp.After(cutoff) {
			break
		}
	}
	if ref.Price == 0 {
		return 0
	}
	return (latest.Price - ref.Price) / ref.Price * 100
}
