package models

import "time"

// MetricSnapshot is one observed market state of a token. Snapshots are
// appended in time order; index 0 is the launch snapshot and anchors
// change-from-launch math, so it is never rewritten.
type MetricSnapshot struct {
	Price      float64   `json:"price"`
	Liquidity  float64   `json:"liquidity"`
	Volume24h  float64   `json:"volume24h"`
	MarketCap  float64   `json:"marketCap"`
	Buys       int       `json:"buys"`
	Sells      int       `json:"sells"`
	Makers     int       `json:"makers"`
	BuyVolume  float64   `json:"buyVolume"`
	SellVolume float64   `json:"sellVolume"`
	Timestamp  time.Time `json:"timestamp"`
}

// Token is a tracked asset under observation.
type Token struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name,omitempty"`

	CreatedAt time.Time        `json:"createdAt"`
	History   []MetricSnapshot `json:"history"`

	// Derived fields, recomputed by the refresher each tick.
	PriceChange5m  float64 `json:"priceChange5m"`
	PriceChange1h  float64 `json:"priceChange1h"`
	PriceChange24h float64 `json:"priceChange24h"`
	NetVolume      float64 `json:"netVolume"`
	TxCount        int     `json:"txCount"`

	// IsOwned marks a portfolio position; owned tokens are exempt from
	// automatic removal.
	IsOwned bool `json:"isOwned,omitempty"`

	// StrategyOverride holds per-token threshold overrides. Nil fields fall
	// back to the active stage.
	StrategyOverride *StrategyOverride `json:"strategyOverride,omitempty"`

	// ActiveRisk is cleared and recomputed every cycle; it never carries
	// over between ticks.
	ActiveRisk *RiskAnnotation `json:"activeRisk,omitempty"`
}

// Latest returns the most recent snapshot. Tokens entering the engine always
// have at least one.
func (t *Token) Latest() MetricSnapshot {
	if len(t.History) == 0 {
		return MetricSnapshot{}
	}
	return t.History[len(t.History)-1]
}

// First returns the launch snapshot.
func (t *Token) First() MetricSnapshot {
	if len(t.History) == 0 {
		return MetricSnapshot{}
	}
	return t.History[0]
}

// Age returns how long the token has been alive relative to now.
func (t *Token) Age(now time.Time) time.Duration {
	return now.Sub(t.CreatedAt)
}

// Clone returns a deep copy. Cycles operate on copies so concurrent readers
// never observe a half-annotated token.
func (t *Token) Clone() Token {
	c := *t
	c.History = make([]MetricSnapshot, len(t.History))
	copy(c.History, t.History)
	if t.StrategyOverride != nil {
		o := *t.StrategyOverride
		c.StrategyOverride = &o
	}
	if t.ActiveRisk != nil {
		r := *t.ActiveRisk
		r.Details = append([]string(nil), t.ActiveRisk.Details...)
		c.ActiveRisk = &r
	}
	return c
}

// DeletedToken is a token frozen at removal time with its removal cause.
// Once created it is immutable and never re-enters the engine.
type DeletedToken struct {
	Token
	DeletedAt      time.Time `json:"deletedAt"`
	DeletionReason string    `json:"deletionReason"`
}
