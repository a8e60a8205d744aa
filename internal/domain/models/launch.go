package models

import "time"

// NewTokenEvent is a freshly-launched token announcement from the launch
// stream, before any metrics have been observed.
type NewTokenEvent struct {
	Address   string    `json:"address"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	InitialPrice     float64 `json:"initialPrice"`
	InitialLiquidity float64 `json:"initialLiquidity"`
	InitialMcap      float64 `json:"initialMcap"`
}

// Token materializes the event into a tracked token with its launch
// snapshot as history[0].
func (e NewTokenEvent) Token() Token {
	return Token{
		ID:        e.Address,
		Address:   e.Address,
		Symbol:    e.Symbol,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		History: []MetricSnapshot{{
			Price:     e.InitialPrice,
			Liquidity: e.InitialLiquidity,
			MarketCap: e.InitialMcap,
			Timestamp: e.CreatedAt,
		}},
	}
}
