package models

import "time"

// TokenAnalysis is the verdict produced by an external analysis provider.
type TokenAnalysis struct {
	Address    string    `json:"address"`
	Provider   string    `json:"provider"`
	Verdict    string    `json:"verdict"` // "bullish", "bearish", "neutral", "avoid"
	Confidence float64   `json:"confidence"`
	Summary    string    `json:"summary"`
	Timestamp  time.Time `json:"timestamp"`
}
