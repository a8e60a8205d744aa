package models

import "time"

// LifecycleStage is a named, age-gated threshold bundle. Stages are kept in
// user-entry order; selection sorts a copy at evaluation time.
type LifecycleStage struct {
	Name            string  `json:"name"`
	Enabled         bool    `json:"enabled"`
	StartAgeMinutes float64 `json:"startAgeMinutes"`

	MinLiquidity float64 `json:"minLiquidity"`
	MaxLiquidity float64 `json:"maxLiquidity"`
	MinMcap      float64 `json:"minMcap"`
	MaxMcap      float64 `json:"maxMcap"`
	MinHolders   int     `json:"minHolders"`
	MaxHolders   int     `json:"maxHolders"`
	MaxTop10Pct  float64 `json:"maxTop10Pct"`
}

// StrategyOverride carries per-token threshold overrides. Nil means "use the
// stage value"; a set pointer is honored even when it points at zero.
type StrategyOverride struct {
	MinLiquidity *float64 `json:"minLiquidity,omitempty"`
	MaxLiquidity *float64 `json:"maxLiquidity,omitempty"`
	MaxMcap      *float64 `json:"maxMcap,omitempty"`
}

// AlertMetric selects which live metric a correlation rule reads.
type AlertMetric string

const (
	MetricTxCount       AlertMetric = "TX_COUNT"
	MetricPriceChange5m AlertMetric = "PRICE_CHANGE_5M"
	MetricNetVolume     AlertMetric = "NET_VOLUME"
	MetricVolume24h     AlertMetric = "VOLUME_24H"
)

// Resolve reads the rule metric off a token. Absent values resolve to 0.
func (m AlertMetric) Resolve(t *Token) float64 {
	switch m {
	case MetricTxCount:
		return float64(t.TxCount)
	case MetricPriceChange5m:
		return t.PriceChange5m
	case MetricNetVolume:
		return t.NetVolume
	case MetricVolume24h:
		return t.Latest().Volume24h
	default:
		return 0
	}
}

// AlertCondition is the comparison a correlation rule applies.
type AlertCondition string

const (
	ConditionGT AlertCondition = "GT"
	ConditionLT AlertCondition = "LT"
	ConditionEQ AlertCondition = "EQ"
)

// CorrelationRule is a standalone pattern test against live metrics. Rules
// only annotate risk; they never delete tokens.
type CorrelationRule struct {
	Name          string         `json:"name"`
	Metric        AlertMetric    `json:"metric"`
	Condition     AlertCondition `json:"condition"`
	Value         float64        `json:"value"`
	MinAgeMinutes float64        `json:"minAgeMinutes"`
	Enabled       bool           `json:"enabled"`
}

// StrategyConfig is the user-editable filtering strategy, delivered to the
// engine as an immutable value per cycle.
type StrategyConfig struct {
	TrackingDays  int               `json:"trackingDays"`
	TrackingHours int               `json:"trackingHours"`
	Stages        []LifecycleStage  `json:"stages"`
	Correlations  []CorrelationRule `json:"correlations"`
}

// MaxTrackingAge converts the tracking window to a duration.
func (c StrategyConfig) MaxTrackingAge() time.Duration {
	return time.Duration(c.TrackingDays)*24*time.Hour +
		time.Duration(c.TrackingHours)*time.Hour
}

// DefaultStrategy returns the stock three-stage configuration.
func DefaultStrategy() StrategyConfig {
	return StrategyConfig{
		TrackingDays:  7,
		TrackingHours: 0,
		Stages: []LifecycleStage{
			{
				Name:            "Launch",
				Enabled:         true,
				StartAgeMinutes: 0,
				MinLiquidity:    1_000,
				MaxLiquidity:    0,
				MinMcap:         0,
				MaxMcap:         10_000_000,
				MaxTop10Pct:     80,
			},
			{
				Name:            "Growth",
				Enabled:         true,
				StartAgeMinutes: 60,
				MinLiquidity:    5_000,
				MaxLiquidity:    0,
				MinMcap:         10_000,
				MaxMcap:         50_000_000,
				MaxTop10Pct:     60,
			},
			{
				Name:            "Mature",
				Enabled:         true,
				StartAgeMinutes: 1440,
				MinLiquidity:    25_000,
				MaxLiquidity:    0,
				MinMcap:         50_000,
				MaxMcap:         500_000_000,
				MaxTop10Pct:     50,
			},
		},
		Correlations: []CorrelationRule{
			{
				Name:          "Dead Pool",
				Metric:        MetricTxCount,
				Condition:     ConditionEQ,
				Value:         0,
				MinAgeMinutes: 30,
				Enabled:       true,
			},
			{
				Name:          "Dump Velocity",
				Metric:        MetricPriceChange5m,
				Condition:     ConditionLT,
				Value:         -30,
				MinAgeMinutes: 5,
				Enabled:       true,
			},
		},
	}
}
