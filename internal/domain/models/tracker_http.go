package models

// Requests for tracker HTTP endpoints. Defined in domain for consistency and reuse.

type TokensRequest struct {
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	Owned bool   `query:"owned" json:"owned"`
	Sort  string `query:"sort" json:"sort" default:"tracked" validate:"oneof=tracked age liquidity mcap"`
}

type GraveyardRequest struct {
	Limit int `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type AlertsRequest struct {
	Limit    int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	Severity string `query:"severity" json:"severity" validate:"omitempty,oneof=INFO WARNING CRITICAL"`
}

type LogsRequest struct {
	Limit int `query:"limit" json:"limit" default:"200" validate:"gte=1,lte=2000"`
}

type AnalysisRequest struct {
	Address string `param:"address" json:"address" validate:"required"`
}

// StrategyUpdateRequest replaces the whole strategy document; partial edits
// are a client concern.
type StrategyUpdateRequest struct {
	TrackingDays  int               `json:"trackingDays" validate:"gte=0,lte=365"`
	TrackingHours int               `json:"trackingHours" validate:"gte=0,lte=23"`
	Stages        []LifecycleStage  `json:"stages" validate:"required,min=1,dive"`
	Correlations  []CorrelationRule `json:"correlations" validate:"dive"`
}

func (r *StrategyUpdateRequest) Config() StrategyConfig {
	return StrategyConfig{
		TrackingDays:  r.TrackingDays,
		TrackingHours: r.TrackingHours,
		Stages:        r.Stages,
		Correlations:  r.Correlations,
	}
}
