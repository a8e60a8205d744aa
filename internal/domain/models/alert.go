package models

import (
	"fmt"
	"time"
)

// AlertType classifies a risk alert.
type AlertType string

const (
	AlertCorrelation  AlertType = "CORRELATION"
	AlertCustomRule   AlertType = "CUSTOM_RULE"
	AlertLowLiquidity AlertType = "LOW_LIQUIDITY"
	AlertRugPull      AlertType = "RUG_PULL"
	AlertSystem       AlertType = "SYSTEM"
)

// AlertSeverity grades a risk alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// RiskAlert is an immutable event emitted by the engine.
type RiskAlert struct {
	TokenID      string        `json:"tokenId"`
	TokenAddress string        `json:"tokenAddress"`
	TokenSymbol  string        `json:"tokenSymbol"`
	Type         AlertType     `json:"type"`
	Severity     AlertSeverity `json:"severity"`
	Message      string        `json:"message"`
	Value        string        `json:"value"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Escalates reports whether an admitted alert is also forwarded to the
// external notifier.
func (a RiskAlert) Escalates() bool {
	return a.Severity == SeverityCritical ||
		a.Type == AlertCustomRule ||
		a.Type == AlertCorrelation
}

// NotifyText renders the alert for the chat notifier.
func (a RiskAlert) NotifyText() string {
	return fmt.Sprintf("🚨 %s: %s \n%s \nVal: %s", a.Type, a.TokenSymbol, a.Message, a.Value)
}

// RiskAnnotation is the aggregated per-token risk state for one cycle.
type RiskAnnotation struct {
	Type     AlertType     `json:"type"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
	Details  []string      `json:"details,omitempty"`
}

// SystemLogLevel grades a system log entry.
type SystemLogLevel string

const (
	LogInfo    SystemLogLevel = "INFO"
	LogWarning SystemLogLevel = "WARNING"
	LogError   SystemLogLevel = "ERROR"
)

// SystemLog is one entry in the operator-visible event feed.
type SystemLog struct {
	Level     SystemLogLevel `json:"level"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}
