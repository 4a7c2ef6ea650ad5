package domain

import "time"

// RiskLevel is the coarse three-bucket classification of fraud probability
// used for display.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// FraudThreshold is the probability at or above which a click is flagged
// fraudulent.
const FraudThreshold = 0.5

// Risk level partition edges. A probability below the medium edge is Low,
// above the high edge is High, Medium otherwise (both edges inclusive for
// Medium).
const (
	riskMediumEdge = 0.3
	riskHighEdge   = 0.7
)

// RiskLevelFor maps a fraud probability to its display bucket.
// The mapping is deterministic: the same probability always yields the
// same level.
func RiskLevelFor(probability float64) RiskLevel {
	switch {
	case probability < riskMediumEdge:
		return RiskLow
	case probability > riskHighEdge:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// Assessment is the per-click outcome returned to the caller.
type Assessment struct {
	IsFraud          bool      `json:"is_fraud"`
	FraudProbability float64   `json:"fraud_probability"`
	RiskLevel        RiskLevel `json:"risk_level"`
	ModelUsed        string    `json:"model_used"`
}

// AssessmentFrom derives the full per-click outcome from a raw fraud
// probability.
func AssessmentFrom(probability float64, model string) Assessment {
	return Assessment{
		IsFraud:          probability >= FraudThreshold,
		FraudProbability: probability,
		RiskLevel:        RiskLevelFor(probability),
		ModelUsed:        model,
	}
}

// SessionSummary is the mutable per-session aggregate. Exactly one exists
// per session id once any click for that session has been processed.
//
// MinGap is only meaningful when MinGapSet is true: a session whose clicks
// all report a zero gap never records a minimum. IsFraud is sticky: once
// true it never resets for the lifetime of the session. FraudProbability
// and RiskLevel always reflect the most recently applied click.
type SessionSummary struct {
	SessionID              string    `json:"session_id"`
	AdID                   int64     `json:"ad_id"`
	AdTitle                string    `json:"ad_title"`
	AdvertiserID           int64     `json:"advertiser_id"`
	ClickCount             int64     `json:"click_count"`
	SessionDurationMinutes float64   `json:"session_duration_minutes"`
	MinGap                 float64   `json:"-"`
	MinGapSet              bool      `json:"-"`
	MaxGap                 float64   `json:"max_gap"`
	IsFraud                bool      `json:"is_fraud"`
	FraudProbability       float64   `json:"fraud_probability"`
	RiskLevel              RiskLevel `json:"risk_level"`
	ModelUsed              string    `json:"model_used"`
	LastUpdated            time.Time `json:"last_updated"`
}
