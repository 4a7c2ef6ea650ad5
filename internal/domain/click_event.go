package domain

import "time"

// UserAgentCategory is the coarse client classification reported with a click.
type UserAgentCategory int

// Known user agent categories.
const (
	AgentNormal  UserAgentCategory = 1
	AgentMobile  UserAgentCategory = 2
	AgentBotLike UserAgentCategory = 3
)

// Valid reports whether c is one of the known categories.
func (c UserAgentCategory) Valid() bool {
	return c == AgentNormal || c == AgentMobile || c == AgentBotLike
}

// ClickEvent represents a single ad click to be scored and tracked.
// Events are immutable once ingested and are appended to the click log
// in arrival order.
type ClickEvent struct {
	SessionID              string            `json:"session_id"`
	AdID                   int64             `json:"ad_id"`
	AdvertiserID           int64             `json:"advertiser_id"`
	SequenceIndex          int               `json:"sequence_index"`
	TimeGapSeconds         float64           `json:"time_gap_seconds"`
	SessionDurationMinutes float64           `json:"session_duration_minutes"`
	UserAgentCategory      UserAgentCategory `json:"user_agent_category"`
	OccurredAt             time.Time         `json:"occurred_at"`
}

// Validate rejects malformed events before they can touch persisted state.
func (e *ClickEvent) Validate() error {
	if e.SessionID == "" {
		return &ValidationError{Field: "session_id", Message: "is required"}
	}
	if e.AdID <= 0 {
		return &ValidationError{Field: "ad_id", Message: "must be positive"}
	}
	if e.SequenceIndex <= 0 {
		return &ValidationError{Field: "sequence_index", Message: "must be positive"}
	}
	if e.TimeGapSeconds < 0 {
		return &ValidationError{Field: "time_gap_seconds", Message: "must not be negative"}
	}
	if e.SessionDurationMinutes < 0 {
		return &ValidationError{Field: "session_duration_minutes", Message: "must not be negative"}
	}
	if !e.UserAgentCategory.Valid() {
		return &ValidationError{Field: "user_agent_category", Message: "must be 1, 2 or 3"}
	}
	return nil
}
