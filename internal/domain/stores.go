package domain

import "context"

// SessionStore persists session summaries and the append-only click log.
type SessionStore interface {
	// GetSession returns the summary for the given session id, or
	// ErrSessionNotFound if no click for that session has been processed.
	GetSession(ctx context.Context, sessionID string) (*SessionSummary, error)

	// ApplyClick atomically appends the event with its per-click assessment
	// to the click log and writes the updated summary. Either both are
	// persisted or neither is.
	ApplyClick(ctx context.Context, event *ClickEvent, assess Assessment, summary *SessionSummary) error
}

// AdStore provides access to the ad catalog.
type AdStore interface {
	// GetAd returns the ad with the given id, or ErrAdNotFound.
	GetAd(ctx context.Context, id int64) (*Ad, error)

	// ListActiveAds returns all active ads, newest first.
	ListActiveAds(ctx context.Context) ([]*Ad, error)

	// CreateAd inserts a new ad and fills in its generated id.
	CreateAd(ctx context.Context, ad *Ad) error
}

// QueryStore serves the advertiser-facing read side.
type QueryStore interface {
	// RecentSessions returns up to limit session summaries owned by the
	// advertiser, most recently updated first.
	RecentSessions(ctx context.Context, advertiserID int64, limit int) ([]*SessionSummary, error)

	// AdvertiserStats aggregates click totals partitioned by fraud status,
	// with a per-ad breakdown.
	AdvertiserStats(ctx context.Context, advertiserID int64) (*AdvertiserStats, error)
}
