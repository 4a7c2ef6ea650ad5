// Package storage persists click events, session summaries and the ad
// catalog in PostgreSQL, with an in-memory variant for tests and local
// development.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
)

// Store manages PostgreSQL persistence for the fraud tracker. It
// implements domain.SessionStore, domain.AdStore and domain.QueryStore.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// NewStore creates a new Store on top of an open database handle.
func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const getSessionQuery = `
	SELECT session_id, ad_id, advertiser_id, ad_title, click_count,
	       session_duration_minutes, min_gap, max_gap, is_fraud,
	       fraud_probability, risk_level, model_used, last_updated
	FROM session_summaries
	WHERE session_id = $1`

// GetSession returns the summary for the given session id, or
// domain.ErrSessionNotFound.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*domain.SessionSummary, error) {
	row := s.db.QueryRowContext(ctx, getSessionQuery, sessionID)

	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return summary, nil
}

const insertEventQuery = `
	INSERT INTO click_events
		(session_id, ad_id, advertiser_id, sequence_index, time_gap_seconds,
		 session_duration_minutes, user_agent_category, is_fraud,
		 fraud_probability, risk_level, model_used, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const upsertSummaryQuery = `
	INSERT INTO session_summaries
		(session_id, ad_id, advertiser_id, ad_title, click_count,
		 session_duration_minutes, min_gap, max_gap, is_fraud,
		 fraud_probability, risk_level, model_used, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (session_id) DO UPDATE SET
		click_count = EXCLUDED.click_count,
		session_duration_minutes = EXCLUDED.session_duration_minutes,
		min_gap = EXCLUDED.min_gap,
		max_gap = EXCLUDED.max_gap,
		is_fraud = EXCLUDED.is_fraud,
		fraud_probability = EXCLUDED.fraud_probability,
		risk_level = EXCLUDED.risk_level,
		model_used = EXCLUDED.model_used,
		last_updated = EXCLUDED.last_updated`

// ApplyClick appends the event to the click log and writes the updated
// summary in one transaction. A failure of either statement leaves both
// tables untouched.
func (s *Store) ApplyClick(
	ctx context.Context,
	event *domain.ClickEvent,
	assess domain.Assessment,
	summary *domain.SessionSummary,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply click: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, insertEventQuery,
		event.SessionID, event.AdID, event.AdvertiserID, event.SequenceIndex,
		event.TimeGapSeconds, event.SessionDurationMinutes, event.UserAgentCategory,
		assess.IsFraud, assess.FraudProbability, assess.RiskLevel, assess.ModelUsed,
		event.OccurredAt,
	)
	if err != nil {
		s.log.Error("click event append failed, rolling back",
			logger.String("session_id", event.SessionID),
			logger.Error(err))
		return fmt.Errorf("append click event: %w", err)
	}

	_, err = tx.ExecContext(ctx, upsertSummaryQuery,
		summary.SessionID, summary.AdID, summary.AdvertiserID, summary.AdTitle,
		summary.ClickCount, summary.SessionDurationMinutes, minGapValue(summary),
		summary.MaxGap, summary.IsFraud, summary.FraudProbability,
		summary.RiskLevel, summary.ModelUsed, summary.LastUpdated,
	)
	if err != nil {
		s.log.Error("session summary upsert failed, rolling back",
			logger.String("session_id", summary.SessionID),
			logger.Error(err))
		return fmt.Errorf("upsert session summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply click: %w", err)
	}

	return nil
}

// minGapValue maps the unset minimum gap to SQL NULL so the sentinel never
// leaks into storage as a number.
func minGapValue(summary *domain.SessionSummary) sql.NullFloat64 {
	return sql.NullFloat64{Float64: summary.MinGap, Valid: summary.MinGapSet}
}

const getAdQuery = `
	SELECT id, advertiser_id, title, description, image_url, target_url, is_active, created_at
	FROM ads
	WHERE id = $1`

// GetAd returns the ad with the given id, or domain.ErrAdNotFound.
func (s *Store) GetAd(ctx context.Context, id int64) (*domain.Ad, error) {
	var ad domain.Ad
	err := s.db.QueryRowContext(ctx, getAdQuery, id).Scan(
		&ad.ID, &ad.AdvertiserID, &ad.Title, &ad.Description,
		&ad.ImageURL, &ad.TargetURL, &ad.Active, &ad.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ad %d: %w", id, err)
	}
	return &ad, nil
}

const listActiveAdsQuery = `
	SELECT id, advertiser_id, title, description, image_url, target_url, is_active, created_at
	FROM ads
	WHERE is_active
	ORDER BY created_at DESC`

// ListActiveAds returns all active ads, newest first.
func (s *Store) ListActiveAds(ctx context.Context) ([]*domain.Ad, error) {
	rows, err := s.db.QueryContext(ctx, listActiveAdsQuery)
	if err != nil {
		return nil, fmt.Errorf("list active ads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ads []*domain.Ad
	for rows.Next() {
		var ad domain.Ad
		if err := rows.Scan(
			&ad.ID, &ad.AdvertiserID, &ad.Title, &ad.Description,
			&ad.ImageURL, &ad.TargetURL, &ad.Active, &ad.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, &ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ads: %w", err)
	}

	return ads, nil
}

const createAdQuery = `
	INSERT INTO ads (advertiser_id, title, description, image_url, target_url, is_active)
	VALUES ($1, $2, $3, $4, $5, TRUE)
	RETURNING id, created_at`

// CreateAd inserts a new ad and fills in its generated id and timestamp.
func (s *Store) CreateAd(ctx context.Context, ad *domain.Ad) error {
	err := s.db.QueryRowContext(ctx, createAdQuery,
		ad.AdvertiserID, ad.Title, ad.Description, ad.ImageURL, ad.TargetURL,
	).Scan(&ad.ID, &ad.CreatedAt)
	if err != nil {
		return fmt.Errorf("create ad: %w", err)
	}
	ad.Active = true
	return nil
}

const recentSessionsQuery = `
	SELECT session_id, ad_id, advertiser_id, ad_title, click_count,
	       session_duration_minutes, min_gap, max_gap, is_fraud,
	       fraud_probability, risk_level, model_used, last_updated
	FROM session_summaries
	WHERE advertiser_id = $1
	ORDER BY last_updated DESC
	LIMIT $2`

// RecentSessions returns up to limit session summaries owned by the
// advertiser, most recently updated first.
func (s *Store) RecentSessions(ctx context.Context, advertiserID int64, limit int) ([]*domain.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, recentSessionsQuery, advertiserID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sessions for advertiser %d: %w", advertiserID, err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.SessionSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		sessions = append(sessions, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session summaries: %w", err)
	}

	return sessions, nil
}

const advertiserTotalsQuery = `
	SELECT COALESCE(SUM(click_count), 0),
	       COALESCE(SUM(CASE WHEN is_fraud THEN click_count ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN is_fraud THEN 0 ELSE click_count END), 0),
	       COALESCE(AVG(fraud_probability), 0)
	FROM session_summaries
	WHERE advertiser_id = $1`

const advertiserPerAdQuery = `
	SELECT a.id, a.title,
	       COALESCE(SUM(ss.click_count), 0),
	       COALESCE(SUM(CASE WHEN ss.is_fraud THEN ss.click_count ELSE 0 END), 0),
	       COALESCE(AVG(ss.fraud_probability), 0)
	FROM ads a
	LEFT JOIN session_summaries ss ON ss.ad_id = a.id
	WHERE a.advertiser_id = $1
	GROUP BY a.id, a.title
	ORDER BY COALESCE(SUM(ss.click_count), 0) DESC`

// AdvertiserStats sums session click counts partitioned by the sticky
// session fraud flag, so every click of a flagged session counts as fraud.
// The breakdown is per ad, with each session attributed to the ad that
// started it.
func (s *Store) AdvertiserStats(ctx context.Context, advertiserID int64) (*domain.AdvertiserStats, error) {
	var stats domain.AdvertiserStats

	err := s.db.QueryRowContext(ctx, advertiserTotalsQuery, advertiserID).Scan(
		&stats.TotalClicks, &stats.FraudClicks, &stats.GenuineClicks,
		&stats.AvgFraudProbability,
	)
	if err != nil {
		return nil, fmt.Errorf("advertiser totals for %d: %w", advertiserID, err)
	}

	rows, err := s.db.QueryContext(ctx, advertiserPerAdQuery, advertiserID)
	if err != nil {
		return nil, fmt.Errorf("per-ad stats for %d: %w", advertiserID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ad domain.AdStats
		if err := rows.Scan(
			&ad.AdID, &ad.Title, &ad.Clicks, &ad.FraudClicks, &ad.AvgFraudProbability,
		); err != nil {
			return nil, fmt.Errorf("scan ad stats: %w", err)
		}
		stats.Ads = append(stats.Ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ad stats: %w", err)
	}

	return &stats, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSummary reads one session summary row, mapping a NULL min_gap to the
// unset state.
func scanSummary(row rowScanner) (*domain.SessionSummary, error) {
	var summary domain.SessionSummary
	var minGap sql.NullFloat64

	err := row.Scan(
		&summary.SessionID, &summary.AdID, &summary.AdvertiserID, &summary.AdTitle,
		&summary.ClickCount, &summary.SessionDurationMinutes, &minGap,
		&summary.MaxGap, &summary.IsFraud, &summary.FraudProbability,
		&summary.RiskLevel, &summary.ModelUsed, &summary.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	summary.MinGap = minGap.Float64
	summary.MinGapSet = minGap.Valid
	return &summary, nil
}
