// Package aggregator folds the stream of ad click events into one
// authoritative summary per session. All session mutation in the service
// goes through Ingest; nothing else writes session state.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/features"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/scorer"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/syncutil"
)

// Aggregator owns per-session state. Updates for the same session id are
// serialized with a per-key lock; different sessions proceed in parallel.
type Aggregator struct {
	sessions domain.SessionStore
	ads      domain.AdStore
	model    scorer.Scorer
	locks    syncutil.ShardedMutex
	log      logger.Logger
}

// New creates an Aggregator.
func New(sessions domain.SessionStore, ads domain.AdStore, model scorer.Scorer, log logger.Logger) *Aggregator {
	return &Aggregator{
		sessions: sessions,
		ads:      ads,
		model:    model,
		log:      log,
	}
}

// Ingest validates and scores one click event, folds it into the session
// summary, and atomically persists the event and the updated summary.
// Events are applied in arrival order; the caller receives the per-click
// assessment alongside the authoritative summary.
//
// Validation failures and ad lookups happen before any state is touched.
// A scorer failure aborts the ingest; the click is never recorded as
// genuine by default.
func (a *Aggregator) Ingest(ctx context.Context, event *domain.ClickEvent) (*domain.SessionSummary, domain.Assessment, error) {
	if err := event.Validate(); err != nil {
		return nil, domain.Assessment{}, err
	}

	ad, err := a.ads.GetAd(ctx, event.AdID)
	if err != nil {
		return nil, domain.Assessment{}, err
	}
	event.AdvertiserID = ad.AdvertiserID

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	// Feature building and scoring are pure given the event, so they run
	// outside the per-session critical section.
	vector := features.Build(event)
	probability, err := a.model.Score(ctx, vector)
	if err != nil {
		return nil, domain.Assessment{}, fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	assess := domain.AssessmentFrom(probability, a.model.Name())

	unlock := a.locks.Lock(event.SessionID)
	defer unlock()

	current, err := a.sessions.GetSession(ctx, event.SessionID)
	switch {
	case err == nil:
		current = fold(current, event, assess)
	case errors.Is(err, domain.ErrSessionNotFound):
		current = newSummary(ad, event, assess)
	default:
		return nil, domain.Assessment{}, fmt.Errorf("load session %s: %w", event.SessionID, err)
	}

	if err := a.sessions.ApplyClick(ctx, event, assess, current); err != nil {
		return nil, domain.Assessment{}, err
	}

	a.log.Debug("Click ingested",
		logger.String("session_id", event.SessionID),
		logger.Int64("ad_id", event.AdID),
		logger.Int64("click_count", current.ClickCount),
		logger.Bool("is_fraud", current.IsFraud),
		logger.Float64("fraud_probability", assess.FraudProbability),
	)

	return current, assess, nil
}

// newSummary starts a fresh session on its first click. The first click's
// gap is expected to be zero and is not folded into min/max: min_gap stays
// unset and max_gap starts at zero. Fraud status never carries over from
// any other session.
func newSummary(ad *domain.Ad, event *domain.ClickEvent, assess domain.Assessment) *domain.SessionSummary {
	return &domain.SessionSummary{
		SessionID:              event.SessionID,
		AdID:                   ad.ID,
		AdTitle:                ad.Title,
		AdvertiserID:           ad.AdvertiserID,
		ClickCount:             1,
		SessionDurationMinutes: event.SessionDurationMinutes,
		MaxGap:                 0,
		IsFraud:                assess.IsFraud,
		FraudProbability:       assess.FraudProbability,
		RiskLevel:              assess.RiskLevel,
		ModelUsed:              assess.ModelUsed,
		LastUpdated:            event.OccurredAt,
	}
}

// fold applies one click to an existing summary.
//
// Gap tracking: only a strictly positive gap can set or lower min_gap;
// max_gap takes the maximum unconditionally (a zero gap can never raise
// it above the true maximum).
//
// Fraud status is sticky-true, while fraud_probability and risk_level
// always reflect the latest applied click, so a session can legitimately
// show is_fraud=true alongside a currently low probability.
func fold(s *domain.SessionSummary, event *domain.ClickEvent, assess domain.Assessment) *domain.SessionSummary {
	s.ClickCount++
	s.SessionDurationMinutes = event.SessionDurationMinutes

	if gap := event.TimeGapSeconds; gap > 0 {
		if !s.MinGapSet || gap < s.MinGap {
			s.MinGap = gap
			s.MinGapSet = true
		}
	}
	if event.TimeGapSeconds > s.MaxGap {
		s.MaxGap = event.TimeGapSeconds
	}

	s.IsFraud = s.IsFraud || assess.IsFraud
	s.FraudProbability = assess.FraudProbability
	s.RiskLevel = assess.RiskLevel
	s.ModelUsed = assess.ModelUsed
	s.LastUpdated = event.OccurredAt

	return s
}
