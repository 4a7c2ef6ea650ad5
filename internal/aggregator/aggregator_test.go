package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/features"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/logger"
	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/storage"
)

// stubScorer returns queued probabilities in order, then falls back to a
// fixed value. A non-nil err fails every call.
type stubScorer struct {
	mu    sync.Mutex
	queue []float64
	fixed float64
	err   error
}

func (s *stubScorer) Name() string { return "stub-model" }

func (s *stubScorer) Score(_ context.Context, _ features.Vector) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return 0, s.err
	}
	if len(s.queue) > 0 {
		p := s.queue[0]
		s.queue = s.queue[1:]
		return p, nil
	}
	return s.fixed, nil
}

// failingSessionStore rejects ApplyClick while delegating reads.
type failingSessionStore struct {
	*storage.MemoryStore
	applyErr error
}

func (f *failingSessionStore) ApplyClick(
	ctx context.Context,
	event *domain.ClickEvent,
	assess domain.Assessment,
	summary *domain.SessionSummary,
) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	return f.MemoryStore.ApplyClick(ctx, event, assess, summary)
}

func seedAd(t *testing.T, store *storage.MemoryStore) *domain.Ad {
	t.Helper()

	ad := &domain.Ad{
		AdvertiserID: 7,
		Title:        "Summer Sale",
		TargetURL:    "https://example.com/sale",
		Active:       true,
	}
	require.NoError(t, store.CreateAd(context.Background(), ad))
	return ad
}

func clickEvent(sessionID string, adID int64, seq int, gap float64) *domain.ClickEvent {
	return &domain.ClickEvent{
		SessionID:              sessionID,
		AdID:                   adID,
		SequenceIndex:          seq,
		TimeGapSeconds:         gap,
		SessionDurationMinutes: 2.0,
		UserAgentCategory:      domain.AgentNormal,
	}
}

func TestIngest_GapTracking(t *testing.T) {
	store := storage.NewMemoryStore()
	ad := seedAd(t, store)
	agg := New(store, store, &stubScorer{fixed: 0.1}, logger.NewNop())

	var summary *domain.SessionSummary
	var err error
	for i, gap := range []float64{0, 2.5, 0.3} {
		summary, _, err = agg.Ingest(context.Background(), clickEvent("sess-a", ad.ID, i+1, gap))
		require.NoError(t, err)
	}

	require.EqualValues(t, 3, summary.ClickCount)
	require.True(t, summary.MinGapSet)
	require.Equal(t, 0.3, summary.MinGap)
	require.Equal(t, 2.5, summary.MaxGap)
	require.Equal(t, 3, store.EventCount())
}

func TestIngest_ZeroGapsLeaveMinGapUnset(t *testing.T) {
	store := storage.NewMemoryStore()
	ad := seedAd(t, store)
	agg := New(store, store, &stubScorer{fixed: 0.1}, logger.NewNop())

	var summary *domain.SessionSummary
	var err error
	for i := 0; i < 3; i++ {
		summary, _, err = agg.Ingest(context.Background(), clickEvent("sess-zero", ad.ID, i+1, 0))
		require.NoError(t, err)
	}

	require.False(t, summary.MinGapSet)
	require.Equal(t, float64(0), summary.MaxGap)
}

func TestIngest_FraudStatusIsSticky(t *testing.T) {
	store := storage.NewMemoryStore()
	ad := seedAd(t, store)
	model := &stubScorer{queue: []float64{0.85, 0.1}}
	agg := New(store, store, model, logger.NewNop())

	summary, assess, err := agg.Ingest(context.Background(), clickEvent("sess-b", ad.ID, 1, 0))
	require.NoError(t, err)
	require.True(t, assess.IsFraud)
	require.True(t, summary.IsFraud)
	require.Equal(t, domain.RiskHigh, summary.RiskLevel)

	summary, assess, err = agg.Ingest(context.Background(), clickEvent("sess-b", ad.ID, 2, 5.0))
	require.NoError(t, err)
	require.False(t, assess.IsFraud)

	// The flag stays set while probability and risk track the latest click.
	require.True(t, summary.IsFraud)
	require.Equal(t, 0.1, summary.FraudProbability)
	require.Equal(t, domain.RiskLow, summary.RiskLevel)
}

func TestIngest_NewSessionDenormalizesAd(t *testing.T) {
	store := storage.NewMemoryStore()
	ad := seedAd(t, store)
	agg := New(store, store, &stubScorer{fixed: 0.2}, logger.NewNop())

	summary, assess, err := agg.Ingest(context.Background(), clickEvent("sess-c", ad.ID, 1, 0))
	require.NoError(t, err)

	require.Equal(t, ad.ID, summary.AdID)
	require.Equal(t, "Summer Sale", summary.AdTitle)
	require.EqualValues(t, 7, summary.AdvertiserID)
	require.Equal(t, "stub-model", summary.ModelUsed)
	require.Equal(t, assess.FraudProbability, summary.FraudProbability)
	require.False(t, summary.LastUpdated.IsZero())
}

func TestIngest_ValidationErrorTouchesNothing(t *testing.T) {
	store := storage.NewMemoryStore()
	seedAd(t, store)
	agg := New(store, store, &stubScorer{fixed: 0.2}, logger.NewNop())

	_, _, err := agg.Ingest(context.Background(), clickEvent("", 1, 1, 0))
	require.Error(t, err)
	require.True(t, domain.IsValidation(err))
	require.Equal(t, 0, store.EventCount())
}

func TestIngest_UnknownAd(t *testing.T) {
	store := storage.NewMemoryStore()
	agg := New(store, store, &stubScorer{fixed: 0.2}, logger.NewNop())

	_, _, err := agg.Ingest(context.Background(), clickEvent("sess-d", 42, 1, 0))
	require.ErrorIs(t, err, domain.ErrAdNotFound)
	require.Equal(t, 0, store.EventCount())
}

func TestIngest_ScorerFailureAbortsIngest(t *testing.T) {
	store := storage.NewMemoryStore()
	ad := seedAd(t, store)
	model := &stubScorer{err: errors.New("model backend down")}
	agg := New(store, store, model, logger.NewNop())

	_, _, err := agg.Ingest(context.Background(), clickEvent("sess-e", ad.ID, 1, 0))
	require.ErrorIs(t, err, domain.ErrScorerUnavailable)
	require.Equal(t, 0, store.EventCount())

	_, getErr := store.GetSession(context.Background(), "sess-e")
	require.ErrorIs(t, getErr, domain.ErrSessionNotFound)
}

func TestIngest_StorageFailurePropagates(t *testing.T) {
	base := storage.NewMemoryStore()
	ad := seedAd(t, base)
	applyErr := errors.New("connection reset")
	store := &failingSessionStore{MemoryStore: base, applyErr: applyErr}
	agg := New(store, base, &stubScorer{fixed: 0.2}, logger.NewNop())

	_, _, err := agg.Ingest(context.Background(), clickEvent("sess-f", ad.ID, 1, 0))
	require.ErrorIs(t, err, applyErr)
}

func TestIngest_ConcurrentSessionsStayIsolated(t *testing.T) {
	store := storage.NewMemoryStore()
	ad := seedAd(t, store)
	agg := New(store, store, &stubScorer{fixed: 0.1}, logger.NewNop())

	const sessions = 8
	const clicksPerSession = 25

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("sess-conc-%d", n)
			for j := 0; j < clicksPerSession; j++ {
				gap := float64(n+1) / 10.0
				if j == 0 {
					gap = 0
				}
				if _, _, err := agg.Ingest(context.Background(), clickEvent(sessionID, ad.ID, j+1, gap)); err != nil {
					t.Errorf("ingest %s click %d: %v", sessionID, j+1, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		sessionID := fmt.Sprintf("sess-conc-%d", i)
		summary, err := store.GetSession(context.Background(), sessionID)
		require.NoError(t, err)
		require.EqualValues(t, clicksPerSession, summary.ClickCount)
		require.True(t, summary.MinGapSet)
		require.Equal(t, float64(i+1)/10.0, summary.MinGap)
	}
	require.Equal(t, sessions*clicksPerSession, store.EventCount())
}
