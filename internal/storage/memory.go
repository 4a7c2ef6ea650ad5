package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
)

// loggedClick is one appended click log row.
type loggedClick struct {
	event  domain.ClickEvent
	assess domain.Assessment
}

// MemoryStore is an in-memory implementation of the store interfaces for
// tests and local development. All operations are safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.SessionSummary
	events   []loggedClick
	ads      map[int64]*domain.Ad
	nextAdID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.SessionSummary),
		ads:      make(map[int64]*domain.Ad),
		nextAdID: 1,
	}
}

// GetSession returns a copy of the summary for the given session id.
func (m *MemoryStore) GetSession(_ context.Context, sessionID string) (*domain.SessionSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	cp := *summary
	return &cp, nil
}

// ApplyClick appends the event and stores the summary atomically under the
// store lock.
func (m *MemoryStore) ApplyClick(
	_ context.Context,
	event *domain.ClickEvent,
	assess domain.Assessment,
	summary *domain.SessionSummary,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, loggedClick{event: *event, assess: assess})

	cp := *summary
	m.sessions[summary.SessionID] = &cp
	return nil
}

// GetAd returns the ad with the given id, or domain.ErrAdNotFound.
func (m *MemoryStore) GetAd(_ context.Context, id int64) (*domain.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ad, ok := m.ads[id]
	if !ok {
		return nil, domain.ErrAdNotFound
	}

	cp := *ad
	return &cp, nil
}

// ListActiveAds returns all active ads, newest first.
func (m *MemoryStore) ListActiveAds(_ context.Context) ([]*domain.Ad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ads []*domain.Ad
	for _, ad := range m.ads {
		if ad.Active {
			cp := *ad
			ads = append(ads, &cp)
		}
	}

	sort.Slice(ads, func(i, j int) bool {
		return ads[i].CreatedAt.After(ads[j].CreatedAt)
	})
	return ads, nil
}

// CreateAd inserts a new ad and assigns its id.
func (m *MemoryStore) CreateAd(_ context.Context, ad *domain.Ad) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ad.ID = m.nextAdID
	m.nextAdID++
	ad.Active = true
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}

	cp := *ad
	m.ads[ad.ID] = &cp
	return nil
}

// RecentSessions returns up to limit summaries for the advertiser, most
// recently updated first.
func (m *MemoryStore) RecentSessions(_ context.Context, advertiserID int64, limit int) ([]*domain.SessionSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sessions []*domain.SessionSummary
	for _, summary := range m.sessions {
		if summary.AdvertiserID == advertiserID {
			cp := *summary
			sessions = append(sessions, &cp)
		}
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// AdvertiserStats sums session click counts partitioned by the sticky
// session fraud flag. A flagged session contributes all of its clicks to
// the fraud bucket, even the ones that scored genuine individually.
func (m *MemoryStore) AdvertiserStats(_ context.Context, advertiserID int64) (*domain.AdvertiserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &domain.AdvertiserStats{}
	perAd := make(map[int64]*domain.AdStats)
	perAdSessions := make(map[int64]int64)
	probSums := make(map[int64]float64)
	var probTotal float64
	var sessionCount int64

	for _, summary := range m.sessions {
		if summary.AdvertiserID != advertiserID {
			continue
		}

		stats.TotalClicks += summary.ClickCount
		sessionCount++
		probTotal += summary.FraudProbability
		if summary.IsFraud {
			stats.FraudClicks += summary.ClickCount
		} else {
			stats.GenuineClicks += summary.ClickCount
		}

		adStats, ok := perAd[summary.AdID]
		if !ok {
			adStats = &domain.AdStats{AdID: summary.AdID}
			if ad, exists := m.ads[summary.AdID]; exists {
				adStats.Title = ad.Title
			}
			perAd[summary.AdID] = adStats
		}
		adStats.Clicks += summary.ClickCount
		perAdSessions[summary.AdID]++
		probSums[summary.AdID] += summary.FraudProbability
		if summary.IsFraud {
			adStats.FraudClicks += summary.ClickCount
		}
	}

	if sessionCount > 0 {
		stats.AvgFraudProbability = probTotal / float64(sessionCount)
	}

	for id, adStats := range perAd {
		if n := perAdSessions[id]; n > 0 {
			adStats.AvgFraudProbability = probSums[id] / float64(n)
		}
		stats.Ads = append(stats.Ads, *adStats)
	}

	sort.Slice(stats.Ads, func(i, j int) bool {
		return stats.Ads[i].Clicks > stats.Ads[j].Clicks
	})
	return stats, nil
}

// EventCount reports how many clicks have been appended to the log.
func (m *MemoryStore) EventCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
