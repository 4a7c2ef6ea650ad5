package domain

import "time"

// Advertiser owns a set of ads and sees the aggregated fraud reporting
// for them.
type Advertiser struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Ad is a single advertisement shown on the click surface.
type Ad struct {
	ID           int64     `json:"id"`
	AdvertiserID int64     `json:"advertiser_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	TargetURL    string    `json:"target_url"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdvertiserStats is the aggregate view over all clicks for one advertiser.
type AdvertiserStats struct {
	TotalClicks         int64     `json:"total_clicks"`
	FraudClicks         int64     `json:"fraud_clicks"`
	GenuineClicks       int64     `json:"genuine_clicks"`
	AvgFraudProbability float64   `json:"avg_fraud_probability"`
	Ads                 []AdStats `json:"ads"`
}

// AdStats is the per-ad breakdown inside AdvertiserStats.
type AdStats struct {
	AdID                int64   `json:"ad_id"`
	Title               string  `json:"title"`
	Clicks              int64   `json:"clicks"`
	FraudClicks         int64   `json:"fraud_clicks"`
	AvgFraudProbability float64 `json:"avg_fraud_probability"`
}
