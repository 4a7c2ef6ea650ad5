// Package features derives the fixed-shape numeric vector consumed by the
// fraud scorer from a single click event.
package features

import (
	"math"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/domain"
)

// minSessionMinutes floors the session duration so click frequency does not
// blow up for very young sessions.
const minSessionMinutes = 1.0

// botClampFrequency is the click frequency at which the bot likelihood
// saturates at 1.0.
const botClampFrequency = 10.0

// Vector is the fixed feature schema the scorer expects. VPNUsage and
// ProxyUsage are network-origin flags not collected by this deployment;
// they stay zero to keep the vector shape compatible with the scorer.
type Vector struct {
	ClickFrequency     float64
	TimeSinceLastClick float64
	BotLikelihood      float64
	VPNUsage           float64
	ProxyUsage         float64
}

// Values returns the vector in scorer input order.
func (v Vector) Values() [5]float64 {
	return [5]float64{
		v.ClickFrequency,
		v.TimeSinceLastClick,
		v.BotLikelihood,
		v.VPNUsage,
		v.ProxyUsage,
	}
}

// Build derives the feature vector for one click event. The event must
// already be validated; Build is pure and never fails on valid input.
func Build(event *domain.ClickEvent) Vector {
	freq := float64(event.SequenceIndex) / math.Max(event.SessionDurationMinutes, minSessionMinutes)

	return Vector{
		ClickFrequency:     freq,
		TimeSinceLastClick: event.TimeGapSeconds,
		BotLikelihood:      math.Min(freq/botClampFrequency, 1.0),
	}
}
