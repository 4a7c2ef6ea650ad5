// Package scorer defines the fraud scoring contract and the rule-based
// reference implementation. The scorer maps a feature vector to a fraud
// probability in [0, 1]; everything derived from that probability
// (fraud flag, risk level) is computed by the caller.
package scorer

import (
	"context"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/features"
)

// Scorer is the pluggable fraud model boundary. Implementations must be
// safe for concurrent use and must return an error rather than a default
// probability when scoring is not possible.
type Scorer interface {
	// Name identifies the model for reporting (stored alongside results).
	Name() string

	// Score returns the fraud probability in [0, 1] for the given vector.
	Score(ctx context.Context, v features.Vector) (float64, error)
}
