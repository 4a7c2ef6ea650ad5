package scorer

import (
	"context"

	"github.com/niranjanreddy05/ad-click-fraud-detection-system/internal/features"
)

// Rule weights and thresholds for the stand-in model. A sub-second gap
// between clicks is the strongest single signal, followed by sustained
// high click frequency and a saturated bot likelihood.
const (
	fastClickSeconds       = 1.0
	fastClickWeight        = 0.4
	highFrequencyPerMinute = 8.0
	highFrequencyWeight    = 0.3
	botLikelihoodEdge      = 0.6
	botLikelihoodWeight    = 0.3
	networkFlagWeight      = 0.2

	// probabilityFloor keeps the reported probability strictly positive so
	// downstream averages never divide into exact zeros.
	probabilityFloor = 0.001
)

// modelName is recorded with every scored click.
const modelName = "Rule-Based Fraud Model v1"

// RuleScorer is the deterministic stand-in for a trained model. It scores
// purely from the feature vector so it can be swapped for a real model
// without touching the aggregator.
type RuleScorer struct{}

// NewRuleScorer creates the rule-based scorer.
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

// Name identifies the model for reporting.
func (s *RuleScorer) Name() string {
	return modelName
}

// Score computes the fraud probability from the feature vector. It never
// fails; the error return exists to satisfy the Scorer contract shared
// with remote model backends.
func (s *RuleScorer) Score(_ context.Context, v features.Vector) (float64, error) {
	p := 0.0

	// A zero gap marks a session opener, not a machine-speed click.
	if v.TimeSinceLastClick > 0 && v.TimeSinceLastClick < fastClickSeconds {
		p += fastClickWeight
	}
	if v.ClickFrequency > highFrequencyPerMinute {
		p += highFrequencyWeight
	}
	if v.BotLikelihood > botLikelihoodEdge {
		p += botLikelihoodWeight
	}
	if v.VPNUsage > 0 || v.ProxyUsage > 0 {
		p += networkFlagWeight
	}

	if p > 1.0 {
		p = 1.0
	}
	if p < probabilityFloor {
		p = probabilityFloor
	}

	return p, nil
}
