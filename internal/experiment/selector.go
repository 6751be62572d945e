package experiment

import (
	"math"
	"math/rand"
	"time"

	"github.com/lnkday/page-engine/internal/page"
)

// TrafficTolerance is how far an enabled experiment's traffic sum may drift
// from 100 and still be accepted.
const TrafficTolerance = 0.01

// Selector picks the variant a given render should serve. Selection is
// independently randomized per call; there is no per-visitor stickiness at
// this layer.
type Selector struct {
	// draw returns a uniform value in [0, 100).
	draw func() float64
}

func NewSelector() *Selector {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Selector{draw: func() float64 { return rng.Float64() * 100 }}
}

// NewSelectorWithDraw injects the random draw, for deterministic tests.
func NewSelectorWithDraw(draw func() float64) *Selector {
	return &Selector{draw: draw}
}

// Select returns the variant to serve, or nil when no experiment applies.
//
// An explicit variant id bypasses randomization entirely; this is how direct
// preview links pin a variant. Otherwise one draw in [0,100) walks the
// variants in stored order accumulating traffic percentages, and the first
// variant whose running total reaches the draw wins. If the walk falls
// through (a validated sum can still come up short in floating point), the
// control variant is served, else the first variant. With a non-empty
// variant list this never returns nil.
func (s *Selector) Select(exp *page.Experiment, explicitVariantID string) *page.Variant {
	if exp == nil || !exp.IsEnabled || len(exp.Variants) == 0 {
		return nil
	}

	if explicitVariantID != "" {
		if v := exp.Variant(explicitVariantID); v != nil {
			return v
		}
	}

	r := s.draw()
	cumulative := 0.0
	for i := range exp.Variants {
		cumulative += exp.Variants[i].TrafficPercentage
		if cumulative >= r {
			return &exp.Variants[i]
		}
	}

	for i := range exp.Variants {
		if exp.Variants[i].IsControl {
			return &exp.Variants[i]
		}
	}
	return &exp.Variants[0]
}

// ValidateTraffic checks the traffic-sum invariant for an enabled
// configuration. Disabled configurations are always valid; an out-of-band
// write that breaks a stored sum is absorbed by Select's fallback rather
// than failing renders.
func ValidateTraffic(exp *page.Experiment) error {
	if exp == nil || !exp.IsEnabled {
		return nil
	}
	sum := 0.0
	for _, v := range exp.Variants {
		sum += v.TrafficPercentage
	}
	if math.Abs(sum-100) > TrafficTolerance {
		return ErrTrafficSum
	}
	return nil
}
