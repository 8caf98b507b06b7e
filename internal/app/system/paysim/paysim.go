// internal/app/system/paysim/paysim.go

// Package paysim decides simulated payment outcomes. The gateway is fake:
// verification approves a configurable fraction of payments at random so
// client retry paths get exercised.
package paysim

import "math/rand/v2"

// DefaultSuccessRate approves 95% of verifications.
const DefaultSuccessRate = 0.95

// OutcomeDecider decides whether a payment verification succeeds.
// The payments handler takes this as an interface so tests can force
// either outcome deterministically.
type OutcomeDecider interface {
	Approve() bool
}

// RandomDecider approves with a fixed probability.
type RandomDecider struct {
	rate float64
}

// NewRandomDecider clamps rate into [0,1] and returns a decider.
func NewRandomDecider(rate float64) *RandomDecider {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return &RandomDecider{rate: rate}
}

func (d *RandomDecider) Approve() bool {
	return rand.Float64() < d.rate
}

// Fixed always returns the same outcome. Used in tests.
type Fixed bool

func (f Fixed) Approve() bool { return bool(f) }
