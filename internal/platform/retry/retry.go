// Package retry computes backoff delays and retry/final-failure decisions for
// the Step attempt counters each phase worker maintains.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Policy mirrors the attempt-bounded backoff used across every phase worker.
// MaxAttempts is the spec's MAX_ATTEMPTS (5): a Step reaching that many
// attempts without succeeding goes FINAL_FAILED instead of FAILED.
type Policy struct {
	MaxAttempts int
	MinBackoff  time.Duration // default 1s
	MaxBackoff  time.Duration // default 30s
	JitterFrac  float64       // default 0.20
}

// DefaultPolicy is the spec's MAX_ATTEMPTS=5 with a 1s-30s backoff window.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		MinBackoff:  1 * time.Second,
		MaxBackoff:  30 * time.Second,
		JitterFrac:  0.20,
	}
}

// IsFinal reports whether attempts (after incrementing for the failure just
// observed) has reached MaxAttempts, meaning the Step must go FINAL_FAILED
// and the Task must go FAILED.
func (p Policy) IsFinal(attempts int) bool {
	max := p.MaxAttempts
	if max <= 0 {
		max = 5
	}
	return attempts >= max
}

// Backoff computes minB*2^(attempts-1), capped at maxB, with +/-jitterFrac
// randomization. Ported from the teacher's orchestrator engine computeBackoff.
func (p Policy) Backoff(attempts int) time.Duration {
	minB := p.MinBackoff
	maxB := p.MaxBackoff
	j := p.JitterFrac
	if minB <= 0 {
		minB = 1 * time.Second
	}
	if maxB <= 0 {
		maxB = 30 * time.Second
	}
	if j <= 0 {
		j = 0.20
	}
	if attempts < 1 {
		attempts = 1
	}
	d := time.Duration(float64(minB) * math.Pow(2, float64(attempts-1)))
	if d > maxB {
		d = maxB
	}
	delta := float64(d) * j
	low := float64(d) - delta
	high := float64(d) + delta
	if low < 0 {
		low = 0
	}
	return time.Duration(low + rand.Float64()*(high-low))
}
