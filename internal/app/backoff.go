package app

import (
	"math/rand/v2"
	"time"
)

// Retry delays for failed passes in watch mode.
const (
	DefaultRetryInitial = 5 * time.Second
	DefaultRetryMax     = 5 * time.Minute
)

// backoff yields exponentially growing delays with ±20% jitter.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	if max < initial {
		max = initial
	}
	return &backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Next returns the delay to wait before the next attempt and doubles the
// base delay, capped at max.
func (b *backoff) Next() time.Duration {
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	d := time.Duration(float64(b.current) + jitter)

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Reset goes back to the initial delay.
func (b *backoff) Reset() {
	b.current = b.initial
}

// Current returns the base delay of the next attempt, without jitter.
func (b *backoff) Current() time.Duration {
	return b.current
}
