package client

import "time"

// -----------------------------------------------------------------------------
// Reconnection backoff. Grows geometrically up to a ceiling and resets only
// after the server confirms a subscription, not on mere TCP connect.
// -----------------------------------------------------------------------------

type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64

	current time.Duration
}

// -----------------------------------------------------------------------------

func NewBackoff(initial, max time.Duration, factor float64) *Backoff {
	return &Backoff{Initial: initial, Max: max, Factor: factor}
}

// -----------------------------------------------------------------------------

// Next returns the delay to wait before the next attempt and advances the
// schedule.
func (b *Backoff) Next() time.Duration {
	if b.current == 0 {
		b.current = b.Initial
	}

	delay := b.current

	next := time.Duration(float64(b.current) * b.Factor)
	if next > b.Max {
		next = b.Max
	}
	b.current = next

	return delay
}

// -----------------------------------------------------------------------------

// Reset returns the schedule to its initial delay.
func (b *Backoff) Reset() {
	b.current = 0
}
