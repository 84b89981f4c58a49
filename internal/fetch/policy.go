package fetch

import (
	"math/rand/v2"
	"time"
)

// Policy decides whether and when a failed attempt is retried. It is a pure
// function of the attempt count and the error kind, so retry behavior is
// testable without network timing.
type Policy struct {
	MaxAttempts int           // Attempts per segment including the first
	BaseDelay   time.Duration // Backoff before the first retry
	MaxDelay    time.Duration // Cap on backoff growth, 0 for uncapped
}

// DefaultPolicy returns conservative retry parameters.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// Next reports whether the fetch should be retried after its attempt'th
// failed try (1-based) with err, and the jittered backoff to wait first.
// Only transient errors retry, and never past MaxAttempts.
func (p Policy) Next(attempt int, err error) (time.Duration, bool) {
	if attempt >= p.MaxAttempts || !IsTransient(err) {
		return 0, false
	}

	backoff := p.BaseDelay
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if p.MaxDelay > 0 && backoff >= p.MaxDelay {
			break
		}
	}
	if p.MaxDelay > 0 && backoff > p.MaxDelay {
		backoff = p.MaxDelay
	}
	if backoff <= 0 {
		return 0, true
	}

	// Jitter: backoff * (0.5 to 1.5)
	return backoff/2 + time.Duration(rand.Int64N(int64(backoff))), true
}
