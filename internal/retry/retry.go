// Package retry provides fixed-interval retry with a bounded attempt count.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy retries an operation at a fixed spacing until it succeeds or the
// attempt budget is spent.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Interval is the fixed delay between attempts.
	Interval time.Duration
}

// DefaultPolicy matches the classifier contract: three attempts spaced one
// minute apart.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Interval:    1 * time.Minute,
	}
}

// Do executes fn until it succeeds, the attempts are exhausted, or the
// context is canceled while waiting between attempts.
func (p Policy) Do(ctx context.Context, op string, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == attempts {
			break
		}

		select {
		case <-time.After(p.Interval):
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}

	return fmt.Errorf("%s: %d attempts failed: %w", op, attempts, lastErr)
}
