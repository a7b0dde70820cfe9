package service

import (
	"context"
	"log"
	"time"
)

// Retrier re-runs a completion attempt until it produces an acceptable
// answer or the attempt budget is spent. Transport failures and weak
// answers share one loop; the two predicates stay separate (err != nil
// versus IsWeakResponse).
type Retrier struct {
	// MaxAttempts is the total number of attempts, not the number of
	// retries after the first one.
	MaxAttempts int
	// Delay is the fixed pause before every attempt after the first.
	Delay time.Duration

	// sleep is swapped in tests to count delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// attemptFunc runs one completion attempt and returns the answer text.
type attemptFunc func(ctx context.Context) (string, error)

// Run executes attempts until one yields a non-weak answer. A weak answer
// is retried with the identical input while budget remains, but the last
// captured answer is still preferred over raising once the budget is
// spent. An error comes back only when no answer was captured at all; it
// is the final attempt's error.
func (r Retrier) Run(ctx context.Context, attempt attemptFunc) (string, error) {
	var (
		lastResponse string
		captured     bool
		lastErr      error
	)

	for i := 0; i < r.MaxAttempts; i++ {
		if i > 0 {
			if err := r.pause(ctx); err != nil {
				lastErr = err
				break
			}
		}

		text, err := attempt(ctx)
		if err != nil {
			lastErr = err
			log.Printf("WARN: completion attempt %d/%d failed: %v", i+1, r.MaxAttempts, err)
			continue
		}

		lastResponse, captured = text, true
		if !IsWeakResponse(text) {
			return text, nil
		}
		log.Printf("WARN: weak response on attempt %d/%d (%d chars)", i+1, r.MaxAttempts, len(text))
	}

	if captured {
		return lastResponse, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", nil
}

func (r Retrier) pause(ctx context.Context) error {
	if r.sleep != nil {
		return r.sleep(ctx, r.Delay)
	}

	t := time.NewTimer(r.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
