// Package retry implements the single retry-plus-governor combinator of
// spec.md §4.2 (C2): bounded exponential backoff that synchronizes with the
// rate-limit governor between attempts, per spec.md §9's guidance to
// compose retry and governor coordination into one mechanism rather than two
// independent ones.
package retry

import (
	"context"
	"time"

	"github.com/githubnext/coderadar/internal/errs"
	"github.com/githubnext/coderadar/pkg/logger"
)

var log = logger.New("retry:executor")

// Waiter is the governor capability retry needs: CheckAndWait between
// attempts. Satisfied by *governor.Governor.
type Waiter interface {
	CheckAndWait(ctx context.Context) error
}

// Sleeper abstracts time.Sleep for deterministic tests.
type Sleeper func(d time.Duration)

// DefaultMaxAttempts is used when callers pass 0.
const DefaultMaxAttempts = 3

// Do runs op, retrying on retryable errors (errs.Retryable) with a
// 2^attempt second backoff, capped at maxAttempts. Before every attempt,
// the first included, it synchronizes with the governor via CheckAndWait. Non-retryable errors
// surface immediately. On exhaustion the last error is returned — not
// panicked — so batch aggregation in C4 can continue past it.
func Do(ctx context.Context, w Waiter, name string, maxAttempts int, op func(ctx context.Context) error) error {
	return doWithSleep(ctx, w, name, maxAttempts, time.Sleep, op)
}

func doWithSleep(ctx context.Context, w Waiter, name string, maxAttempts int, sleep Sleeper, op func(ctx context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if w != nil {
			if err := w.CheckAndWait(ctx); err != nil {
				return err
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !errs.Retryable(lastErr) {
			log.Printf("%s: non-retryable error, surfacing: %v", name, lastErr)
			return lastErr
		}

		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(1<<uint(attempt)) * time.Second
		log.Printf("%s: retryable error on attempt %d/%d, backing off %v: %v", name, attempt, maxAttempts, delay, lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sleep(delay)
	}

	log.Printf("%s: exhausted %d attempts, returning failure", name, maxAttempts)
	return lastErr
}
