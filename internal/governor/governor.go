// Package governor tracks the remote code-forge API's remaining quota and
// reset time, and gates every outbound call through CheckAndWait. It is the
// rate-limit governor of spec.md §4.1 (C1), grounded on the mutex-guarded
// token-bucket shape of pkg/ratelimit.TokenBucket but tracking absolute
// remaining/reset state rather than a refillable bucket, since the forge
// API reports remaining/reset directly.
package governor

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/githubnext/coderadar/pkg/logger"
	"github.com/githubnext/coderadar/pkg/ratelimit"
)

var log = logger.New("governor:ratelimit")

// Refresher re-hydrates rate-limit state from the remote. Implemented by
// internal/forge.Client; kept as an interface here so the governor never
// imports the forge package (avoids a cycle, keeps the governor testable
// with a fake).
type Refresher interface {
	GetRateLimit(ctx context.Context) (remaining int, resetAt time.Time, err error)
}

// Governor is the process-wide rate-limit tracker. Callers construct one
// explicitly and pass it through the pipeline; spec.md §9 rules out a
// global singleton for testability.
type Governor struct {
	mu        sync.Mutex
	remaining int
	resetAt   time.Time
	refresher Refresher
	bucket    *ratelimit.TokenBucket
}

// New creates a Governor seeded with an optimistic remaining count; the
// first CheckAndWait call will refresh it from the remote if a Refresher is
// set via SetRefresher. It also seeds a local token bucket so bursts of
// outbound calls are smoothed even between quota refreshes, which only
// track the forge's absolute remaining/reset counters.
func New() *Governor {
	bucket, err := ratelimit.NewTokenBucket(ratelimit.OperationGitHubAPI, nil)
	if err != nil {
		log.Printf("failed to build local token bucket, proceeding without burst smoothing: %v", err)
	}
	return &Governor{remaining: 5000, resetAt: time.Now().Add(time.Hour), bucket: bucket}
}

// SetRefresher wires the remote client used to re-hydrate state. Kept as a
// setter rather than a constructor argument so a governor can be built
// before, or without, a remote client.
func (g *Governor) SetRefresher(r Refresher) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refresher = r
}

// Update performs a compare-and-set style atomic replace of the tracked
// state. Readers may observe stale values between updates, which spec.md §5
// documents as acceptable because CheckAndWait always re-fetches before
// blocking.
func (g *Governor) Update(remaining int, resetAt time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remaining = remaining
	g.resetAt = resetAt
}

func (g *Governor) snapshot() (int, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining, g.resetAt
}

// CheckAndWait blocks until resetAt if remaining quota is critically low,
// then refreshes state from the remote. A refresh failure is logged at WARN
// and never propagated: spec.md §4.1 requires callers to proceed
// optimistically rather than fail the operation on a governor hiccup.
func (g *Governor) CheckAndWait(ctx context.Context) error {
	if g.bucket != nil {
		if err := g.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	remaining, resetAt := g.snapshot()
	if remaining <= 10 && resetAt.After(time.Now()) {
		wait := time.Until(resetAt)
		log.Printf("quota low (remaining=%d), blocking %v until reset", remaining, wait)
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	refresher := g.refresher
	g.mu.Unlock()
	if refresher == nil {
		return nil
	}
	newRemaining, newResetAt, err := refresher.GetRateLimit(ctx)
	if err != nil {
		log.Printf("rate-limit refresh failed, proceeding optimistically: %v", err)
		return nil
	}
	g.Update(newRemaining, newResetAt)
	return nil
}

// OptimalBatchSize computes the fan-out width per spec.md §4.1.
func (g *Governor) OptimalBatchSize() int {
	remaining, _ := g.snapshot()
	switch {
	case remaining > 3000:
		return 10
	case remaining > 1000:
		return 5
	default:
		return 3
	}
}

// BatchDelayMS computes the inter-batch sleep per spec.md §4.1.
func (g *Governor) BatchDelayMS() int {
	remaining, _ := g.snapshot()
	if remaining < 1000 {
		return 500
	}
	return 100
}

// EnvFileLimitVar is the sole environment override spec.md §6 recognizes.
const EnvFileLimitVar = "GITHUB_SCANNER_FILE_LIMIT"

// FileLimit computes the per-scan file cap per spec.md §4.1: an explicit
// env override always wins, otherwise authenticated/unauthenticated tiers
// scale with remaining quota.
func (g *Governor) FileLimit(authenticated bool) int {
	if v := os.Getenv(EnvFileLimitVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if !authenticated {
		return 30
	}
	remaining, _ := g.snapshot()
	if remaining > 4000 {
		return 100
	}
	return 50
}

// Remaining and ResetAt expose the current snapshot for observability
// (e.g. scheduler logging); they are not used for correctness decisions
// outside the governor itself.
func (g *Governor) Remaining() int {
	r, _ := g.snapshot()
	return r
}

func (g *Governor) ResetAt() time.Time {
	_, t := g.snapshot()
	return t
}
