package orchestrator

import (
	"context"
	"math/rand/v2"
	"time"
)

// backoffDelay computes the wait before retry number attempt (0-based):
// the base delay doubles per attempt up to maxDelay, then jitter keeps
// concurrent tasks from retrying in lockstep. At least half the computed
// delay is always honored.
func backoffDelay(base, maxDelay time.Duration, attempt int) time.Duration {
	if base <= 0 || maxDelay <= 0 {
		return 0
	}

	delay := base
	for i := 0; i < attempt && delay < maxDelay; i++ {
		delay *= 2
	}
	if delay > maxDelay {
		delay = maxDelay
	}

	half := delay / 2
	return half + rand.N(delay-half+1)
}

// sleepContext waits for d unless the context is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
