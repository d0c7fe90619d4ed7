package jupiter

import (
	"context"
	"net/http"
	"time"
)

// maxBackoffFactor caps the backoff at this multiple of the base delay.
const maxBackoffFactor = 8

type retryPolicy struct {
	retries int
	base    time.Duration
}

// backoff returns the delay before retry number attempt+1: base, 2*base,
// 4*base, then 8*base for every later attempt.
func (p retryPolicy) backoff(attempt int) time.Duration {
	factor := 1 << min(attempt, 3)
	if factor > maxBackoffFactor {
		factor = maxBackoffFactor
	}
	return p.base * time.Duration(factor)
}

// wait sleeps for the backoff of attempt or until ctx is done.
func (p retryPolicy) wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(p.backoff(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryable reports whether a failed GET may be retried: transport errors
// (no status), 429 and 5xx.
func retryable(status int, err error) bool {
	if err == nil {
		return false
	}
	if status == 0 {
		return true
	}
	return status == http.StatusTooManyRequests || status >= 500
}
