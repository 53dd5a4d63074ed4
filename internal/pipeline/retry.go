package pipeline

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/bookprep/internal/ai"
)

// MaxRetries bounds attempts per chunk. A chunk that exhausts its retries
// degrades to an empty fragment rather than failing the document.
const MaxRetries = 3

// IsRetryable reports whether err is a transient collaborator failure
// (rate limit, upstream 5xx) worth another attempt.
func IsRetryable(err error) bool {
	var retryErr *ai.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns the wait before retry attempt n (0-indexed): exponential
// from one second, capped at 30s, plus up to 50% jitter so paced sequential
// chunks don't re-hit a rate limit in lockstep.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}
