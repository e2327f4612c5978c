package transcript

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds for the transcript pipeline. Everything the cache, limiter, and
// sources can fail with maps onto one of these, so callers classify with
// errors.Is regardless of which source implementation is active.
var (
	// ErrInvalidReference means the input matched no accepted URL or ID form.
	ErrInvalidReference = errors.New("invalid video reference")

	// ErrInvalidParameter means a request parameter failed validation before
	// any cache/limiter/source interaction.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound means the video does not exist or has no transcript at all.
	ErrNotFound = errors.New("transcript not found")

	// ErrLanguageUnavailable means the video has transcripts, but not in the
	// requested language. Retrying without changing the language is pointless.
	ErrLanguageUnavailable = errors.New("language unavailable")

	// ErrSourceUnavailable covers network and backend failures, including
	// timeouts. Transient; an external retry may succeed.
	ErrSourceUnavailable = errors.New("transcript source unavailable")

	// ErrRateLimited means the sliding-window limiter denied the call.
	ErrRateLimited = errors.New("rate limited")
)

// RateLimitedError carries the advisory retry-after hint alongside
// ErrRateLimited. Matched with errors.Is(err, ErrRateLimited) and unpacked
// with errors.As.
type RateLimitedError struct {
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded (%d/min), retry in %s", e.Limit, e.RetryAfter.Round(time.Millisecond))
}

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }

// RetryAfter extracts the advisory retry-after duration from an error chain.
// Returns 0 if err is not a rate-limit error.
func RetryAfter(err error) time.Duration {
	var rle *RateLimitedError
	if errors.As(err, &rle) {
		return rle.RetryAfter
	}
	return 0
}
