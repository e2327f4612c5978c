package transcript

import "context"

// Source fetches one transcript in one language. Implementations must be safe
// for concurrent use and must map every failure onto ErrNotFound,
// ErrLanguageUnavailable, or ErrSourceUnavailable so callers are indifferent
// to which implementation is active. Selected once at startup, never per
// request.
type Source interface {
	Fetch(ctx context.Context, ref VideoRef, language string) (*Transcript, error)
}
