package transcript

import (
	"net/http"
	"time"
)

// Source selection modes.
const (
	ModeStandalone = "standalone"
	ModeBackend    = "backend"
)

// Config holds all transcript pipeline configuration, read once in main and
// injected here. Nothing in this package re-reads the environment mid-run.
type Config struct {
	Mode               string
	BackendURL         string
	BackendAPIKey      string
	CacheMaxSize       int
	CacheTTL           time.Duration
	NegativeCacheTTL   time.Duration // 0 disables negative caching of NotFound/LanguageUnavailable
	RedisURL           string        // empty disables the L2 tier
	RateLimitPerMinute int
	FetchTimeout       time.Duration
	HTTPClient         *http.Client
}
