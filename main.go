// go_transcript — YouTube Transcript MCP server.
//
// Exposes four MCP tools: get_transcript, search_transcript,
// get_transcript_summary, batch_transcripts. Runs as HTTP MCP server or
// stdio transport.
//
// Transcripts come either from the local Innertube extractor (standalone
// mode) or from a configured backend service (backend mode), behind a shared
// TTL cache and a sliding-window rate limiter.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_transcript/internal/transcript"
	"github.com/anatolykoptev/go_transcript/internal/transcript/innertube"
	"github.com/anatolykoptev/go_transcript/internal/ytserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	cfg := loadConfig()

	source := buildSource(cfg)

	cache, err := transcript.NewCache(cfg.CacheMaxSize, cfg.CacheTTL, cfg.NegativeCacheTTL, cfg.RedisURL)
	if err != nil {
		slog.Error("cache init failed", slog.Any("error", err))
		return
	}
	limiter := transcript.NewLimiter(cfg.RateLimitPerMinute, time.Minute)

	svc := transcript.NewService(cache, limiter, source)
	batch := transcript.NewBatchCoordinator(svc)

	slog.Info("starting go_transcript",
		slog.String("port", mcpPort),
		slog.String("mode", cfg.Mode),
		slog.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
		slog.Duration("cache_ttl", cfg.CacheTTL),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server, svc, batch)
	slog.Info("tools registered", slog.Int("count", 4))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      transcript.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() transcript.Config {
	fetchTimeout := env.Duration("YT_MCP_FETCH_TIMEOUT", 60*time.Second)
	return transcript.Config{
		Mode:               env.Str("YT_MCP_MODE", transcript.ModeStandalone),
		BackendURL:         env.Str("YT_MCP_BACKEND_URL", ""),
		BackendAPIKey:      env.Str("YT_MCP_BACKEND_API_KEY", ""),
		CacheMaxSize:       env.Int("YT_MCP_CACHE_MAX_SIZE", 100),
		CacheTTL:           env.Duration("YT_MCP_CACHE_TTL", time.Hour),
		NegativeCacheTTL:   env.Duration("YT_MCP_NEGATIVE_CACHE_TTL", 0),
		RedisURL:           env.Str("YT_MCP_REDIS_URL", ""),
		RateLimitPerMinute: env.Int("YT_MCP_RATE_LIMIT_PER_MINUTE", 30),
		FetchTimeout:       fetchTimeout,
		HTTPClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

// buildSource selects the transcript source once at startup; it is never
// switched per request.
func buildSource(cfg transcript.Config) transcript.Source {
	if cfg.Mode == transcript.ModeBackend {
		if cfg.BackendURL == "" {
			slog.Warn("backend mode without YT_MCP_BACKEND_URL, falling back to standalone")
		} else {
			slog.Info("backend mode", slog.String("url", cfg.BackendURL))
			return transcript.NewRemoteSource(cfg.BackendURL, cfg.BackendAPIKey, cfg.FetchTimeout, cfg.HTTPClient)
		}
	}
	slog.Info("standalone mode")
	return transcript.NewStandaloneSource(innertube.NewClient(cfg.HTTPClient, cfg.FetchTimeout))
}
