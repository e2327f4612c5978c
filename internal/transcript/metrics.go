package transcript

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the pipeline.
var metrics struct {
	TranscriptRequests atomic.Int64
	SearchRequests     atomic.Int64
	SummaryRequests    atomic.Int64
	BatchRequests      atomic.Int64
	SourceFetches      atomic.Int64
	SourceErrors       atomic.Int64
	RateLimited        atomic.Int64
	CacheHits          atomic.Int64
	CacheMisses        atomic.Int64
}

func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrSearchRequests()     { metrics.SearchRequests.Add(1) }
func IncrSummaryRequests()    { metrics.SummaryRequests.Add(1) }
func IncrBatchRequests()      { metrics.BatchRequests.Add(1) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"search_requests":     metrics.SearchRequests.Load(),
		"summary_requests":    metrics.SummaryRequests.Load(),
		"batch_requests":      metrics.BatchRequests.Load(),
		"source_fetches":      metrics.SourceFetches.Load(),
		"source_errors":       metrics.SourceErrors.Load(),
		"rate_limited":        metrics.RateLimited.Load(),
		"cache_hits":          metrics.CacheHits.Load(),
		"cache_misses":        metrics.CacheMisses.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	keys := []string{
		"transcript_requests", "search_requests", "summary_requests", "batch_requests",
		"source_fetches", "source_errors",
		"rate_limited",
		"cache_hits", "cache_misses",
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
