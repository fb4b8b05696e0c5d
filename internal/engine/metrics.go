package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests         atomic.Int64
	ProviderCalls          atomic.Int64
	ProviderErrors         atomic.Int64
	CandidatesEmitted      atomic.Int64
	YouTubeDataAPIRequests atomic.Int64
	YouTubeScrapeRequests  atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":           metrics.SearchRequests.Load(),
		"provider_calls":            metrics.ProviderCalls.Load(),
		"provider_errors":           metrics.ProviderErrors.Load(),
		"candidates_emitted":        metrics.CandidatesEmitted.Load(),
		"youtube_data_api_requests": metrics.YouTubeDataAPIRequests.Load(),
		"youtube_scrape_requests":   metrics.YouTubeScrapeRequests.Load(),
		"cache_hits":                hits,
		"cache_misses":              misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"search_requests",
		"provider_calls", "provider_errors",
		"candidates_emitted",
		"youtube_data_api_requests", "youtube_scrape_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the playback and sources sub-packages.
func IncrSearchRequests()          { metrics.SearchRequests.Add(1) }
func IncrProviderCalls()           { metrics.ProviderCalls.Add(1) }
func IncrProviderErrors()          { metrics.ProviderErrors.Add(1) }
func AddCandidatesEmitted(n int)   { metrics.CandidatesEmitted.Add(int64(n)) }
func IncrYouTubeDataAPIRequests()  { metrics.YouTubeDataAPIRequests.Add(1) }
func IncrYouTubeScrapeRequests()   { metrics.YouTubeScrapeRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
