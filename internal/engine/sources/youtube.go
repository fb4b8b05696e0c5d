package sources

// YouTube implementation is split across two files by responsibility:
//   youtube.go        — provider type, construction, and shared request plumbing
//   youtube_search.go — video search (Data API v3 + ytInitialData scraping)
//                       and duration/thumbnail normalization

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

const (
	ytDataAPIBase   = "https://www.googleapis.com/youtube/v3"
	ytResultsURL    = "https://www.youtube.com/results"
	ytWatchURL      = "https://www.youtube.com/watch?v="
	ytSearchFilter  = "EgIQAQ%3D%3D" // videos-only filter param
	ytMaxPageBytes  = 4 * 1024 * 1024
	ytDefaultLimit  = engine.DefaultSearchLimit
	ytDataAPIMaxLim = 50
)

// YouTube searches videos through the Data API when a key is configured,
// otherwise by scraping the results page. Safe for concurrent use.
type YouTube struct {
	keys        []string
	client      *http.Client
	limiter     *rate.Limiter
	limit       int
	dataAPIBase string
	resultsURL  string
}

// NewYouTube builds the provider from engine configuration.
func NewYouTube(cfg engine.Config) *YouTube {
	var keys []string
	if cfg.YouTubeAPIKey != "" {
		keys = append(keys, cfg.YouTubeAPIKey)
	}
	if cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, cfg.YouTubeAPIKeyFallback)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.FetchTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = ytDefaultLimit
	}

	lim := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &YouTube{
		keys:        keys,
		client:      client,
		limiter:     lim,
		limit:       limit,
		dataAPIBase: ytDataAPIBase,
		resultsURL:  ytResultsURL,
	}
}

// do waits for the rate limiter and sends req.
func (y *YouTube) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return y.client.Do(req)
}
