package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	SearchLimit           int     // max videos requested per phrase
	RequestsPerSecond     float64 // provider throttle, 0 = unlimited
	FetchTimeout          time.Duration
	CacheTTL              time.Duration // 0 = entries live for the process lifetime
	CacheMaxEntries       int           // 0 = unbounded
	CacheCleanupInterval  time.Duration
	RedisURL              string // empty disables the L2 cache
	SkillID               string
	SkillIcon             string
	DurationMode          string // "faithful" or "positional"
	VocabPath             string // empty = embedded defaults
	SettingsPath          string
	HTTPClient            *http.Client
}

// DefaultSearchLimit mirrors the page size of a YouTube results page.
const DefaultSearchLimit = 20
