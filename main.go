// go_ytplay — YouTube playback search MCP server.
//
// Exposes two MCP tools: youtube_play_search ranks YouTube results into
// scored video/audio playback candidates, youtube_play_settings reads and
// updates the persisted playback preferences.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
	"github.com/anatolykoptev/go_ytplay/internal/engine/playback"
	"github.com/anatolykoptev/go_ytplay/internal/engine/sources"
	"github.com/anatolykoptev/go_ytplay/internal/playserver"
	"github.com/anatolykoptev/go_ytplay/internal/settings"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initLogging(env.Str("LOG_LEVEL", "info"))

	cfg := loadConfig()
	ctx := context.Background()

	slog.Info("starting go_ytplay",
		slog.String("port", mcpPort),
		slog.Bool("data_api", cfg.YouTubeAPIKey != ""),
		slog.String("duration_mode", cfg.DurationMode),
	)

	play, cleanup, err := initPlayback(ctx, cfg)
	if err != nil {
		slog.Error("init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytplay",
		Version: version,
	}, nil)

	play.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 2))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytplay",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 60 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func loadConfig() engine.Config {
	home, _ := os.UserHomeDir()
	return engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		SearchLimit:           env.Int("SEARCH_LIMIT", engine.DefaultSearchLimit),
		RequestsPerSecond:     env.Float("YOUTUBE_RPS", 2),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 15*time.Second),
		CacheTTL:              env.Duration("CACHE_TTL", 0),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval:  env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		RedisURL:              env.Str("REDIS_URL", ""),
		SkillID:               env.Str("SKILL_ID", "youtube.play"),
		SkillIcon:             env.Str("SKILL_ICON", ""),
		DurationMode:          env.Str("DURATION_MODE", playback.DurationFaithful.String()),
		VocabPath:             env.Str("VOCAB_PATH", ""),
		SettingsPath:          env.Str("SETTINGS_PATH", filepath.Join(home, ".go_ytplay", "settings.db")),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}

// initPlayback wires settings store, vocabulary, cache and provider into the
// MCP-facing server. The returned cleanup closes the store and cache.
func initPlayback(ctx context.Context, cfg engine.Config) (*playserver.Server, func(), error) {
	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return nil, nil, err
	}
	def := engine.DefaultPlaybackSettings()
	seed := engine.PlaybackSettings{
		FallbackMode: envBool("FALLBACK_MODE", def.FallbackMode),
		AudioOnly:    envBool("AUDIO_ONLY", def.AudioOnly),
		VideoOnly:    envBool("VIDEO_ONLY", def.VideoOnly),
	}
	if err := store.SeedDefaults(ctx, seed); err != nil {
		store.Close()
		return nil, nil, err
	}

	vocab, err := playback.LoadVocabulary(cfg.VocabPath)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	slog.Info("vocabulary loaded", slog.String("path", cfg.VocabPath), slog.Int("categories", len(vocab.Categories())))

	mode, err := playback.ParseDurationMode(cfg.DurationMode)
	if err != nil {
		slog.Warn("unknown duration mode, using faithful", slog.String("mode", cfg.DurationMode))
		mode = playback.DurationFaithful
	}

	cache := engine.NewPhraseCache(ctx, engine.CacheOptions{
		RedisURL:        cfg.RedisURL,
		TTL:             cfg.CacheTTL,
		MaxEntries:      cfg.CacheMaxEntries,
		CleanupInterval: cfg.CacheCleanupInterval,
	})

	fetcher := playback.NewFetcher(sources.NewYouTube(cfg), cache)
	play, err := playserver.New(ctx, store, fetcher, vocab, playback.Options{
		SkillID:   cfg.SkillID,
		SkillIcon: cfg.SkillIcon,
		Durations: mode,
	})
	if err != nil {
		cache.Close()
		store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		cache.Close()
		if err := store.Close(); err != nil {
			slog.Warn("settings close failed", slog.Any("error", err))
		}
	}
	return play, cleanup, nil
}

// envBool reads a boolean env var; go-kit/env has no bool helper.
func envBool(key string, def bool) bool {
	v := strings.TrimSpace(env.Str(key, ""))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean env var, using default", slog.String("key", key), slog.String("value", v))
		return def
	}
	return b
}
