// Package playserver exposes the playback ranker as MCP tools.
package playserver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
	"github.com/anatolykoptev/go_ytplay/internal/engine/playback"
	"github.com/anatolykoptev/go_ytplay/internal/settings"
)

// Server owns the live Ranker and rebuilds it when playback settings change.
// All Rankers share one Fetcher, so cached phrases survive a rebuild.
type Server struct {
	store   *settings.Store
	fetcher *playback.Fetcher
	vocab   playback.Matcher
	opts    playback.Options

	mu     sync.Mutex // serializes settings updates
	ranker atomic.Pointer[playback.Ranker]
}

// New loads playback settings from store and builds the first Ranker.
// opts.Settings is ignored; the store is authoritative.
func New(ctx context.Context, store *settings.Store, fetcher *playback.Fetcher, vocab playback.Matcher, opts playback.Options) (*Server, error) {
	s := &Server{store: store, fetcher: fetcher, vocab: vocab, opts: opts}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// RegisterTools registers youtube_play_search and youtube_play_settings.
func (s *Server) RegisterTools(server *mcp.Server) {
	s.registerPlaySearch(server)
	s.registerPlaySettings(server)
}

// Ranker returns the current Ranker.
func (s *Server) Ranker() *playback.Ranker {
	return s.ranker.Load()
}

// Settings returns the playback settings the current Ranker was built with.
func (s *Server) Settings() engine.PlaybackSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Settings
}

// reload must be called with mu held once the Server is shared.
func (s *Server) reload(ctx context.Context) error {
	ps, err := s.store.Playback(ctx)
	if err != nil {
		return fmt.Errorf("playserver: load settings: %w", err)
	}
	opts := s.opts
	opts.Settings = ps
	s.ranker.Store(playback.NewRankerWithFetcher(s.fetcher, s.vocab, opts))
	s.opts = opts

	slog.Info("playserver: ranker built",
		slog.Bool("fallback_mode", ps.FallbackMode),
		slog.Bool("audio_only", ps.AudioOnly),
		slog.Bool("video_only", ps.VideoOnly))
	return nil
}
