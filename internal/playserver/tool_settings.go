package playserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytplay/internal/settings"
)

// PlaySettingsInput is the input for youtube_play_settings. Omitted fields
// are left unchanged; an empty input just reads the current values.
type PlaySettingsInput struct {
	FallbackMode *bool `json:"fallback_mode,omitempty" jsonschema:"Lower all scores by 25 unless the query names YouTube"`
	AudioOnly    *bool `json:"audio_only,omitempty" jsonschema:"Return audio-only candidates"`
	VideoOnly    *bool `json:"video_only,omitempty" jsonschema:"Return video candidates without audio duplicates"`
}

// PlaySettingsOutput is the output for youtube_play_settings.
type PlaySettingsOutput struct {
	FallbackMode bool     `json:"fallback_mode"`
	AudioOnly    bool     `json:"audio_only"`
	VideoOnly    bool     `json:"video_only"`
	Updated      []string `json:"updated,omitempty"`
}

func (s *Server) registerPlaySettings(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_play_settings",
		Description: "Read or update YouTube playback settings (fallback_mode, audio_only, video_only). Settings persist across restarts; audio_only takes precedence over video_only.",
	}, s.handlePlaySettings)
}

func (s *Server) handlePlaySettings(ctx context.Context, _ *mcp.CallToolRequest, input PlaySettingsInput) (*mcp.CallToolResult, PlaySettingsOutput, error) {
	updates := []struct {
		key string
		v   *bool
	}{
		{settings.KeyFallbackMode, input.FallbackMode},
		{settings.KeyAudioOnly, input.AudioOnly},
		{settings.KeyVideoOnly, input.VideoOnly},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated []string
	for _, u := range updates {
		if u.v == nil {
			continue
		}
		if err := s.store.SetPlayback(ctx, u.key, *u.v); err != nil {
			return nil, PlaySettingsOutput{}, fmt.Errorf("update %s: %w", u.key, err)
		}
		updated = append(updated, u.key)
	}
	if len(updated) > 0 {
		if err := s.reload(ctx); err != nil {
			return nil, PlaySettingsOutput{}, err
		}
	}

	ps := s.opts.Settings
	return nil, PlaySettingsOutput{
		FallbackMode: ps.FallbackMode,
		AudioOnly:    ps.AudioOnly,
		VideoOnly:    ps.VideoOnly,
		Updated:      updated,
	}, nil
}
