package playserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
	"github.com/anatolykoptev/go_ytplay/internal/engine/playback"
	"github.com/anatolykoptev/go_ytplay/internal/toolutil"
)

// PlaySearchInput is the input for youtube_play_search.
type PlaySearchInput struct {
	Query        string `json:"query" jsonschema:"What to play (e.g. lofi hip hop radio, history of rome podcast)"`
	MediaType    string `json:"media_type,omitempty" jsonschema:"generic (default), music, podcast, documentary, video or audio"`
	GUIConnected *bool  `json:"gui_connected,omitempty" jsonschema:"Whether a screen is attached (default true); false forces audio playback"`
}

// PlaySearchOutput is the output for youtube_play_search.
type PlaySearchOutput struct {
	Query         string                `json:"query"`
	Phrase        string                `json:"phrase"`
	MediaType     string                `json:"media_type"`
	Supported     bool                  `json:"supported"`
	Explicit      bool                  `json:"explicit"`
	PlaybackForms []engine.PlaybackType `json:"playback_forms"`
	Degraded      bool                  `json:"degraded,omitempty"`
	Candidates    []engine.Candidate    `json:"candidates"`
}

func (s *Server) registerPlaySearch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_play_search",
		Description: "Search YouTube for something to play and return scored playback candidates (0-100 match_confidence) in provider order. Each video result is also offered as an audio-only candidate unless settings say otherwise. Naming YouTube in the query raises confidence. Podcast and documentary requests keep only long-form results.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handlePlaySearch)
}

func (s *Server) handlePlaySearch(ctx context.Context, _ *mcp.CallToolRequest, input PlaySearchInput) (*mcp.CallToolResult, PlaySearchOutput, error) {
	phrase := strings.TrimSpace(input.Query)
	if phrase == "" {
		return nil, PlaySearchOutput{}, errors.New("query is required")
	}

	mt := engine.MediaType(toolutil.NormMediaType(input.MediaType))
	q := engine.Query{
		Phrase:       phrase,
		MediaType:    mt,
		GUIConnected: toolutil.BoolOr(input.GUIConnected, true),
	}

	res := s.Ranker().Run(ctx, q)
	return nil, PlaySearchOutput{
		Query:         phrase,
		Phrase:        res.Request.Phrase,
		MediaType:     string(mt),
		Supported:     playback.Supports(mt),
		Explicit:      res.Request.Explicit,
		PlaybackForms: res.Request.Playback,
		Degraded:      res.Degraded,
		Candidates:    res.Candidates,
	}, nil
}
