package engine

import "strings"

// --- Request types ---

// MediaType is the content category a caller asks for.
type MediaType string

const (
	MediaGeneric     MediaType = "generic"
	MediaMusic       MediaType = "music"
	MediaPodcast     MediaType = "podcast"
	MediaDocumentary MediaType = "documentary"
	MediaVideo       MediaType = "video"
	MediaAudio       MediaType = "audio"
)

// ParseMediaType maps a user-facing name to a MediaType.
// Empty input is generic; unknown names report false.
func ParseMediaType(s string) (MediaType, bool) {
	switch mt := MediaType(strings.ToLower(strings.TrimSpace(s))); mt {
	case "":
		return MediaGeneric, true
	case MediaGeneric, MediaMusic, MediaPodcast, MediaDocumentary, MediaVideo, MediaAudio:
		return mt, true
	}
	return "", false
}

// PlaybackType is the rendering modality of a candidate.
type PlaybackType string

const (
	PlaybackVideo PlaybackType = "video"
	PlaybackAudio PlaybackType = "audio"
)

// Query is one search invocation.
type Query struct {
	Phrase       string
	MediaType    MediaType
	GUIConnected bool // false forces audio-only playback
}

// --- Provider types ---

// Thumbnail is a single preview image, ordered smallest first by the provider.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// RawResult is a video hit as returned by the search provider.
type RawResult struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Length     string      `json:"length,omitempty"` // "S", "M:S" or "H:M:S"
	Channel    string      `json:"channel,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails"`
}

// --- Output types ---

// Candidate is a scored, playable result handed to the arbiter.
type Candidate struct {
	MatchConfidence int          `json:"match_confidence"` // <= 100, may be negative
	MediaType       MediaType    `json:"media_type"`
	Length          int64        `json:"length"` // milliseconds
	URI             string       `json:"uri"`
	Playback        PlaybackType `json:"playback"`
	Image           string       `json:"image"`
	BgImage         string       `json:"bg_image"`
	SkillIcon       string       `json:"skill_icon,omitempty"`
	SkillLogo       string       `json:"skill_logo,omitempty"`
	Title           string       `json:"title"`
	SkillID         string       `json:"skill_id"`
}

// PlaybackSettings are the persisted behaviour switches of the engine.
type PlaybackSettings struct {
	FallbackMode bool `json:"fallback_mode"`
	AudioOnly    bool `json:"audio_only"`
	VideoOnly    bool `json:"video_only"`
}

// DefaultPlaybackSettings returns the values used for missing settings keys.
func DefaultPlaybackSettings() PlaybackSettings {
	return PlaybackSettings{FallbackMode: false, AudioOnly: false, VideoOnly: true}
}
