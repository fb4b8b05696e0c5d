package playback

import "github.com/anatolykoptev/go_ytplay/internal/engine"

// Base score adjustments applied before per-result scoring.
const (
	musicBaseBonus    = 15
	videoBaseBonus    = 25
	explicitBaseBonus = 50
)

// Request is a query after provider-name stripping and playback planning.
type Request struct {
	Phrase    string
	MediaType engine.MediaType
	Explicit  bool // phrase named the provider
	BaseScore float64
	Playback  []engine.PlaybackType
}

// Normalize strips an explicit provider mention from the phrase and decides
// the base score and playback forms for the query.
func Normalize(q engine.Query, vocab Matcher) Request {
	req := Request{Phrase: q.Phrase, MediaType: q.MediaType}

	switch q.MediaType {
	case engine.MediaMusic:
		req.BaseScore += musicBaseBonus
	case engine.MediaVideo:
		req.BaseScore += videoBaseBonus
	}

	if vocab.Match(q.Phrase, VocabYouTube) {
		req.BaseScore += explicitBaseBonus
		req.Phrase = vocab.Remove(q.Phrase, VocabYouTube)
		req.Explicit = true
	}

	switch {
	case q.MediaType == engine.MediaAudio || !q.GUIConnected:
		req.Playback = []engine.PlaybackType{engine.PlaybackAudio}
	case q.MediaType != engine.MediaVideo:
		req.Playback = []engine.PlaybackType{engine.PlaybackVideo, engine.PlaybackAudio}
	default:
		req.Playback = []engine.PlaybackType{engine.PlaybackVideo}
	}
	return req
}
