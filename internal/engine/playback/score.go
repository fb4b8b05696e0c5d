package playback

import (
	"math"
	"strings"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

// Score constants shared with every engine feeding the same arbiter.
// Changing any of them breaks cross-engine comparability.
const (
	MaxConfidence       = 100
	rankPenalty         = 5  // per provider position
	genericPenalty      = 10 // leaves headroom for category-specific engines
	audioCeilingPenalty = 20
	otherCeilingPenalty = 10
	musicCeilingPenalty = 5
	fallbackPenalty     = 25
)

// Scorer computes the confidence of one raw result for a normalized request.
type Scorer struct {
	Similarity   Similarity
	Classifier   Classifier
	FallbackMode bool
}

// Score returns the confidence for the result at provider position idx.
// The value never exceeds MaxConfidence and has no floor.
func (s Scorer) Score(req Request, r engine.RawResult, idx int) int {
	score := req.BaseScore - float64(idx*rankPenalty)

	score += 100 * s.Similarity(strings.ToLower(req.Phrase), strings.ToLower(r.Title))

	if req.MediaType == engine.MediaGeneric {
		score -= genericPenalty
	}

	if score >= MaxConfidence {
		switch req.MediaType {
		case engine.MediaAudio:
			score -= audioCeilingPenalty
		case engine.MediaVideo:
		case engine.MediaMusic:
			if !s.Classifier.IsMusic(r) {
				score -= musicCeilingPenalty
			}
		default:
			score -= otherCeilingPenalty
		}
	}

	// Fallback mode lets exact matches from other engines win by default.
	if s.FallbackMode && !req.Explicit {
		score -= fallbackPenalty
	}

	return int(math.Round(math.Min(MaxConfidence, score)))
}
