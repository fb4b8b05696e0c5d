package playback

import "github.com/anatolykoptev/go_ytplay/internal/engine"

// Label is the content class inferred for a raw result.
type Label string

const (
	LabelMusic       Label = "music"
	LabelPodcast     Label = "podcast"
	LabelDocumentary Label = "documentary"
	LabelNone        Label = "none"
)

// Minimum durations that exclude trailers and shorts from long-form classes.
const (
	minPodcastSeconds     = 30 * 60
	minDocumentarySeconds = 20 * 60
)

// Classifier labels raw results from title keywords and duration.
// It holds no per-result state; every call recomputes from the result.
type Classifier struct {
	Vocab     Matcher
	Durations DurationMode
}

func (c Classifier) seconds(r engine.RawResult) int64 {
	return ParseDuration(r.Length, c.Durations) / 1000
}

// IsMusic reports whether the title carries a music term.
func (c Classifier) IsMusic(r engine.RawResult) bool {
	return c.Vocab.Match(r.Title, VocabMusic)
}

// IsPodcast requires at least 30 minutes and a podcast term.
func (c Classifier) IsPodcast(r engine.RawResult) bool {
	if c.seconds(r) < minPodcastSeconds {
		return false
	}
	return c.Vocab.Match(r.Title, VocabPodcast)
}

// IsDocumentary requires at least 20 minutes and a documentary term.
func (c Classifier) IsDocumentary(r engine.RawResult) bool {
	if c.seconds(r) < minDocumentarySeconds {
		return false
	}
	return c.Vocab.Match(r.Title, VocabDocumentary)
}

// Label returns the first matching class in the order music, podcast, documentary.
func (c Classifier) Label(r engine.RawResult) Label {
	switch {
	case c.IsMusic(r):
		return LabelMusic
	case c.IsPodcast(r):
		return LabelPodcast
	case c.IsDocumentary(r):
		return LabelDocumentary
	}
	return LabelNone
}

// Filter keeps only results of the requested narrow category. Media types
// other than music, podcast and documentary pass through unchanged.
// Provider order is preserved.
func (c Classifier) Filter(results []engine.RawResult, mt engine.MediaType) []engine.RawResult {
	var keep func(engine.RawResult) bool
	switch mt {
	case engine.MediaMusic:
		keep = c.IsMusic
	case engine.MediaPodcast:
		keep = c.IsPodcast
	case engine.MediaDocumentary:
		keep = c.IsDocumentary
	default:
		return results
	}

	out := make([]engine.RawResult, 0, len(results))
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
