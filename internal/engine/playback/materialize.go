package playback

import "github.com/anatolykoptev/go_ytplay/internal/engine"

// AudioOnlySuffix marks audio renditions of a video result.
const AudioOnlySuffix = " (audio only)"

// Materializer turns scored raw results into arbiter candidates.
type Materializer struct {
	AudioOnly bool
	VideoOnly bool
	SkillID   string
	SkillIcon string
	Durations DurationMode
}

// Materialize emits candidates in provider order. In audio-only mode each
// result becomes one audio candidate. Otherwise each result becomes a video
// candidate, and unless video-only is set, a second block of audio
// duplicates follows, each scored one below its video counterpart.
func (m Materializer) Materialize(results []engine.RawResult, score func(r engine.RawResult, idx int) int) []engine.Candidate {
	if m.AudioOnly {
		out := make([]engine.Candidate, 0, len(results))
		for idx, r := range results {
			out = append(out, m.candidate(r, score(r, idx), engine.PlaybackAudio))
		}
		return out
	}

	scores := make([]int, len(results))
	size := len(results)
	if !m.VideoOnly {
		size *= 2
	}
	out := make([]engine.Candidate, 0, size)
	for idx, r := range results {
		scores[idx] = score(r, idx)
		out = append(out, m.candidate(r, scores[idx], engine.PlaybackVideo))
	}
	if !m.VideoOnly {
		for idx, r := range results {
			out = append(out, m.candidate(r, scores[idx]-1, engine.PlaybackAudio))
		}
	}
	return out
}

func (m Materializer) candidate(r engine.RawResult, confidence int, pb engine.PlaybackType) engine.Candidate {
	image := thumbnailURL(r)
	title := r.Title
	if pb == engine.PlaybackAudio {
		title += AudioOnlySuffix
	}
	return engine.Candidate{
		MatchConfidence: confidence,
		MediaType:       engine.MediaVideo,
		Length:          ParseDuration(r.Length, m.Durations),
		URI:             r.URL,
		Playback:        pb,
		Image:           image,
		BgImage:         image,
		SkillIcon:       m.SkillIcon,
		SkillLogo:       m.SkillIcon,
		Title:           title,
		SkillID:         m.SkillID,
	}
}

// thumbnailURL is the last listed thumbnail without its query string.
func thumbnailURL(r engine.RawResult) string {
	if len(r.Thumbnails) == 0 {
		return ""
	}
	return engine.StripQuery(r.Thumbnails[len(r.Thumbnails)-1].URL)
}
