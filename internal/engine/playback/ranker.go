// Package playback ranks YouTube search hits into scored, playable
// candidates for a media-selection arbiter.
//
// The pipeline runs in a fixed order: normalize the request, fetch raw
// results (cached per phrase), filter by category, score, and materialize
// video/audio candidates. Scores use a 0–100 scale shared with other
// engines, so the penalty constants in score.go are part of that contract.
package playback

import (
	"context"
	"log/slog"
	"slices"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

// SupportedMedia lists the media types this engine answers.
var SupportedMedia = []engine.MediaType{
	engine.MediaGeneric,
	engine.MediaMusic,
	engine.MediaPodcast,
	engine.MediaDocumentary,
	engine.MediaVideo,
	engine.MediaAudio,
}

// Options configures a Ranker. Settings are fixed for the Ranker's lifetime.
type Options struct {
	Settings   engine.PlaybackSettings
	SkillID    string
	SkillIcon  string
	Durations  DurationMode
	Similarity Similarity // nil = TokenSetRatio
}

// Ranker runs the full search pipeline. It is safe for concurrent use when
// its cache is.
type Ranker struct {
	fetcher      *Fetcher
	vocab        Matcher
	classifier   Classifier
	scorer       Scorer
	materializer Materializer
}

// NewRanker wires the pipeline stages around a provider, cache and vocabulary.
func NewRanker(searcher Searcher, cache ResultCache, vocab Matcher, opts Options) *Ranker {
	return NewRankerWithFetcher(NewFetcher(searcher, cache), vocab, opts)
}

// NewRankerWithFetcher builds a Ranker sharing an existing Fetcher, so that
// Rankers rebuilt on settings changes keep one singleflight group.
func NewRankerWithFetcher(fetcher *Fetcher, vocab Matcher, opts Options) *Ranker {
	sim := opts.Similarity
	if sim == nil {
		sim = TokenSetRatio
	}
	classifier := Classifier{Vocab: vocab, Durations: opts.Durations}
	return &Ranker{
		fetcher:    fetcher,
		vocab:      vocab,
		classifier: classifier,
		scorer: Scorer{
			Similarity:   sim,
			Classifier:   classifier,
			FallbackMode: opts.Settings.FallbackMode,
		},
		materializer: Materializer{
			AudioOnly: opts.Settings.AudioOnly,
			VideoOnly: opts.Settings.VideoOnly,
			SkillID:   opts.SkillID,
			SkillIcon: opts.SkillIcon,
			Durations: opts.Durations,
		},
	}
}

// Supports reports whether mt is answered by this engine.
func Supports(mt engine.MediaType) bool {
	return slices.Contains(SupportedMedia, mt)
}

// Result is the outcome of one search, with the normalized request attached.
type Result struct {
	Request    Request
	Candidates []engine.Candidate
	Degraded   bool // provider failed; Candidates is empty
}

// Search runs the pipeline for q. Candidates follow provider order, not score.
func (rk *Ranker) Search(ctx context.Context, q engine.Query) []engine.Candidate {
	return rk.Run(ctx, q).Candidates
}

// Run is Search with the intermediate request exposed.
func (rk *Ranker) Run(ctx context.Context, q engine.Query) Result {
	engine.IncrSearchRequests()

	req := Normalize(q, rk.vocab)
	res := Result{Request: req, Candidates: []engine.Candidate{}}
	if !Supports(q.MediaType) {
		slog.Debug("playback: unsupported media type", slog.String("media_type", string(q.MediaType)))
		return res
	}

	raw, ok := rk.fetcher.Fetch(ctx, req.Phrase)
	if !ok {
		res.Degraded = true
		return res
	}

	filtered := rk.classifier.Filter(raw, q.MediaType)
	res.Candidates = rk.materializer.Materialize(filtered, func(r engine.RawResult, idx int) int {
		return rk.scorer.Score(req, r, idx)
	})
	engine.AddCandidatesEmitted(len(res.Candidates))

	slog.Info("playback: search ranked",
		slog.String("phrase", engine.TruncateRunes(req.Phrase, 80, "...")),
		slog.String("media_type", string(q.MediaType)),
		slog.Bool("explicit", req.Explicit),
		slog.Int("raw", len(raw)),
		slog.Int("kept", len(filtered)),
		slog.Int("candidates", len(res.Candidates)))
	return res
}
