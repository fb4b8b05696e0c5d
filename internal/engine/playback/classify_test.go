package playback

import (
	"testing"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

func raw(title, length string) engine.RawResult {
	return engine.RawResult{
		ID:     title,
		Title:  title,
		URL:    "https://www.youtube.com/watch?v=" + title,
		Length: length,
		Thumbnails: []engine.Thumbnail{
			{URL: "https://i.ytimg.com/vi/x/default.jpg?a=1", Width: 120},
			{URL: "https://i.ytimg.com/vi/x/hqdefault.jpg?sqp=abc&rs=def", Width: 480},
		},
	}
}

func TestClassifier(t *testing.T) {
	c := Classifier{Vocab: DefaultVocabulary()}

	tests := []struct {
		name  string
		r     engine.RawResult
		label Label
	}{
		{"music by title", raw("Discovery full album", "3:49"), LabelMusic},
		{"podcast below threshold", raw("epic podcast episode", "1500"), LabelNone},
		{"podcast above threshold", raw("epic podcast episode", "1900"), LabelPodcast},
		{"podcast exactly at threshold", raw("epic podcast episode", "1800"), LabelPodcast},
		{"podcast without duration", raw("epic podcast episode", ""), LabelNone},
		{"documentary below threshold", raw("ocean documentary", "1199"), LabelNone},
		{"documentary at threshold", raw("ocean documentary", "1200"), LabelDocumentary},
		{"long video without keyword", raw("city walk 4k", "7200"), LabelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Label(tt.r); got != tt.label {
				t.Errorf("Label(%q, %q) = %q, want %q", tt.r.Title, tt.r.Length, got, tt.label)
			}
		})
	}
}

func TestClassifierUsesDurationMode(t *testing.T) {
	// "30:00" is 30*60+30 = 1830s faithful, 1800s positional: podcast either way.
	r := raw("true crime podcast", "30:00")
	for _, mode := range []DurationMode{DurationFaithful, DurationPositional} {
		c := Classifier{Vocab: DefaultVocabulary(), Durations: mode}
		if !c.IsPodcast(r) {
			t.Errorf("%s: expected podcast for %q", mode, r.Length)
		}
	}

	// "1:05:00" faithful is 1*3600+60+1 = 3661s; positional 3900s.
	long := raw("true crime podcast", "1:05:00")
	faithful := Classifier{Vocab: DefaultVocabulary(), Durations: DurationFaithful}
	if !faithful.IsPodcast(long) {
		t.Error("faithful: expected podcast for 1:05:00")
	}
}

func TestClassifierFilter(t *testing.T) {
	c := Classifier{Vocab: DefaultVocabulary()}
	results := []engine.RawResult{
		raw("lofi song", "3:00"),
		raw("cooking show", "3:00"),
		raw("rock album", "40:00"),
		raw("epic podcast episode", "1500"),
		raw("epic podcast episode 2", "1900"),
	}

	music := c.Filter(results, engine.MediaMusic)
	if len(music) != 2 || music[0].Title != "lofi song" || music[1].Title != "rock album" {
		t.Errorf("music filter = %+v", music)
	}

	podcasts := c.Filter(results, engine.MediaPodcast)
	if len(podcasts) != 1 || podcasts[0].Title != "epic podcast episode 2" {
		t.Errorf("podcast filter = %+v", podcasts)
	}

	if docs := c.Filter(results, engine.MediaDocumentary); len(docs) != 0 {
		t.Errorf("documentary filter = %+v", docs)
	}

	for _, mt := range []engine.MediaType{engine.MediaGeneric, engine.MediaVideo, engine.MediaAudio} {
		if got := c.Filter(results, mt); len(got) != len(results) {
			t.Errorf("%s filter dropped results: %d", mt, len(got))
		}
	}
}
