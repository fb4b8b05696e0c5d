package playback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyMatch(t *testing.T) {
	v := DefaultVocabulary()

	tests := []struct {
		text     string
		category string
		want     bool
	}{
		{"Daft Punk - Discovery (Full Album)", VocabMusic, true},
		{"full   album", VocabMusic, true},
		{"Musical theatre highlights", VocabMusic, false},
		{"play something on YouTube", VocabYouTube, true},
		{"my favourite youtuber", VocabYouTube, false},
		{"Joe Rogan Podcast #1", VocabPodcast, true},
		{"Planet Earth documentary", VocabDocumentary, true},
		{"Planet Earth", VocabDocumentary, false},
		{"anything", "unknown", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Match(tt.text, tt.category))
		})
	}
}

func TestVocabularyRemove(t *testing.T) {
	v := DefaultVocabulary()

	assert.Equal(t, "despacito on", v.Remove("despacito on youtube", VocabYouTube))
	assert.Equal(t, "play despacito", v.Remove("play YouTube despacito", VocabYouTube))
	assert.Equal(t, "lofi", v.Remove("you tube lofi", VocabYouTube))
	assert.Equal(t, "my youtuber", v.Remove("my youtuber", VocabYouTube))
	// "full album" goes before "album" so no stray word is left behind.
	assert.Equal(t, "discovery", v.Remove("discovery full album", VocabMusic))
}

func TestLoadVocabulary(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		v, err := LoadVocabulary("")
		require.NoError(t, err)
		assert.Equal(t, []string{VocabDocumentary, VocabMusic, VocabPodcast, VocabYouTube}, v.Categories())
	})

	t.Run("file overrides a category", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("music:\n  - canción\n  - música\n"), 0o600))

		v, err := LoadVocabulary(path)
		require.NoError(t, err)
		assert.True(t, v.Match("Mejor Música 2020", VocabMusic))
		assert.False(t, v.Match("full album", VocabMusic), "music terms replaced")
		assert.True(t, v.Match("on youtube", VocabYouTube), "other categories keep defaults")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("music: [unclosed"), 0o600))
		_, err := LoadVocabulary(path)
		assert.Error(t, err)
	})
}
