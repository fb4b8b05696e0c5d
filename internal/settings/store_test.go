package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPlaybackDefaultsWhenEmpty(t *testing.T) {
	s := openTemp(t)
	got, err := s.Playback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultPlaybackSettings(), got)
}

func TestSeedDefaultsKeepsExisting(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SetPlayback(ctx, KeyVideoOnly, false))
	require.NoError(t, s.SeedDefaults(ctx, engine.PlaybackSettings{FallbackMode: true, VideoOnly: true}))

	got, err := s.Playback(ctx)
	require.NoError(t, err)
	assert.True(t, got.FallbackMode)
	assert.False(t, got.AudioOnly)
	assert.False(t, got.VideoOnly, "seeding must not overwrite a stored value")

	v, ok, err := s.Get(ctx, KeyAudioOnly)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", v)
}

func TestSetPlaybackUnknownKey(t *testing.T) {
	s := openTemp(t)
	err := s.SetPlayback(context.Background(), "autoplay", true)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestPlaybackBadValueFallsBack(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, KeyVideoOnly, "maybe"))
	require.NoError(t, s.Set(ctx, KeyAudioOnly, "1"))

	got, err := s.Playback(ctx)
	require.NoError(t, err)
	assert.True(t, got.VideoOnly)
	assert.True(t, got.AudioOnly)
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetPlayback(ctx, KeyFallbackMode, true))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Playback(ctx)
	require.NoError(t, err)
	assert.True(t, got.FallbackMode)
}

func TestOpenMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Set(context.Background(), "k", "v"))
	v, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
