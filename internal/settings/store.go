// Package settings persists playback preferences in a small SQLite
// key/value table.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

// Known setting keys.
const (
	KeyFallbackMode = "fallback_mode"
	KeyAudioOnly    = "audio_only"
	KeyVideoOnly    = "video_only"
)

// ErrUnknownKey is returned when writing a key the store does not manage.
var ErrUnknownKey = errors.New("settings: unknown key")

// Store is a SQLite-backed settings table. Safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the settings database at path. ":memory:" keeps
// everything in process.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("settings: mkdir %s: %w", filepath.Dir(path), err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("settings: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("settings: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key and whether it was present.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("settings: get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now())
	if err != nil {
		return fmt.Errorf("settings: set %s: %w", key, err)
	}
	return nil
}

// SeedDefaults writes the given playback settings for any key that is not
// stored yet. Existing values win.
func (s *Store) SeedDefaults(ctx context.Context, ps engine.PlaybackSettings) error {
	for key, v := range playbackValues(ps) {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			key, strconv.FormatBool(v), now())
		if err != nil {
			return fmt.Errorf("settings: seed %s: %w", key, err)
		}
	}
	return nil
}

// Playback reads the three playback flags. Missing or unparseable values
// fall back to engine.DefaultPlaybackSettings.
func (s *Store) Playback(ctx context.Context) (engine.PlaybackSettings, error) {
	def := playbackValues(engine.DefaultPlaybackSettings())
	vals := make(map[string]bool, len(def))
	for key, fallback := range def {
		raw, ok, err := s.Get(ctx, key)
		if err != nil {
			return engine.PlaybackSettings{}, err
		}
		vals[key] = fallback
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			slog.Warn("settings: bad boolean, using default",
				slog.String("key", key), slog.String("value", raw))
			continue
		}
		vals[key] = b
	}
	return engine.PlaybackSettings{
		FallbackMode: vals[KeyFallbackMode],
		AudioOnly:    vals[KeyAudioOnly],
		VideoOnly:    vals[KeyVideoOnly],
	}, nil
}

// SetPlayback updates one playback flag.
func (s *Store) SetPlayback(ctx context.Context, key string, v bool) error {
	switch key {
	case KeyFallbackMode, KeyAudioOnly, KeyVideoOnly:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return s.Set(ctx, key, strconv.FormatBool(v))
}

func playbackValues(ps engine.PlaybackSettings) map[string]bool {
	return map[string]bool{
		KeyFallbackMode: ps.FallbackMode,
		KeyAudioOnly:    ps.AudioOnly,
		KeyVideoOnly:    ps.VideoOnly,
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
