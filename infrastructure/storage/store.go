package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"tiksave-bot/domain/platform"
)

// Store manages the temp directory every downloaded asset lives in.
// File names are {platform}_{id}.{ext} for videos and derived audio,
// {platform}_{id}_{index}.jpg for gallery images, so one request's
// files never collide with another's.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates the temp directory if needed and returns a store
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("temp directory is required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the temp directory path
func (s *Store) Dir() string {
	return s.dir
}

// NewRequestID returns an unpredictable id namespacing the temp files
// of one resolve request: 8 bytes from a CSPRNG, hex encoded
func (s *Store) NewRequestID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate request id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// VideoPath returns the temp path for a resolved video post
func (s *Store) VideoPath(p platform.Platform, id string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.mp4", p, id))
}

// ImagePath returns the temp path for the index-th image of a gallery
// post, zero-based, in the extraction API's response order
func (s *Store) ImagePath(p platform.Platform, id string, index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%d.jpg", p, id, index))
}

// Remove deletes temp files best-effort: failures are logged, never
// returned, so cleanup cannot mask the pipeline outcome. Empty paths
// and already-gone files are skipped silently.
func (s *Store) Remove(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to remove temp file")
		}
	}
}

// Sweep removes temp files older than maxAge and reports how many went.
// It catches assets left behind by runs that died mid-pipeline.
func (s *Store) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read temp directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("failed to sweep temp file")
			continue
		}
		removed++
	}

	return removed, nil
}
