// Package filestore persists the card collection snapshot as a single JSON
// document on local disk. It is the default SnapshotStore backend: a missing
// file means a first run and yields an empty snapshot.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flitskaart/flitskaart-api/internal/store"
)

// Verify interface compliance at compile time
var _ store.SnapshotStore = (*Store)(nil)

// Store writes snapshots to a fixed path. Writes go through a temp file in
// the same directory followed by a rename, so a crash mid-write never leaves
// a truncated snapshot behind.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a file-backed snapshot store at the given path, creating the
// parent directory if needed.
// If logger is nil, a default logger will be used.
func New(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("snapshot path cannot be empty")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory %s: %w", dir, err)
		}
	}

	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "filestore")),
	}, nil
}

// Path returns the location of the live snapshot file. The backup job copies
// from here.
func (s *Store) Path() string {
	return s.path
}

// Save implements store.SnapshotStore.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return store.NewStoreError("snapshot", "save", "encoding snapshot", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*.json")
	if err != nil {
		return store.NewStoreError("snapshot", "save", "creating temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return store.NewStoreError("snapshot", "save", "writing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return store.NewStoreError("snapshot", "save", "closing temp file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return store.NewStoreError("snapshot", "save", "replacing snapshot file", err)
	}

	s.logger.Debug("snapshot saved",
		slog.String("path", s.path),
		slog.Int("bytes", len(data)),
		slog.Int("decks", len(snap.Decks)),
		slog.Int("cards", len(snap.Cards)))
	return nil
}

// Load implements store.SnapshotStore. A missing or empty file is a first
// run and returns an empty snapshot, not an error.
func (s *Store) Load(ctx context.Context) (store.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info("no snapshot file yet, starting empty",
				slog.String("path", s.path))
			return store.Snapshot{}, nil
		}
		return store.Snapshot{}, store.NewStoreError("snapshot", "load", "reading snapshot file", err)
	}

	if len(data) == 0 {
		s.logger.Warn("snapshot file is empty, starting empty",
			slog.String("path", s.path))
		return store.Snapshot{}, nil
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, store.NewStoreError("snapshot", "load", "decoding snapshot file", err)
	}

	s.logger.Info("snapshot loaded",
		slog.String("path", s.path),
		slog.Int("decks", len(snap.Decks)),
		slog.Int("cards", len(snap.Cards)))
	return snap, nil
}
