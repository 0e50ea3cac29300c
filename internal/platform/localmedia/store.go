// Package localmedia stores per-card media clips (audio recordings, images)
// as files on local disk. Cards hold only the opaque reference returned by
// Save; the bytes never enter the snapshot.
package localmedia

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Kind selects which media slot of a card a clip belongs to.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

var (
	// ErrNotFound indicates no clip exists for the given reference.
	ErrNotFound = errors.New("media clip not found")
	// ErrInvalidRef indicates a reference that does not name a clip in the
	// media directory. References are bare filenames; anything with path
	// separators is rejected.
	ErrInvalidRef = errors.New("invalid media reference")
	// ErrInvalidKind indicates a media kind other than audio or image.
	ErrInvalidKind = errors.New("invalid media kind")
)

// Store keeps one clip per card and kind. Saving again replaces the previous
// clip under the same reference.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a media store rooted at dir, creating the directory if needed.
// If logger is nil, a default logger will be used.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("media directory cannot be empty")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media directory %s: %w", dir, err)
	}

	return &Store{
		dir:    dir,
		logger: logger.With(slog.String("component", "localmedia")),
	}, nil
}

// Save writes a clip for the card and returns its opaque reference. Writes go
// through a temp file followed by a rename, matching the snapshot store.
func (s *Store) Save(cardID uuid.UUID, kind Kind, r io.Reader) (string, error) {
	if cardID == uuid.Nil {
		return "", errors.New("card ID cannot be nil")
	}
	if kind != KindAudio && kind != KindImage {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	ref := fmt.Sprintf("%s.%s", cardID, kind)

	tmp, err := os.CreateTemp(s.dir, ".clip-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing clip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, ref)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replacing clip: %w", err)
	}

	s.logger.Debug("media clip saved",
		slog.String("ref", ref),
		slog.Int64("bytes", written))
	return ref, nil
}

// Open returns the clip bytes for reading. The caller closes the reader.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	path, err := s.refPath(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, fmt.Errorf("opening clip %s: %w", ref, err)
	}
	return f, nil
}

// Delete removes the clip. Deleting a reference that no longer exists returns
// ErrNotFound so callers can distinguish a stale card field.
func (s *Store) Delete(ref string) error {
	path, err := s.refPath(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return fmt.Errorf("deleting clip %s: %w", ref, err)
	}

	s.logger.Debug("media clip deleted", slog.String("ref", ref))
	return nil
}

// Exists reports whether a clip is present for the reference. Card responses
// use this for the has_audio and has_image flags.
func (s *Store) Exists(ref string) bool {
	path, err := s.refPath(ref)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// refPath validates a reference and resolves it inside the media directory.
func (s *Store) refPath(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return filepath.Join(s.dir, ref), nil
}
