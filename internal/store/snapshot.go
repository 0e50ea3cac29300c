package store

import (
	"context"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

// Snapshot is the full persisted layout of the card collection: every deck
// and every card. An empty snapshot means "no data yet" and is what stores
// return on first run. No versioning or migration scheme applies beyond
// that.
type Snapshot struct {
	Decks []domain.Deck `json:"decks"`
	Cards []domain.Card `json:"cards"`
}

// Empty reports whether the snapshot carries no data.
func (s Snapshot) Empty() bool {
	return len(s.Decks) == 0 && len(s.Cards) == 0
}

// SnapshotStore defines the interface for snapshot persistence.
type SnapshotStore interface {
	// Save durably replaces the stored snapshot with snap.
	Save(ctx context.Context, snap Snapshot) error

	// Load returns the last saved snapshot. A store with nothing saved yet
	// returns an empty snapshot, not an error.
	Load(ctx context.Context) (Snapshot, error)
}
