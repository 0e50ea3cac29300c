package card

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/store"
)

// Store owns the card collection. It keeps everything in memory and writes a
// full snapshot through the SnapshotStore after each mutation.
type Store struct {
	snapshots store.SnapshotStore
	logger    *slog.Logger
	decks     []domain.Deck
	cards     []domain.Card
}

// NewStore loads the last saved snapshot and ensures the default deck
// exists. A snapshot store with nothing saved yet yields a collection with
// just the default deck.
// If logger is nil, a default logger will be used.
func NewStore(ctx context.Context, snapshots store.SnapshotStore, logger *slog.Logger) (*Store, error) {
	// Validate inputs
	if snapshots == nil {
		panic("snapshots cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		snapshots: snapshots,
		logger:    logger.With(slog.String("component", "card_store")),
	}

	snap, err := snapshots.Load(ctx)
	if err != nil {
		return nil, store.NewStoreError("snapshot", "load", "loading card collection", err)
	}
	s.decks = snap.Decks
	s.cards = snap.Cards

	if s.ensureDefaultDeck() {
		s.persist(ctx)
	}

	s.logger.Info("card store loaded",
		slog.Int("decks", len(s.decks)),
		slog.Int("cards", len(s.cards)))
	return s, nil
}

// ensureDefaultDeck prepends the built-in deck when the snapshot lacks it.
// Reports whether the collection was changed.
func (s *Store) ensureDefaultDeck() bool {
	for _, deck := range s.decks {
		if deck.IsDefault() {
			return false
		}
	}
	s.decks = append([]domain.Deck{*domain.DefaultDeck()}, s.decks...)
	return true
}

// persist writes the full snapshot after a mutation. Durability failures are
// logged and swallowed: the in-memory mutation stands and the next
// successful save closes the gap.
func (s *Store) persist(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snap := store.Snapshot{
		Decks: append([]domain.Deck(nil), s.decks...),
		Cards: append([]domain.Card(nil), s.cards...),
	}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		log.Error("failed to persist snapshot",
			slog.String("error", err.Error()),
			slog.Int("decks", len(snap.Decks)),
			slog.Int("cards", len(snap.Cards)))
	}
}

// deckIndex returns the position of the deck with the given ID, or -1.
func (s *Store) deckIndex(id uuid.UUID) int {
	for i := range s.decks {
		if s.decks[i].ID == id {
			return i
		}
	}
	return -1
}

// cardIndex returns the position of the card with the given ID, or -1.
func (s *Store) cardIndex(id uuid.UUID) int {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return i
		}
	}
	return -1
}
