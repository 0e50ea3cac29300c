package card

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/store"
)

// CreateDeck creates a new top-level deck with the given name, trimmed.
// Returns a validation error if the name trims to empty.
func (s *Store) CreateDeck(ctx context.Context, name string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(name)
	if err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	s.decks = append(s.decks, *deck)
	s.persist(ctx)

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("name", deck.Name))
	return deck, nil
}

// CreateSubDeck creates a deck nested under parentID. The parent must exist
// and must itself be top-level: the hierarchy is one level deep.
// Returns store.ErrDeckNotFound or domain.ErrDeckTooDeep accordingly.
func (s *Store) CreateSubDeck(ctx context.Context, name string, parentID uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	idx := s.deckIndex(parentID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrDeckNotFound, parentID)
	}
	if s.decks[idx].IsSubDeck() {
		return nil, domain.ErrDeckTooDeep
	}

	deck, err := domain.NewSubDeck(name, parentID)
	if err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("parent_id", parentID.String()))
		return nil, err
	}

	s.decks = append(s.decks, *deck)
	s.persist(ctx)

	log.Info("sub-deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("parent_id", parentID.String()),
		slog.String("name", deck.Name))
	return deck, nil
}

// RenameDeck updates a deck's name. The default deck can be renamed like any
// other; only deletion and nesting are restricted.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *Store) RenameDeck(ctx context.Context, id uuid.UUID, name string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	idx := s.deckIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrDeckNotFound, id)
	}

	if err := s.decks[idx].Rename(name); err != nil {
		return nil, err
	}
	s.persist(ctx)

	deck := s.decks[idx]
	log.Info("deck renamed",
		slog.String("deck_id", id.String()),
		slog.String("name", deck.Name))
	return &deck, nil
}

// DeleteDeck removes a deck. The default deck is never deletable. Cards in
// the deleted deck keep their other memberships or fall back to the default
// deck; sub-decks of a deleted parent surface as top-level decks.
// Returns store.ErrDefaultDeck or store.ErrDeckNotFound accordingly.
func (s *Store) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id == domain.DefaultDeckID {
		log.Warn("refusing to delete the default deck")
		return store.ErrDefaultDeck
	}

	idx := s.deckIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrDeckNotFound, id)
	}

	for i := range s.cards {
		if s.cards[i].InDeck(id) {
			s.cards[i].RemoveDeck(id, domain.DefaultDeckID)
		}
	}

	for i := range s.decks {
		if s.decks[i].ParentID != nil && *s.decks[i].ParentID == id {
			s.decks[i].ParentID = nil
		}
	}

	s.decks = append(s.decks[:idx], s.decks[idx+1:]...)
	s.persist(ctx)

	log.Info("deck deleted", slog.String("deck_id", id.String()))
	return nil
}

// GetDeck returns the deck with the given ID.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *Store) GetDeck(id uuid.UUID) (*domain.Deck, error) {
	idx := s.deckIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrDeckNotFound, id)
	}
	deck := s.decks[idx]
	return &deck, nil
}

// TopLevelDecks returns all decks without a parent, in creation order.
func (s *Store) TopLevelDecks() []domain.Deck {
	out := make([]domain.Deck, 0, len(s.decks))
	for _, deck := range s.decks {
		if !deck.IsSubDeck() {
			out = append(out, deck)
		}
	}
	return out
}

// SubDecks returns the decks nested under parentID, in creation order.
func (s *Store) SubDecks(parentID uuid.UUID) []domain.Deck {
	out := make([]domain.Deck, 0, len(s.decks))
	for _, deck := range s.decks {
		if deck.ParentID != nil && *deck.ParentID == parentID {
			out = append(out, deck)
		}
	}
	return out
}

// SelectableDecks flattens the hierarchy for assignment pickers: each
// top-level deck followed immediately by its sub-decks.
func (s *Store) SelectableDecks() []domain.Deck {
	out := make([]domain.Deck, 0, len(s.decks))
	for _, deck := range s.decks {
		if deck.IsSubDeck() {
			continue
		}
		out = append(out, deck)
		for _, sub := range s.decks {
			if sub.ParentID != nil && *sub.ParentID == deck.ID {
				out = append(out, sub)
			}
		}
	}
	return out
}

// DeckCards returns every card whose membership includes the given deck.
// Returns store.ErrDeckNotFound if the deck does not exist.
func (s *Store) DeckCards(deckID uuid.UUID) ([]domain.Card, error) {
	if s.deckIndex(deckID) < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrDeckNotFound, deckID)
	}

	out := make([]domain.Card, 0)
	for _, card := range s.cards {
		if card.InDeck(deckID) {
			out = append(out, card)
		}
	}
	return out, nil
}
