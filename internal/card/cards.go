package card

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/domain/duplicate"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/store"
)

// DuplicateDetected signals that AddCard found an existing card with the
// same word in one of the target decks. It is a resolution prompt, not a
// failure; nothing was inserted.
type DuplicateDetected struct {
	Existing   domain.Card
	Comparison duplicate.Comparison
}

// AddCard inserts a new card built from the draft. An empty deck list falls
// back to the default deck. When another card in any of the target decks
// already carries the same word (case-insensitively), nothing is inserted
// and a DuplicateDetected is returned for the caller to resolve.
// Returns a validation error for an invalid draft and store.ErrDeckNotFound
// for an unknown target deck.
func (s *Store) AddCard(ctx context.Context, draft domain.CardDraft) (*domain.Card, *DuplicateDetected, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deckIDs, err := s.normalizeDeckIDs(draft.DeckIDs)
	if err != nil {
		return nil, nil, err
	}
	draft.DeckIDs = deckIDs

	if existing := s.findDuplicate(draft.Word, deckIDs); existing != nil {
		cmp := duplicate.Compare(*existing, candidateFromDraft(draft))
		log.Info("duplicate card detected",
			slog.String("word", strings.TrimSpace(draft.Word)),
			slog.String("existing_id", existing.ID.String()),
			slog.Int("differences", len(cmp.FieldDifferences)))
		return nil, &DuplicateDetected{Existing: *existing, Comparison: cmp}, nil
	}

	card, err := domain.NewCard(draft)
	if err != nil {
		log.Warn("card validation failed during add",
			slog.String("error", err.Error()))
		return nil, nil, err
	}

	s.cards = append(s.cards, *card)
	s.persist(ctx)

	log.Info("card added",
		slog.String("card_id", card.ID.String()),
		slog.String("word", card.Word),
		slog.Int("decks", len(card.DeckIDs)))
	return card, nil, nil
}

// GetCard returns the card with the given ID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *Store) GetCard(id uuid.UUID) (*domain.Card, error) {
	idx := s.cardIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrCardNotFound, id)
	}
	card := s.cards[idx]
	return &card, nil
}

// UpdateCard replaces a card's fields from the draft. Identity and mastery
// counters are preserved; an empty deck list falls back to the default deck.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *Store) UpdateCard(ctx context.Context, id uuid.UUID, draft domain.CardDraft) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	idx := s.cardIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrCardNotFound, id)
	}

	deckIDs, err := s.normalizeDeckIDs(draft.DeckIDs)
	if err != nil {
		return nil, err
	}
	draft.DeckIDs = deckIDs

	if err := s.cards[idx].Update(draft); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}
	s.persist(ctx)

	card := s.cards[idx]
	log.Info("card updated",
		slog.String("card_id", id.String()),
		slog.String("word", card.Word))
	return &card, nil
}

// ReplaceCard swaps in a card that already carries its identity, typically
// the result of a duplicate resolution. The card must validate and its ID
// must exist in the collection.
// Returns store.ErrCardNotFound if the identity is unknown.
func (s *Store) ReplaceCard(ctx context.Context, updated domain.Card) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	idx := s.cardIndex(updated.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrCardNotFound, updated.ID)
	}

	s.cards[idx] = updated
	s.persist(ctx)

	log.Info("card replaced",
		slog.String("card_id", updated.ID.String()),
		slog.String("word", updated.Word))
	return &updated, nil
}

// DeleteCard removes a card from the collection.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *Store) DeleteCard(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	idx := s.cardIndex(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, id)
	}

	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	s.persist(ctx)

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// AllCards returns every card in the collection, in creation order.
func (s *Store) AllCards() []domain.Card {
	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// CardsByIDs returns the cards with the given IDs, in the given order.
// Returns store.ErrCardNotFound naming the first unknown ID.
func (s *Store) CardsByIDs(ids []uuid.UUID) ([]domain.Card, error) {
	out := make([]domain.Card, 0, len(ids))
	for _, id := range ids {
		idx := s.cardIndex(id)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", store.ErrCardNotFound, id)
		}
		out = append(out, s.cards[idx])
	}
	return out, nil
}

// CardsForDecks returns the union of the given decks' cards, deduplicated,
// in creation order.
// Returns store.ErrDeckNotFound naming the first unknown deck.
func (s *Store) CardsForDecks(deckIDs []uuid.UUID) ([]domain.Card, error) {
	want := make(map[uuid.UUID]bool, len(deckIDs))
	for _, id := range deckIDs {
		if s.deckIndex(id) < 0 {
			return nil, fmt.Errorf("%w: %s", store.ErrDeckNotFound, id)
		}
		want[id] = true
	}

	out := make([]domain.Card, 0)
	for _, card := range s.cards {
		for _, deckID := range card.DeckIDs {
			if want[deckID] {
				out = append(out, card)
				break
			}
		}
	}
	return out, nil
}

// RecordSuccess credits one correct completion to the card's mastery
// counter and counts the attempt.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *Store) RecordSuccess(ctx context.Context, cardID uuid.UUID) error {
	idx := s.cardIndex(cardID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	s.cards[idx].RecordSuccess()
	s.persist(ctx)
	return nil
}

// RecordAttempt counts one graded answer against the card without crediting
// mastery.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *Store) RecordAttempt(ctx context.Context, cardID uuid.UUID) error {
	idx := s.cardIndex(cardID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, cardID)
	}
	s.cards[idx].RecordAttempt()
	s.persist(ctx)
	return nil
}

// normalizeDeckIDs deduplicates the target decks, falls back to the default
// deck when none are given, and checks each target exists.
func (s *Store) normalizeDeckIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{domain.DefaultDeckID}, nil
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s.deckIndex(id) < 0 {
			return nil, fmt.Errorf("%w: %s", store.ErrDeckNotFound, id)
		}
		out = append(out, id)
	}
	return out, nil
}

// findDuplicate looks for a card with the same normalized word that shares
// at least one of the target decks.
func (s *Store) findDuplicate(word string, deckIDs []uuid.UUID) *domain.Card {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return nil
	}

	for i := range s.cards {
		if s.cards[i].NormalizedWord() != normalized {
			continue
		}
		for _, deckID := range deckIDs {
			if s.cards[i].InDeck(deckID) {
				card := s.cards[i]
				return &card
			}
		}
	}
	return nil
}

// candidateFromDraft lifts a draft's compared fields into the resolution
// policy's candidate shape.
func candidateFromDraft(draft domain.CardDraft) duplicate.CandidateFields {
	return duplicate.CandidateFields{
		Definition:     draft.Definition,
		Example:        draft.Example,
		Article:        draft.Article,
		Plural:         draft.Plural,
		PastTense:      draft.PastTense,
		FutureTense:    draft.FutureTense,
		PastParticiple: draft.PastParticiple,
	}
}
