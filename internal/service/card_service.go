package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/card"
	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/domain/duplicate"
	"github.com/flitskaart/flitskaart-api/internal/platform/localmedia"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
)

// CardService serializes access to the card store and orchestrates the
// operations that span more than one step: duplicate resolution and media
// attachment. The store itself is not goroutine-safe; every entry point here
// takes the mutex first.
type CardService struct {
	mu     sync.Mutex
	store  *card.Store
	media  *localmedia.Store
	logger *slog.Logger
}

// NewCardService creates a CardService over the given store and media store.
func NewCardService(
	store *card.Store,
	media *localmedia.Store,
	logger *slog.Logger,
) *CardService {
	// Validate inputs
	if store == nil {
		panic("store cannot be nil")
	}
	if media == nil {
		panic("media cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &CardService{
		store:  store,
		media:  media,
		logger: logger.With(slog.String("component", "card_service")),
	}
}

// CreateDeck makes a new top-level deck.
func (s *CardService) CreateDeck(ctx context.Context, name string) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CreateDeck(ctx, name)
}

// CreateSubDeck makes a new deck nested under an existing top-level deck.
func (s *CardService) CreateSubDeck(
	ctx context.Context,
	name string,
	parentID uuid.UUID,
) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CreateSubDeck(ctx, name, parentID)
}

// RenameDeck changes a deck's name.
func (s *CardService) RenameDeck(
	ctx context.Context,
	id uuid.UUID,
	name string,
) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RenameDeck(ctx, id, name)
}

// DeleteDeck removes a deck. Its cards keep their other decks or fall back to
// the default deck; its sub-decks become top-level.
func (s *CardService) DeleteDeck(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteDeck(ctx, id)
}

// GetDeck retrieves a deck by ID.
func (s *CardService) GetDeck(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetDeck(id)
}

// TopLevelDecks lists the decks without a parent, default deck first.
func (s *CardService) TopLevelDecks(ctx context.Context) []domain.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TopLevelDecks()
}

// SubDecks lists the children of a deck.
func (s *CardService) SubDecks(ctx context.Context, parentID uuid.UUID) []domain.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SubDecks(parentID)
}

// SelectableDecks flattens the hierarchy for selection lists: each top-level
// deck followed by its sub-decks.
func (s *CardService) SelectableDecks(ctx context.Context) []domain.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SelectableDecks()
}

// DeckCards lists the cards that belong to a deck.
func (s *CardService) DeckCards(ctx context.Context, deckID uuid.UUID) ([]domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeckCards(deckID)
}

// AddCard inserts a new card unless an equal word already exists in one of
// the target decks, in which case the duplicate report is returned and
// nothing is stored. The caller resolves the duplicate via ResolveDuplicate.
func (s *CardService) AddCard(
	ctx context.Context,
	draft domain.CardDraft,
) (*domain.Card, *card.DuplicateDetected, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.AddCard(ctx, draft)
}

// GetCard retrieves a card by ID.
func (s *CardService) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.GetCard(id)
}

// UpdateCard replaces a card's editable fields.
func (s *CardService) UpdateCard(
	ctx context.Context,
	id uuid.UUID,
	draft domain.CardDraft,
) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.UpdateCard(ctx, id, draft)
}

// DeleteCard removes a card. Attached media clips are deleted with it; a
// missing clip is not an error.
func (s *CardService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.store.GetCard(id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCard(ctx, id); err != nil {
		return err
	}

	for _, ref := range []string{existing.AudioRef, existing.ImageRef} {
		if ref == "" {
			continue
		}
		if err := s.media.Delete(ref); err != nil && !errors.Is(err, localmedia.ErrNotFound) {
			log.Warn("failed to delete media clip for removed card",
				slog.String("card_id", id.String()),
				slog.String("ref", ref),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// AllCards lists every card in the collection.
func (s *CardService) AllCards(ctx context.Context) []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.AllCards()
}

// CardsByIDs resolves cards in the given order.
func (s *CardService) CardsByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CardsByIDs(ids)
}

// CardsForDecks collects the distinct cards belonging to any of the decks.
func (s *CardService) CardsForDecks(
	ctx context.Context,
	deckIDs []uuid.UUID,
) ([]domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.CardsForDecks(deckIDs)
}

// RecordSuccess credits one correct completion to the card's mastery counter.
func (s *CardService) RecordSuccess(ctx context.Context, cardID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RecordSuccess(ctx, cardID)
}

// RecordAttempt counts one graded answer without crediting mastery.
func (s *CardService) RecordAttempt(ctx context.Context, cardID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RecordAttempt(ctx, cardID)
}

// ResolveDuplicate applies the chosen action to a previously reported
// duplicate: keep the existing card, replace its compared fields, merge the
// candidate's extra fields into its blanks, or cancel. Cancel and keep leave
// the store untouched; cancel additionally surfaces duplicate.ErrCancelled so
// the caller knows the candidate was discarded.
func (s *CardService) ResolveDuplicate(
	ctx context.Context,
	existingID uuid.UUID,
	incoming duplicate.CandidateFields,
	action duplicate.Action,
) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.store.GetCard(existingID)
	if err != nil {
		return nil, err
	}

	resolved, err := duplicate.Resolve(*existing, incoming, action)
	if err != nil {
		return nil, err
	}

	// Keeping the existing card changes nothing worth persisting.
	if action == duplicate.ActionKeepExisting {
		log.Debug("duplicate resolved by keeping existing card",
			slog.String("card_id", existingID.String()))
		return existing, nil
	}

	updated, err := s.store.ReplaceCard(ctx, resolved)
	if err != nil {
		return nil, err
	}

	log.Info("duplicate resolved",
		slog.String("card_id", existingID.String()),
		slog.String("action", string(action)))
	return updated, nil
}

// AttachMedia stores a clip for the card and records its reference on the
// card. A previous clip of the same kind is replaced.
func (s *CardService) AttachMedia(
	ctx context.Context,
	cardID uuid.UUID,
	kind localmedia.Kind,
	r io.Reader,
) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}

	ref, err := s.media.Save(cardID, kind, r)
	if err != nil {
		log.Error("failed to save media clip",
			slog.String("card_id", cardID.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		return nil, NewServiceError("attach_media", "failed to save clip", err)
	}

	updated := *existing
	switch kind {
	case localmedia.KindAudio:
		updated.AudioRef = ref
	case localmedia.KindImage:
		updated.ImageRef = ref
	}

	result, err := s.store.ReplaceCard(ctx, updated)
	if err != nil {
		return nil, err
	}

	log.Info("media clip attached",
		slog.String("card_id", cardID.String()),
		slog.String("kind", string(kind)))
	return result, nil
}

// OpenMedia returns the clip bytes of the given kind for reading. The caller
// closes the reader.
func (s *CardService) OpenMedia(
	ctx context.Context,
	cardID uuid.UUID,
	kind localmedia.Kind,
) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}

	ref := mediaRef(existing, kind)
	if ref == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoMedia, kind)
	}

	rc, err := s.media.Open(ref)
	if err != nil {
		if errors.Is(err, localmedia.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoMedia, kind)
		}
		return nil, NewServiceError("open_media", "failed to open clip", err)
	}
	return rc, nil
}

// RemoveMedia deletes the card's clip of the given kind and clears its
// reference. A reference whose file already disappeared is still cleared.
func (s *CardService) RemoveMedia(
	ctx context.Context,
	cardID uuid.UUID,
	kind localmedia.Kind,
) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}

	ref := mediaRef(existing, kind)
	if ref == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoMedia, kind)
	}

	if err := s.media.Delete(ref); err != nil && !errors.Is(err, localmedia.ErrNotFound) {
		return nil, NewServiceError("remove_media", "failed to delete clip", err)
	}

	updated := *existing
	switch kind {
	case localmedia.KindAudio:
		updated.AudioRef = ""
	case localmedia.KindImage:
		updated.ImageRef = ""
	}

	result, err := s.store.ReplaceCard(ctx, updated)
	if err != nil {
		return nil, err
	}

	log.Info("media clip removed",
		slog.String("card_id", cardID.String()),
		slog.String("kind", string(kind)))
	return result, nil
}

// mediaRef picks the card's reference for the media kind.
func mediaRef(c *domain.Card, kind localmedia.Kind) string {
	switch kind {
	case localmedia.KindAudio:
		return c.AudioRef
	case localmedia.KindImage:
		return c.ImageRef
	default:
		return ""
	}
}
