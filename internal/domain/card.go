package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardWordEmpty is returned when a card's word trims to empty.
	ErrCardWordEmpty = fmt.Errorf("%w: card word cannot be empty", ErrValidation)

	// ErrCardDefinitionEmpty is returned when a card's definition trims to empty.
	ErrCardDefinitionEmpty = fmt.Errorf("%w: card definition cannot be empty", ErrValidation)

	// ErrCardNoDeck is returned when a card has no deck membership. Cards
	// always belong to at least one deck; callers fall back to the default
	// deck before constructing a card with no assignment.
	ErrCardNoDeck = fmt.Errorf("%w: card must belong to at least one deck", ErrValidation)
)

// masteryStep is the percentage credit for one successful completion; five
// successes mark a card fully learned.
const masteryStep = 20

// Card represents a single study unit: a prompt word, its definition, and
// optional grammar metadata and media references. Mastery is tracked with a
// monotonically increasing success counter.
type Card struct {
	ID             uuid.UUID   `json:"id"`
	Word           string      `json:"word"`
	Definition     string      `json:"definition"`
	Example        string      `json:"example,omitempty"`
	Article        string      `json:"article,omitempty"`
	Plural         string      `json:"plural,omitempty"`
	PastTense      string      `json:"past_tense,omitempty"`
	FutureTense    string      `json:"future_tense,omitempty"`
	PastParticiple string      `json:"past_participle,omitempty"`
	ImageRef       string      `json:"image_ref,omitempty"`
	AudioRef       string      `json:"audio_ref,omitempty"`
	DeckIDs        []uuid.UUID `json:"deck_ids"`
	SuccessCount   int         `json:"success_count"`
	Attempts       int         `json:"attempts"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CardDraft carries caller-supplied field values for a new or updated card.
// All text fields are trimmed before they reach a Card.
type CardDraft struct {
	Word           string
	Definition     string
	Example        string
	Article        string
	Plural         string
	PastTense      string
	FutureTense    string
	PastParticiple string
	ImageRef       string
	AudioRef       string
	DeckIDs        []uuid.UUID
}

// trimmed returns a copy of the draft with all text fields trimmed.
func (d CardDraft) trimmed() CardDraft {
	d.Word = strings.TrimSpace(d.Word)
	d.Definition = strings.TrimSpace(d.Definition)
	d.Example = strings.TrimSpace(d.Example)
	d.Article = strings.TrimSpace(d.Article)
	d.Plural = strings.TrimSpace(d.Plural)
	d.PastTense = strings.TrimSpace(d.PastTense)
	d.FutureTense = strings.TrimSpace(d.FutureTense)
	d.PastParticiple = strings.TrimSpace(d.PastParticiple)
	d.ImageRef = strings.TrimSpace(d.ImageRef)
	d.AudioRef = strings.TrimSpace(d.AudioRef)
	return d
}

// NewCard creates a new Card from the given draft. It trims all text fields,
// generates a new UUID for the card ID, starts the mastery counter at zero,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewCard(draft CardDraft) (*Card, error) {
	d := draft.trimmed()
	now := time.Now().UTC()
	card := &Card{
		ID:             uuid.New(),
		Word:           d.Word,
		Definition:     d.Definition,
		Example:        d.Example,
		Article:        d.Article,
		Plural:         d.Plural,
		PastTense:      d.PastTense,
		FutureTense:    d.FutureTense,
		PastParticiple: d.PastParticiple,
		ImageRef:       d.ImageRef,
		AudioRef:       d.AudioRef,
		DeckIDs:        d.DeckIDs,
		SuccessCount:   0,
		Attempts:       0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if strings.TrimSpace(c.Word) == "" {
		return ErrCardWordEmpty
	}

	if strings.TrimSpace(c.Definition) == "" {
		return ErrCardDefinitionEmpty
	}

	if len(c.DeckIDs) == 0 {
		return ErrCardNoDeck
	}

	return nil
}

// Update replaces the card's caller-editable fields from the draft, trimming
// text values. Identity, mastery counters, and CreatedAt are preserved.
// Returns an error without modifying the card if the draft is invalid.
func (c *Card) Update(draft CardDraft) error {
	d := draft.trimmed()

	if d.Word == "" {
		return ErrCardWordEmpty
	}
	if d.Definition == "" {
		return ErrCardDefinitionEmpty
	}
	if len(d.DeckIDs) == 0 {
		return ErrCardNoDeck
	}

	c.Word = d.Word
	c.Definition = d.Definition
	c.Example = d.Example
	c.Article = d.Article
	c.Plural = d.Plural
	c.PastTense = d.PastTense
	c.FutureTense = d.FutureTense
	c.PastParticiple = d.PastParticiple
	c.ImageRef = d.ImageRef
	c.AudioRef = d.AudioRef
	c.DeckIDs = d.DeckIDs
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// LearningPercentage reports how learned the card is on a 0-100 scale. It
// grows monotonically with SuccessCount and is clamped at 100.
func (c *Card) LearningPercentage() int {
	p := c.SuccessCount * masteryStep
	if p > 100 {
		return 100
	}
	return p
}

// RecordAttempt counts one graded answer without crediting mastery.
func (c *Card) RecordAttempt() {
	c.Attempts++
	c.UpdatedAt = time.Now().UTC()
}

// RecordSuccess counts one graded answer and credits the mastery counter.
// SuccessCount only ever grows; wrong answers never shrink it.
func (c *Card) RecordSuccess() {
	c.Attempts++
	c.SuccessCount++
	c.UpdatedAt = time.Now().UTC()
}

// NormalizedWord returns the word folded for duplicate comparison: trimmed
// and lowercased.
func (c *Card) NormalizedWord() string {
	return strings.ToLower(strings.TrimSpace(c.Word))
}

// InDeck reports whether the card belongs to the given deck.
func (c *Card) InDeck(deckID uuid.UUID) bool {
	for _, id := range c.DeckIDs {
		if id == deckID {
			return true
		}
	}
	return false
}

// RemoveDeck drops deckID from the card's membership. A card losing its last
// deck is reassigned to fallbackID instead, keeping the at-least-one-deck
// invariant.
func (c *Card) RemoveDeck(deckID, fallbackID uuid.UUID) {
	kept := make([]uuid.UUID, 0, len(c.DeckIDs))
	for _, id := range c.DeckIDs {
		if id != deckID {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, fallbackID)
	}
	c.DeckIDs = kept
	c.UpdatedAt = time.Now().UTC()
}
