package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = fmt.Errorf("%w: deck ID cannot be empty", ErrValidation)

	// ErrDeckNameEmpty is returned when a deck name trims to empty.
	ErrDeckNameEmpty = fmt.Errorf("%w: deck name cannot be empty", ErrValidation)

	// ErrDeckTooDeep is returned when a sub-deck would be nested under
	// another sub-deck. The hierarchy is at most one level deep.
	ErrDeckTooDeep = fmt.Errorf("%w: sub-decks cannot have their own sub-decks", ErrValidation)
)

// DefaultDeckID identifies the built-in "Uncategorized" deck. The ID is fixed
// so snapshots from different runs agree on where unassigned cards live.
var DefaultDeckID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// DefaultDeckName is the display name of the built-in deck.
const DefaultDeckName = "Uncategorized"

// Deck is a named grouping of cards. A deck is either top-level or a
// sub-deck of a top-level deck, never deeper.
type Deck struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewDeck creates a new top-level Deck with the given name, trimmed.
// Returns an error if validation fails.
func NewDeck(name string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// NewSubDeck creates a Deck nested under the given parent. The caller is
// responsible for checking that the parent exists and is itself top-level.
func NewSubDeck(name string, parentID uuid.UUID) (*Deck, error) {
	deck, err := NewDeck(name)
	if err != nil {
		return nil, err
	}
	deck.ParentID = &parentID
	return deck, nil
}

// DefaultDeck returns the built-in deck every store starts with.
func DefaultDeck() *Deck {
	now := time.Now().UTC()
	return &Deck{
		ID:        DefaultDeckID,
		Name:      DefaultDeckName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if strings.TrimSpace(d.Name) == "" {
		return ErrDeckNameEmpty
	}

	return nil
}

// Rename updates the deck's name, trimmed, and bumps the UpdatedAt timestamp.
// Returns an error without modifying the deck if the name trims to empty.
func (d *Deck) Rename(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrDeckNameEmpty
	}

	d.Name = trimmed
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// IsDefault reports whether this is the built-in deck. The built-in deck can
// never be deleted or nested.
func (d *Deck) IsDefault() bool {
	return d.ID == DefaultDeckID
}

// IsSubDeck reports whether the deck is nested under a parent.
func (d *Deck) IsSubDeck() bool {
	return d.ParentID != nil
}
