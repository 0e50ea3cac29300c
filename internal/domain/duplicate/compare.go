// Package duplicate implements the resolution policy for cards whose word
// collides with an existing card: a field-level comparison plus the actions
// a caller can take with it (keep, replace, merge, cancel).
package duplicate

import (
	"strings"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

// Field names used in Comparison.FieldDifferences.
const (
	FieldDefinition     = "definition"
	FieldExample        = "example"
	FieldArticle        = "article"
	FieldPlural         = "plural"
	FieldPastTense      = "pastTense"
	FieldFutureTense    = "futureTense"
	FieldPastParticiple = "pastParticiple"
)

// fieldNames lists the shared field set in presentation order.
var fieldNames = []string{
	FieldDefinition,
	FieldExample,
	FieldArticle,
	FieldPlural,
	FieldPastTense,
	FieldFutureTense,
	FieldPastParticiple,
}

// CandidateFields carries the proposed values for a card that collided with
// an existing one. Only the compared field set is included; identity, deck
// membership, and mastery counters never participate in resolution.
type CandidateFields struct {
	Definition     string `json:"definition"`
	Example        string `json:"example,omitempty"`
	Article        string `json:"article,omitempty"`
	Plural         string `json:"plural,omitempty"`
	PastTense      string `json:"past_tense,omitempty"`
	FutureTense    string `json:"future_tense,omitempty"`
	PastParticiple string `json:"past_participle,omitempty"`
}

// byName maps the candidate's fields by their comparison field name.
func (f CandidateFields) byName() map[string]string {
	return map[string]string{
		FieldDefinition:     f.Definition,
		FieldExample:        f.Example,
		FieldArticle:        f.Article,
		FieldPlural:         f.Plural,
		FieldPastTense:      f.PastTense,
		FieldFutureTense:    f.FutureTense,
		FieldPastParticiple: f.PastParticiple,
	}
}

// fieldsOf maps a card's comparable fields by their comparison field name.
func fieldsOf(card domain.Card) map[string]string {
	return map[string]string{
		FieldDefinition:     card.Definition,
		FieldExample:        card.Example,
		FieldArticle:        card.Article,
		FieldPlural:         card.Plural,
		FieldPastTense:      card.PastTense,
		FieldFutureTense:    card.FutureTense,
		FieldPastParticiple: card.PastParticiple,
	}
}

// FieldDiff is one differing field: the existing card's value next to the
// incoming candidate's value. Either side may be empty.
type FieldDiff struct {
	Existing string `json:"existing"`
	Incoming string `json:"incoming"`
}

// Comparison is the field-level diff between an existing card and candidate
// data for the same word. It is computed on demand and discarded once a
// resolution action has been chosen; nothing here is persisted.
type Comparison struct {
	// ExistingFilledFields counts compared fields filled on the existing card.
	ExistingFilledFields int `json:"existing_filled_fields"`

	// NewFilledFields counts compared fields filled on the candidate.
	NewFilledFields int `json:"new_filled_fields"`

	// FieldDifferences holds every field whose trimmed values disagree,
	// including fields where one side is empty.
	FieldDifferences map[string]FieldDiff `json:"field_differences"`

	// NewFieldsCount counts fields empty on the existing card but filled on
	// the candidate.
	NewFieldsCount int `json:"new_fields_count"`

	// HasMoreInformation is true when the candidate fills at least one field
	// the existing card leaves empty.
	HasMoreInformation bool `json:"has_more_information"`
}

// Compare computes the field-level diff between an existing card and the
// incoming candidate values. A field counts as filled when its trimmed value
// is non-empty.
func Compare(existing domain.Card, incoming CandidateFields) Comparison {
	existingFields := fieldsOf(existing)
	incomingFields := incoming.byName()

	cmp := Comparison{
		FieldDifferences: make(map[string]FieldDiff),
	}

	for _, name := range fieldNames {
		existingVal := strings.TrimSpace(existingFields[name])
		incomingVal := strings.TrimSpace(incomingFields[name])

		if existingVal != "" {
			cmp.ExistingFilledFields++
		}
		if incomingVal != "" {
			cmp.NewFilledFields++
		}
		if existingVal == "" && incomingVal != "" {
			cmp.NewFieldsCount++
		}
		if existingVal != incomingVal {
			cmp.FieldDifferences[name] = FieldDiff{
				Existing: existingVal,
				Incoming: incomingVal,
			}
		}
	}

	cmp.HasMoreInformation = cmp.NewFieldsCount > 0
	return cmp
}
