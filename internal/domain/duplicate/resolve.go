package duplicate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

// Common errors
var (
	// ErrCancelled signals that the caller chose to discard the candidate;
	// no card is added or modified.
	ErrCancelled = errors.New("duplicate resolution cancelled")

	// ErrUnknownAction is returned for an action value Resolve does not know.
	ErrUnknownAction = errors.New("unknown resolution action")
)

// Action is a duplicate resolution choice.
type Action string

// Possible resolution actions.
const (
	// ActionKeepExisting leaves the existing card untouched.
	ActionKeepExisting Action = "keep_existing"

	// ActionReplace rewrites the existing card's compared fields from the
	// candidate, preserving identity and the mastery counter.
	ActionReplace Action = "replace_with_new"

	// ActionMergeFields fills only the fields that are empty on the existing
	// card; fields already filled are never overwritten.
	ActionMergeFields Action = "merge_additional_fields"

	// ActionCancel discards the candidate entirely.
	ActionCancel Action = "cancel"
)

// ParseAction maps a wire string onto an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionKeepExisting, ActionReplace, ActionMergeFields, ActionCancel:
		return Action(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Resolve applies the chosen action to the existing card and candidate data
// and returns the card as it should be stored afterwards. The input card is
// never modified; Resolve works on a copy. ActionCancel yields ErrCancelled
// so the caller discards the candidate.
func Resolve(existing domain.Card, incoming CandidateFields, action Action) (domain.Card, error) {
	switch action {
	case ActionKeepExisting:
		return existing, nil

	case ActionReplace:
		replaced := existing
		replaced.Definition = strings.TrimSpace(incoming.Definition)
		replaced.Example = strings.TrimSpace(incoming.Example)
		replaced.Article = strings.TrimSpace(incoming.Article)
		replaced.Plural = strings.TrimSpace(incoming.Plural)
		replaced.PastTense = strings.TrimSpace(incoming.PastTense)
		replaced.FutureTense = strings.TrimSpace(incoming.FutureTense)
		replaced.PastParticiple = strings.TrimSpace(incoming.PastParticiple)
		replaced.UpdatedAt = time.Now().UTC()

		// The candidate may carry an empty definition; the card invariant
		// still holds after a replace.
		if err := replaced.Validate(); err != nil {
			return domain.Card{}, err
		}
		return replaced, nil

	case ActionMergeFields:
		merged := existing
		changed := false
		changed = fillIfEmpty(&merged.Definition, incoming.Definition) || changed
		changed = fillIfEmpty(&merged.Example, incoming.Example) || changed
		changed = fillIfEmpty(&merged.Article, incoming.Article) || changed
		changed = fillIfEmpty(&merged.Plural, incoming.Plural) || changed
		changed = fillIfEmpty(&merged.PastTense, incoming.PastTense) || changed
		changed = fillIfEmpty(&merged.FutureTense, incoming.FutureTense) || changed
		changed = fillIfEmpty(&merged.PastParticiple, incoming.PastParticiple) || changed
		if changed {
			merged.UpdatedAt = time.Now().UTC()
		}
		return merged, nil

	case ActionCancel:
		return domain.Card{}, ErrCancelled

	default:
		return domain.Card{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// fillIfEmpty writes the trimmed incoming value when dst trims to empty.
// Reports whether dst was written.
func fillIfEmpty(dst *string, incoming string) bool {
	if strings.TrimSpace(*dst) != "" {
		return false
	}
	v := strings.TrimSpace(incoming)
	if v == "" {
		return false
	}
	*dst = v
	return true
}
