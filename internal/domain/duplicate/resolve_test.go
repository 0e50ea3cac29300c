package duplicate

import (
	"errors"
	"testing"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

func TestResolveKeepExisting(t *testing.T) {
	t.Parallel() // Enable parallel execution
	existing := testCard(t, domain.CardDraft{Word: "huis", Definition: "house"})

	resolved, err := Resolve(existing, CandidateFields{Definition: "home"}, ActionKeepExisting)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.Definition != "house" {
		t.Errorf("Expected existing definition to survive, got %q", resolved.Definition)
	}
	if resolved.ID != existing.ID {
		t.Error("Expected identity to be preserved")
	}
}

func TestResolveReplace(t *testing.T) {
	t.Parallel() // Enable parallel execution
	existing := testCard(t, domain.CardDraft{
		Word:       "huis",
		Definition: "house",
		Example:    "ik woon in een huis",
		Plural:     "huizen",
	})
	existing.SuccessCount = 4

	resolved, err := Resolve(existing, CandidateFields{
		Definition: "home",
		Article:    "het",
	}, ActionReplace)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.ID != existing.ID {
		t.Error("Expected identity to be preserved across replace")
	}
	if resolved.SuccessCount != 4 {
		t.Errorf("Expected mastery counter preserved, got %d", resolved.SuccessCount)
	}
	if resolved.Definition != "home" {
		t.Errorf("Expected replaced definition %q, got %q", "home", resolved.Definition)
	}
	if resolved.Article != "het" {
		t.Errorf("Expected replaced article %q, got %q", "het", resolved.Article)
	}

	// Fields the candidate leaves empty are emptied on the result
	if resolved.Example != "" || resolved.Plural != "" {
		t.Errorf("Expected candidate-empty fields cleared, got example=%q plural=%q",
			resolved.Example, resolved.Plural)
	}

	// The original card is untouched
	if existing.Definition != "house" {
		t.Errorf("Expected input card unchanged, got definition %q", existing.Definition)
	}
}

func TestResolveReplaceRejectsEmptyDefinition(t *testing.T) {
	t.Parallel() // Enable parallel execution
	existing := testCard(t, domain.CardDraft{Word: "huis", Definition: "house"})

	_, err := Resolve(existing, CandidateFields{Definition: "  "}, ActionReplace)
	if !errors.Is(err, domain.ErrCardDefinitionEmpty) {
		t.Errorf("Expected error %v, got %v", domain.ErrCardDefinitionEmpty, err)
	}
}

func TestResolveMergeFields(t *testing.T) {
	t.Parallel() // Enable parallel execution
	existing := testCard(t, domain.CardDraft{
		Word:       "huis",
		Definition: "house",
		Article:    "het",
	})

	resolved, err := Resolve(existing, CandidateFields{
		Definition: "home",
		Article:    "de",
		Example:    "ik woon in een huis",
		Plural:     "huizen",
	}, ActionMergeFields)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Filled fields are never overwritten
	if resolved.Definition != "house" {
		t.Errorf("Expected merge to keep definition %q, got %q", "house", resolved.Definition)
	}
	if resolved.Article != "het" {
		t.Errorf("Expected merge to keep article %q, got %q", "het", resolved.Article)
	}

	// Empty fields are filled from the candidate
	if resolved.Example != "ik woon in een huis" {
		t.Errorf("Expected merged example, got %q", resolved.Example)
	}
	if resolved.Plural != "huizen" {
		t.Errorf("Expected merged plural, got %q", resolved.Plural)
	}
}

// Merging can only add information: the resolved card's filled-field count is
// never below the existing card's.
func TestResolveMergeNeverReducesFilledFields(t *testing.T) {
	t.Parallel() // Enable parallel execution

	existingDrafts := []domain.CardDraft{
		{Word: "huis", Definition: "house"},
		{Word: "huis", Definition: "house", Example: "voorbeeld"},
		{Word: "huis", Definition: "house", Article: "het", Plural: "huizen"},
		{
			Word: "lopen", Definition: "to walk", Example: "ik loop",
			PastTense: "liep", FutureTense: "zal lopen", PastParticiple: "gelopen",
		},
	}
	candidates := []CandidateFields{
		{},
		{Definition: "home"},
		{Example: "nieuw voorbeeld", Article: "de"},
		{Definition: "x", Example: "y", Article: "z", Plural: "p",
			PastTense: "q", FutureTense: "r", PastParticiple: "s"},
	}

	for _, draft := range existingDrafts {
		for _, candidate := range candidates {
			existing := testCard(t, draft)
			before := Compare(existing, CandidateFields{}).ExistingFilledFields

			resolved, err := Resolve(existing, candidate, ActionMergeFields)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			after := Compare(resolved, CandidateFields{}).ExistingFilledFields
			if after < before {
				t.Errorf("Merge reduced filled fields from %d to %d (existing %+v, candidate %+v)",
					before, after, draft, candidate)
			}
		}
	}
}

func TestResolveCancel(t *testing.T) {
	t.Parallel() // Enable parallel execution
	existing := testCard(t, domain.CardDraft{Word: "huis", Definition: "house"})

	_, err := Resolve(existing, CandidateFields{Definition: "home"}, ActionCancel)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected error %v, got %v", ErrCancelled, err)
	}
}

func TestResolveUnknownAction(t *testing.T) {
	t.Parallel() // Enable parallel execution
	existing := testCard(t, domain.CardDraft{Word: "huis", Definition: "house"})

	_, err := Resolve(existing, CandidateFields{}, Action("explode"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Expected error %v, got %v", ErrUnknownAction, err)
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel() // Enable parallel execution

	for _, valid := range []string{
		string(ActionKeepExisting),
		string(ActionReplace),
		string(ActionMergeFields),
		string(ActionCancel),
	} {
		action, err := ParseAction(valid)
		if err != nil {
			t.Errorf("Expected %q to parse, got %v", valid, err)
		}
		if string(action) != valid {
			t.Errorf("Expected action %q, got %q", valid, action)
		}
	}

	if _, err := ParseAction("overwrite"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Expected error %v, got %v", ErrUnknownAction, err)
	}
}
