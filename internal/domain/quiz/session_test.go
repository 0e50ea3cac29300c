package quiz

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

func makeCard(word, definition string) domain.Card {
	return domain.Card{
		ID:         uuid.New(),
		Word:       word,
		Definition: definition,
		DeckIDs:    []uuid.UUID{domain.DefaultDeckID},
	}
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func dutchCards() []domain.Card {
	return []domain.Card{
		makeCard("huis", "house"),
		makeCard("fiets", "bicycle"),
		makeCard("brood", "bread"),
		makeCard("water", "water"),
	}
}

func TestNewSessionValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	_, err := NewSession(Mode("karaoke"), dutchCards(), newRNG(1), nil)
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Expected error %v, got %v", ErrUnknownMode, err)
	}

	_, err = NewSession(ModeTest, dutchCards(), nil, nil)
	if !errors.Is(err, ErrNilRandom) {
		t.Errorf("Expected error %v, got %v", ErrNilRandom, err)
	}
}

func TestEmptySession(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeTest, nil, newRNG(1), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if sess.Phase() != PhaseEmpty {
		t.Fatalf("Expected phase %s, got %s", PhaseEmpty, sess.Phase())
	}

	if _, err := sess.SubmitAnswer("huis"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}
	if err := sess.Advance(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}
	if err := sess.Reveal(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}

	// Reset keeps an empty session empty
	if err := sess.Reset(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if sess.Phase() != PhaseEmpty {
		t.Errorf("Expected phase %s after reset, got %s", PhaseEmpty, sess.Phase())
	}

	if sess.Percentage() != 0 {
		t.Errorf("Expected percentage 0 with no attempts, got %d", sess.Percentage())
	}
	if sess.CurrentCard() != nil {
		t.Error("Expected no current card for an empty session")
	}
}

// A full pass of correct answers over n cards ends Complete with n attempts.
func TestTestModeFullCycle(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cards := dutchCards()

	sess, err := NewSession(ModeTest, cards, newRNG(42), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < len(cards); i++ {
		if sess.Phase() != PhaseAnswering {
			t.Fatalf("Expected phase %s at card %d, got %s", PhaseAnswering, i, sess.Phase())
		}

		card := sess.CurrentCard()
		if card == nil {
			t.Fatal("Expected a current card mid-session")
		}
		seen[card.ID] = true

		correct, err := sess.SubmitAnswer(card.Word)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !correct {
			t.Errorf("Expected correct outcome for %q", card.Word)
		}
		if sess.Phase() != PhaseGraded {
			t.Fatalf("Expected phase %s after submit, got %s", PhaseGraded, sess.Phase())
		}

		if err := sess.Advance(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	if sess.Phase() != PhaseComplete {
		t.Errorf("Expected phase %s, got %s", PhaseComplete, sess.Phase())
	}
	if sess.Attempts() != len(cards) {
		t.Errorf("Expected %d attempts, got %d", len(cards), sess.Attempts())
	}
	if sess.Score() != len(cards) {
		t.Errorf("Expected score %d, got %d", len(cards), sess.Score())
	}
	if sess.Percentage() != 100 {
		t.Errorf("Expected percentage 100, got %d", sess.Percentage())
	}
	if len(seen) != len(cards) {
		t.Errorf("Expected every card to be played exactly once, saw %d of %d",
			len(seen), len(cards))
	}
	if sess.CurrentCard() != nil {
		t.Error("Expected no current card after completion")
	}
}

func TestGradingIsCaseInsensitiveAndTrimmed(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeSpelling, []domain.Card{makeCard("huis", "house")}, newRNG(7), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	correct, err := sess.SubmitAnswer("  HUIS ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !correct {
		t.Error("Expected trimmed case-insensitive answer to grade correct")
	}
}

func TestWrongPhaseOperationsAreRejected(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeTest, dutchCards(), newRNG(3), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Advance before anything is graded
	if err := sess.Advance(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}
	if sess.Phase() != PhaseAnswering {
		t.Errorf("Expected phase unchanged at %s, got %s", PhaseAnswering, sess.Phase())
	}

	// Double submit
	if _, err := sess.SubmitAnswer("whatever"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	attempts := sess.Attempts()
	if _, err := sess.SubmitAnswer("again"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}
	if sess.Attempts() != attempts {
		t.Errorf("Expected attempts unchanged at %d, got %d", attempts, sess.Attempts())
	}

	// Reveal after grading
	if err := sess.Reveal(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}

	// Letter guesses outside hangman mode
	if _, err := sess.GuessLetter('a'); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}
}

func TestStudySelfReport(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeStudy, dutchCards(), newRNG(5), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if sess.Phase() != PhasePresenting {
		t.Fatalf("Expected phase %s, got %s", PhasePresenting, sess.Phase())
	}

	// Self-reports other than known/unknown are rejected without grading
	if _, err := sess.SubmitAnswer("maybe"); !errors.Is(err, ErrInvalidAnswer) {
		t.Errorf("Expected error %v, got %v", ErrInvalidAnswer, err)
	}
	if sess.Attempts() != 0 {
		t.Errorf("Expected no attempts after rejected answer, got %d", sess.Attempts())
	}

	correct, err := sess.SubmitAnswer(SelfReportKnown)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !correct {
		t.Error("Expected known self-report to grade correct")
	}

	if err := sess.Advance(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	correct, err = sess.SubmitAnswer(SelfReportUnknown)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if correct {
		t.Error("Expected unknown self-report to grade incorrect")
	}

	if sess.Score() != 1 || sess.Attempts() != 2 {
		t.Errorf("Expected score=1 attempts=2, got score=%d attempts=%d",
			sess.Score(), sess.Attempts())
	}
}

func TestLookCoverCheckRequiresReveal(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeLookCoverCheck, []domain.Card{makeCard("huis", "house")}, newRNG(9), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if sess.Phase() != PhasePresenting {
		t.Fatalf("Expected phase %s, got %s", PhasePresenting, sess.Phase())
	}

	// Typing before covering the prompt is a wrong-phase call
	if _, err := sess.SubmitAnswer("huis"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTransition, err)
	}

	if err := sess.Reveal(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if sess.Phase() != PhaseAnswering {
		t.Fatalf("Expected phase %s after reveal, got %s", PhaseAnswering, sess.Phase())
	}

	// A second reveal is a no-op
	if err := sess.Reveal(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	correct, err := sess.SubmitAnswer("huis")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !correct {
		t.Error("Expected correct outcome")
	}
}

func TestTrueFalseGrading(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeTrueFalse, dutchCards(), newRNG(11), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Answering with the actual truth of the statement is always correct.
	for i := 0; i < sess.Len(); i++ {
		info := sess.CurrentRound()
		if info == nil || info.Statement == "" {
			t.Fatal("Expected a statement for a true/false round")
		}
		card := sess.CurrentCard()

		answer := "false"
		if strings.EqualFold(info.Statement, strings.TrimSpace(card.Definition)) {
			answer = "true"
		}

		correct, err := sess.SubmitAnswer(answer)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !correct {
			t.Errorf("Expected truthful answer %q to grade correct for statement %q",
				answer, info.Statement)
		}
		if err := sess.Advance(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	if sess.Score() != sess.Len() {
		t.Errorf("Expected perfect score %d, got %d", sess.Len(), sess.Score())
	}
}

func TestTrueFalseRejectsOtherAnswers(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sess, err := NewSession(ModeTrueFalse, dutchCards(), newRNG(13), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := sess.SubmitAnswer("banana"); !errors.Is(err, ErrInvalidAnswer) {
		t.Errorf("Expected error %v, got %v", ErrInvalidAnswer, err)
	}
	if sess.Phase() != PhaseAnswering {
		t.Errorf("Expected phase unchanged at %s, got %s", PhaseAnswering, sess.Phase())
	}
}

func TestTrueFalseSingleCardAlwaysShowsTruth(t *testing.T) {
	t.Parallel() // Enable parallel execution

	// With no second distinct definition there is nothing to lie with.
	for seed := int64(0); seed < 20; seed++ {
		sess, err := NewSession(ModeTrueFalse, []domain.Card{makeCard("huis", "house")}, newRNG(seed), nil)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		info := sess.CurrentRound()
		if info.Statement != "house" {
			t.Fatalf("Expected the only definition as statement, got %q", info.Statement)
		}
		correct, err := sess.SubmitAnswer("true")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !correct {
			t.Error("Expected true to be correct for the card's own definition")
		}
	}
}

func TestBattleRounds(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards := []domain.Card{
		makeCard("huis", "house"),
		makeCard("fiets", "bicycle"),
		makeCard("brood", "bread"),
		makeCard("water", "water"),
		makeCard("kaas", "cheese"),
	}

	sess, err := NewSession(ModeBattle, cards, newRNG(17), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	info := sess.CurrentRound()
	if info == nil {
		t.Fatal("Expected round info for a battle session")
	}
	if len(info.Options) != BattleOptionCount {
		t.Fatalf("Expected %d options, got %d", BattleOptionCount, len(info.Options))
	}

	card := sess.CurrentCard()
	found := false
	for _, opt := range info.Options {
		if strings.EqualFold(opt, strings.TrimSpace(card.Definition)) {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected options %v to contain %q", info.Options, card.Definition)
	}

	// Picking the right definition grades correct
	correct, err := sess.SubmitAnswer(card.Definition)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !correct {
		t.Error("Expected the card's definition to grade correct")
	}

	if err := sess.Advance(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Picking anything else grades incorrect
	next := sess.CurrentCard()
	correct, err = sess.SubmitAnswer("definitely not " + next.Definition)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if correct {
		t.Error("Expected a non-matching option to grade incorrect")
	}
}

func TestReset(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cards := dutchCards()

	sess, err := NewSession(ModeTest, cards, newRNG(23), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Play through to completion, deliberately failing every card
	for i := 0; i < len(cards); i++ {
		if _, err := sess.SubmitAnswer("wrong"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if err := sess.Advance(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if sess.Phase() != PhaseComplete {
		t.Fatalf("Expected phase %s, got %s", PhaseComplete, sess.Phase())
	}

	if err := sess.Reset(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if sess.Phase() != PhaseAnswering {
		t.Errorf("Expected phase %s after reset, got %s", PhaseAnswering, sess.Phase())
	}
	if sess.Score() != 0 || sess.Attempts() != 0 {
		t.Errorf("Expected zeroed counters, got score=%d attempts=%d",
			sess.Score(), sess.Attempts())
	}
	if len(sess.History()) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(sess.History()))
	}
	if sess.CurrentIndex() != 0 {
		t.Errorf("Expected index 0, got %d", sess.CurrentIndex())
	}
	if sess.Len() != len(cards) {
		t.Errorf("Expected %d cards after reset, got %d", len(cards), sess.Len())
	}
}

func TestPercentageRounding(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name     string
		answers  []bool
		expected int
	}{
		{name: "no attempts", answers: nil, expected: 0},
		{name: "one of three", answers: []bool{true, false, false}, expected: 33},
		{name: "two of three", answers: []bool{true, true, false}, expected: 67},
		{name: "all correct", answers: []bool{true, true}, expected: 100},
		{name: "none correct", answers: []bool{false, false}, expected: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cards := make([]domain.Card, len(tc.answers)+1)
			for i := range cards {
				cards[i] = makeCard("word", "definition")
			}

			sess, err := NewSession(ModeStudy, cards, newRNG(29), nil)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			for _, known := range tc.answers {
				report := SelfReportUnknown
				if known {
					report = SelfReportKnown
				}
				if _, err := sess.SubmitAnswer(report); err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				if err := sess.Advance(); err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
			}

			if got := sess.Percentage(); got != tc.expected {
				t.Errorf("Expected percentage %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestRecorderReceivesGradedOutcomes(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cards := []domain.Card{makeCard("huis", "house"), makeCard("fiets", "bicycle")}

	type graded struct {
		cardID  uuid.UUID
		correct bool
	}
	var got []graded

	sess, err := NewSession(ModeTest, cards, newRNG(31), func(cardID uuid.UUID, correct bool) {
		got = append(got, graded{cardID: cardID, correct: correct})
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	first := sess.CurrentCard()
	if _, err := sess.SubmitAnswer(first.Word); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := sess.Advance(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second := sess.CurrentCard()
	if _, err := sess.SubmitAnswer("wrong"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 recorded outcomes, got %d", len(got))
	}
	if got[0].cardID != first.ID || !got[0].correct {
		t.Errorf("Expected first outcome (%s, correct), got (%s, %v)",
			first.ID, got[0].cardID, got[0].correct)
	}
	if got[1].cardID != second.ID || got[1].correct {
		t.Errorf("Expected second outcome (%s, incorrect), got (%s, %v)",
			second.ID, got[1].cardID, got[1].correct)
	}
}

func TestHistoryAndSummary(t *testing.T) {
	t.Parallel() // Enable parallel execution
	cards := []domain.Card{makeCard("huis", "house"), makeCard("fiets", "bicycle")}

	sess, err := NewSession(ModeTest, cards, newRNG(37), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	first := sess.CurrentCard()
	if _, err := sess.SubmitAnswer(first.Word); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := sess.Advance(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := sess.SubmitAnswer("wrong"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := sess.Advance(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	summary := sess.Summary()
	if summary.SessionID != sess.ID() {
		t.Error("Expected summary to carry the session ID")
	}
	if summary.Cards != 2 || summary.Attempts != 2 || summary.Score != 1 {
		t.Errorf("Expected cards=2 attempts=2 score=1, got cards=%d attempts=%d score=%d",
			summary.Cards, summary.Attempts, summary.Score)
	}
	if summary.Percentage != 50 {
		t.Errorf("Expected percentage 50, got %d", summary.Percentage)
	}
	if len(summary.History) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(summary.History))
	}
	if !summary.History[0].Correct || summary.History[1].Correct {
		t.Errorf("Expected history [correct, incorrect], got %+v", summary.History)
	}
	if summary.History[0].Word != first.Word {
		t.Errorf("Expected first history word %q, got %q", first.Word, summary.History[0].Word)
	}
}
