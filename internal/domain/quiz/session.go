package quiz

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

// Common errors
var (
	// ErrInvalidTransition is returned when a session operation arrives in
	// the wrong phase. The session is left unchanged.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidAnswer is returned when a candidate answer cannot be graded
	// in the session's mode, for example a true/false response that is
	// neither.
	ErrInvalidAnswer = errors.New("invalid answer for mode")

	// ErrUnknownMode is returned for a mode value the engine does not know.
	ErrUnknownMode = errors.New("unknown quiz mode")

	// ErrNilRandom is returned when a session is constructed without a
	// random source.
	ErrNilRandom = errors.New("random source cannot be nil")
)

// Phase is the lifecycle position of a session.
type Phase string

// Session phases. Advancing between cards happens synchronously inside
// Advance, so a session is never observed between Graded and the next
// Presenting.
const (
	// PhasePresenting means the prompt is shown and no typed input is
	// accepted yet. Cover-first and self-report modes start here.
	PhasePresenting Phase = "presenting"

	// PhaseAnswering means input is accepted and not yet graded. Modes
	// whose presentation already contains the answer surface start each
	// round here.
	PhaseAnswering Phase = "answering"

	// PhaseGraded means the current card's outcome is computed and
	// feedback can be shown.
	PhaseGraded Phase = "graded"

	// PhaseComplete is terminal: every card has been graded and the
	// summary is available.
	PhaseComplete Phase = "complete"

	// PhaseEmpty is the distinct terminal state of a session constructed
	// with no cards.
	PhaseEmpty Phase = "empty"
)

// Recorder receives every graded outcome so the owning store can update the
// card's mastery counters. Cards unknown to the store are the recorder's
// problem to tolerate. A nil Recorder is ignored.
type Recorder func(cardID uuid.UUID, correct bool)

// Outcome records one graded card for end-of-session review.
type Outcome struct {
	CardID  uuid.UUID `json:"card_id"`
	Word    string    `json:"word"`
	Answer  string    `json:"answer,omitempty"`
	Correct bool      `json:"correct"`
}

// Summary is the result report of a session.
type Summary struct {
	SessionID  uuid.UUID `json:"session_id"`
	Mode       Mode      `json:"mode"`
	Cards      int       `json:"cards"`
	Score      int       `json:"score"`
	Attempts   int       `json:"attempts"`
	Percentage int       `json:"percentage"`
	History    []Outcome `json:"history"`
}

// HangmanInfo is a read-only snapshot of a hangman round.
type HangmanInfo struct {
	Mask              string   `json:"mask"`
	GuessedLetters    []string `json:"guessed_letters"`
	RemainingAttempts int      `json:"remaining_attempts"`
	Won               bool     `json:"won"`
	Lost              bool     `json:"lost"`
}

// RoundInfo is a read-only snapshot of the active round, sufficient for a
// client to render any mode's screen without re-deriving grading logic.
// Grading secrets (the true/false verdict, unguessed letters) stay inside
// the session.
type RoundInfo struct {
	CardID    uuid.UUID    `json:"card_id"`
	Options   []string     `json:"options,omitempty"`
	Statement string       `json:"statement,omitempty"`
	Hangman   *HangmanInfo `json:"hangman,omitempty"`
}

// round is the per-card state prepared each time a card is presented.
type round struct {
	options   []string
	statement string
	truth     bool
	hangman   *Hangman
}

// Session drives one run of a quiz mode over an ordered card subset. It is
// created with a card selection, mutated by answer submissions, and either
// abandoned or reset once complete. Sessions are not safe for concurrent
// use.
type Session struct {
	id           uuid.UUID
	mode         Mode
	cards        []domain.Card
	currentIndex int
	score        int
	attempts     int
	phase        Phase
	history      []Outcome
	round        *round
	rng          *rand.Rand
	recorder     Recorder
}

// NewSession starts a session of the given mode over a shuffled copy of
// cards. The recorder may be nil. A session over no cards starts in
// PhaseEmpty and accepts no operations.
func NewSession(mode Mode, cards []domain.Card, rng *rand.Rand, recorder Recorder) (*Session, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNilRandom
	}

	s := &Session{
		id:       uuid.New(),
		mode:     mode,
		cards:    make([]domain.Card, len(cards)),
		rng:      rng,
		recorder: recorder,
	}
	copy(s.cards, cards)

	if len(s.cards) == 0 {
		s.phase = PhaseEmpty
		return s, nil
	}

	s.shuffle()
	s.prepareRound()
	return s, nil
}

// shuffle reorders the session's cards uniformly.
func (s *Session) shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// prepareRound builds the per-card state for the card at currentIndex and
// sets the entry phase for the mode.
func (s *Session) prepareRound() {
	card := s.cards[s.currentIndex]
	r := &round{}

	switch s.mode {
	case ModeHangman:
		r.hangman = NewHangman(card.Word)
	case ModeTrueFalse:
		r.statement, r.truth = s.pickStatement(card)
	case ModeBattle:
		r.options = GenerateOptions(
			strings.TrimSpace(card.Definition), s.cards, BattleOptionCount, s.rng)
	}

	s.round = r
	if s.mode.coverFirst() || s.mode.skipsAnswering() {
		s.phase = PhasePresenting
	} else {
		s.phase = PhaseAnswering
	}
}

// pickStatement chooses the definition shown for a true/false round: an even
// coin decides between the card's own definition and one lifted from another
// card. Sessions without a second distinct definition always show the truth.
func (s *Session) pickStatement(card domain.Card) (string, bool) {
	own := strings.TrimSpace(card.Definition)
	if s.rng.Intn(2) == 0 {
		return own, true
	}

	decoys := make([]string, 0, len(s.cards))
	seen := map[string]bool{strings.ToLower(own): true}
	for _, other := range s.cards {
		def := strings.TrimSpace(other.Definition)
		key := strings.ToLower(def)
		if def == "" || seen[key] {
			continue
		}
		seen[key] = true
		decoys = append(decoys, def)
	}
	if len(decoys) == 0 {
		return own, true
	}
	return decoys[s.rng.Intn(len(decoys))], false
}

// Reveal moves a cover-first round from presenting to answering (the user
// covered the prompt and may now type). Modes whose presentation already
// contains the answer surface treat Reveal as a no-op.
func (s *Session) Reveal() error {
	switch s.phase {
	case PhasePresenting:
		if s.mode.coverFirst() {
			s.phase = PhaseAnswering
		}
		return nil
	case PhaseAnswering:
		return nil
	default:
		return fmt.Errorf("%w: reveal in phase %s", ErrInvalidTransition, s.phase)
	}
}

// SubmitAnswer grades the candidate against the current card and moves the
// session to PhaseGraded. Self-report modes accept the submission straight
// from PhasePresenting; every other mode requires PhaseAnswering. Hangman
// rounds grade through GuessLetter instead. The graded outcome is returned.
func (s *Session) SubmitAnswer(candidate string) (bool, error) {
	if s.mode == ModeHangman {
		return false, fmt.Errorf(
			"%w: hangman rounds grade through letter guesses", ErrInvalidTransition)
	}

	switch {
	case s.phase == PhaseAnswering:
	case s.phase == PhasePresenting && s.mode.skipsAnswering():
	default:
		return false, fmt.Errorf("%w: submit answer in phase %s", ErrInvalidTransition, s.phase)
	}

	correct, err := s.gradeCandidate(candidate)
	if err != nil {
		return false, err
	}

	s.grade(correct, strings.TrimSpace(candidate))
	return correct, nil
}

// gradeCandidate applies the mode's grading rule. The phase is not changed
// here; an ungradable answer leaves the round answerable.
func (s *Session) gradeCandidate(candidate string) (bool, error) {
	card := s.cards[s.currentIndex]
	answer := strings.TrimSpace(candidate)

	switch s.mode {
	case ModeStudy:
		switch {
		case strings.EqualFold(answer, SelfReportKnown):
			return true, nil
		case strings.EqualFold(answer, SelfReportUnknown):
			return false, nil
		default:
			return false, fmt.Errorf("%w: self-report must be %q or %q",
				ErrInvalidAnswer, SelfReportKnown, SelfReportUnknown)
		}

	case ModeTest, ModeSpelling, ModeLookCoverCheck:
		return strings.EqualFold(answer, strings.TrimSpace(card.Word)), nil

	case ModeTrueFalse:
		switch {
		case strings.EqualFold(answer, "true"):
			return s.round.truth, nil
		case strings.EqualFold(answer, "false"):
			return !s.round.truth, nil
		default:
			return false, fmt.Errorf("%w: true/false answer must be %q or %q",
				ErrInvalidAnswer, "true", "false")
		}

	case ModeBattle:
		return strings.EqualFold(answer, strings.TrimSpace(card.Definition)), nil
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownMode, s.mode)
}

// grade commits one outcome: counters, history, the mastery recorder, and
// the move to PhaseGraded.
func (s *Session) grade(correct bool, answer string) {
	card := s.cards[s.currentIndex]

	s.attempts++
	if correct {
		s.score++
	}
	s.history = append(s.history, Outcome{
		CardID:  card.ID,
		Word:    card.Word,
		Answer:  answer,
		Correct: correct,
	})
	if s.recorder != nil {
		s.recorder(card.ID, correct)
	}
	s.phase = PhaseGraded
}

// GuessLetter plays one hangman guess. Only hangman sessions in
// PhaseAnswering accept guesses; a terminal guess grades the card with the
// round's win or loss.
func (s *Session) GuessLetter(letter rune) (GuessOutcome, error) {
	if s.mode != ModeHangman {
		return "", fmt.Errorf(
			"%w: %s sessions do not take letter guesses", ErrInvalidTransition, s.mode)
	}
	if s.phase != PhaseAnswering {
		return "", fmt.Errorf("%w: guess letter in phase %s", ErrInvalidTransition, s.phase)
	}

	outcome := s.round.hangman.Guess(letter)
	switch outcome {
	case GuessWon:
		s.grade(true, s.round.hangman.Mask())
	case GuessLost:
		s.grade(false, s.round.hangman.Mask())
	}
	return outcome, nil
}

// Advance moves past a graded card: the next card is presented, or the
// session completes when none remain. Advancing is synchronous; callers
// observe either the next round or PhaseComplete.
func (s *Session) Advance() error {
	if s.phase != PhaseGraded {
		return fmt.Errorf("%w: advance in phase %s", ErrInvalidTransition, s.phase)
	}

	s.currentIndex++
	if s.currentIndex >= len(s.cards) {
		s.phase = PhaseComplete
		s.round = nil
		return nil
	}

	s.prepareRound()
	return nil
}

// Reset reshuffles the cards, zeroes the counters, clears the history, and
// presents the first card again. Resetting an empty session is a no-op.
func (s *Session) Reset() error {
	if s.phase == PhaseEmpty {
		return nil
	}

	s.currentIndex = 0
	s.score = 0
	s.attempts = 0
	s.history = nil
	s.shuffle()
	s.prepareRound()
	return nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Mode returns the session's mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Score returns the number of correctly graded cards.
func (s *Session) Score() int {
	return s.score
}

// Attempts returns the number of graded cards.
func (s *Session) Attempts() int {
	return s.attempts
}

// Len returns the number of cards in the session.
func (s *Session) Len() int {
	return len(s.cards)
}

// CurrentIndex returns the zero-based position of the card under study.
func (s *Session) CurrentIndex() int {
	return s.currentIndex
}

// Percentage returns the score as a rounded percentage of attempts, and 0
// before anything has been graded.
func (s *Session) Percentage() int {
	if s.attempts == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.score) / float64(s.attempts)))
}

// CurrentCard returns a copy of the card under study, or nil when the
// session has no active card.
func (s *Session) CurrentCard() *domain.Card {
	if s.phase == PhaseEmpty || s.phase == PhaseComplete {
		return nil
	}
	card := s.cards[s.currentIndex]
	return &card
}

// CurrentRound returns a read-only snapshot of the active round, or nil
// when the session has no active card.
func (s *Session) CurrentRound() *RoundInfo {
	if s.round == nil || s.phase == PhaseEmpty || s.phase == PhaseComplete {
		return nil
	}

	info := &RoundInfo{
		CardID:    s.cards[s.currentIndex].ID,
		Statement: s.round.statement,
	}
	if s.round.options != nil {
		info.Options = make([]string, len(s.round.options))
		copy(info.Options, s.round.options)
	}
	if s.round.hangman != nil {
		info.Hangman = &HangmanInfo{
			Mask:              s.round.hangman.Mask(),
			GuessedLetters:    s.round.hangman.GuessedLetters(),
			RemainingAttempts: s.round.hangman.RemainingAttempts(),
			Won:               s.round.hangman.Won(),
			Lost:              s.round.hangman.Lost(),
		}
	}
	return info
}

// History returns a copy of the graded outcomes so far.
func (s *Session) History() []Outcome {
	out := make([]Outcome, len(s.history))
	copy(out, s.history)
	return out
}

// Summary reports the session's results for the review screen.
func (s *Session) Summary() Summary {
	return Summary{
		SessionID:  s.id,
		Mode:       s.mode,
		Cards:      len(s.cards),
		Score:      s.score,
		Attempts:   s.attempts,
		Percentage: s.Percentage(),
		History:    s.History(),
	}
}
