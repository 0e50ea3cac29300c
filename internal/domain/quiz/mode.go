package quiz

import "fmt"

// Mode selects the grading and presentation behavior of a session.
type Mode string

// Supported quiz modes.
const (
	// ModeStudy is self-paced review: the user reports whether they knew
	// the card; nothing is typed or compared.
	ModeStudy Mode = "study"

	// ModeTest asks for the word given its definition, graded by trimmed
	// case-insensitive comparison.
	ModeTest Mode = "test"

	// ModeTrueFalse shows a definition that either belongs to the card or
	// was lifted from another card; the user judges which.
	ModeTrueFalse Mode = "true_false"

	// ModeSpelling asks the user to type the word, graded like ModeTest.
	ModeSpelling Mode = "spelling"

	// ModeLookCoverCheck shows the word first; the user covers it and
	// reproduces it from memory.
	ModeLookCoverCheck Mode = "look_cover_check"

	// ModeHangman reveals the word one guessed letter at a time with a
	// budget of six wrong guesses.
	ModeHangman Mode = "hangman"

	// ModeBattle is a multiple-choice quiz: pick the card's definition out
	// of a slate of distractors.
	ModeBattle Mode = "battle"
)

// Self-report answers accepted in ModeStudy. The caller maps its gestures
// (swipe right/left) onto these values.
const (
	SelfReportKnown   = "known"
	SelfReportUnknown = "unknown"
)

// BattleOptionCount is the multiple-choice slate size for battle rounds.
const BattleOptionCount = 4

// ParseMode maps a wire string onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeStudy, ModeTest, ModeTrueFalse, ModeSpelling,
		ModeLookCoverCheck, ModeHangman, ModeBattle:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// skipsAnswering reports whether the mode grades straight from the
// presentation: a self-report gesture replaces a typed answer.
func (m Mode) skipsAnswering() bool {
	return m == ModeStudy
}

// coverFirst reports whether the mode keeps the input surface hidden until
// the user covers the prompt, so rounds begin in the presenting phase.
func (m Mode) coverFirst() bool {
	return m == ModeLookCoverCheck
}
