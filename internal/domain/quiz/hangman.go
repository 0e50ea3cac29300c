package quiz

import (
	"strings"
	"unicode"
)

// DefaultHangmanAttempts is the number of wrong guesses a hangman round
// allows before it is lost.
const DefaultHangmanAttempts = 6

// GuessOutcome classifies the effect of one letter guess.
type GuessOutcome string

// Possible guess outcomes. GuessWon and GuessLost are terminal for the round.
const (
	GuessRepeated GuessOutcome = "repeated"
	GuessHit      GuessOutcome = "hit"
	GuessMiss     GuessOutcome = "miss"
	GuessWon      GuessOutcome = "won"
	GuessLost     GuessOutcome = "lost"
)

// Hangman is the per-card guessing machine nested inside one hangman round.
// An instance covers exactly one word; rounds never share guess state.
// Matching is case-insensitive. Characters that are not letters or digits
// (spaces, hyphens) start out revealed so multi-word entries stay winnable.
type Hangman struct {
	word      string
	guessed   map[rune]bool
	order     []rune
	remaining int
}

// NewHangman starts a round over the given word with the default wrong-guess
// budget.
func NewHangman(word string) *Hangman {
	h := &Hangman{
		word:      strings.TrimSpace(word),
		guessed:   make(map[rune]bool),
		remaining: DefaultHangmanAttempts,
	}
	for _, r := range h.word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			h.guessed[unicode.ToLower(r)] = true
		}
	}
	return h
}

// Guess processes one letter, case-insensitively. A repeated guess changes
// nothing. A miss spends one attempt and loses the round when the budget
// hits zero; a hit that completes the word wins it. Terminal rounds ignore
// further guesses and report their outcome.
func (h *Hangman) Guess(r rune) GuessOutcome {
	if h.Won() {
		return GuessWon
	}
	if h.Lost() {
		return GuessLost
	}

	c := unicode.ToLower(r)
	if h.guessed[c] {
		return GuessRepeated
	}

	h.guessed[c] = true
	h.order = append(h.order, c)

	if !h.contains(c) {
		h.remaining--
		if h.remaining <= 0 {
			return GuessLost
		}
		return GuessMiss
	}

	if h.solved() {
		return GuessWon
	}
	return GuessHit
}

// contains reports whether the folded word contains the folded letter.
func (h *Hangman) contains(c rune) bool {
	for _, r := range h.word {
		if unicode.ToLower(r) == c {
			return true
		}
	}
	return false
}

// solved reports whether every character of the word has been guessed.
func (h *Hangman) solved() bool {
	for _, r := range h.word {
		if !h.guessed[unicode.ToLower(r)] {
			return false
		}
	}
	return true
}

// Won reports whether the word was completed before the budget ran out.
func (h *Hangman) Won() bool {
	return h.remaining > 0 && h.solved()
}

// Lost reports whether the wrong-guess budget is exhausted.
func (h *Hangman) Lost() bool {
	return h.remaining <= 0
}

// Done reports whether the round reached a terminal outcome.
func (h *Hangman) Done() bool {
	return h.Won() || h.Lost()
}

// RemainingAttempts returns how many wrong guesses are left.
func (h *Hangman) RemainingAttempts() int {
	if h.remaining < 0 {
		return 0
	}
	return h.remaining
}

// Mask renders the word with unguessed characters hidden as underscores,
// preserving the original casing of revealed characters.
func (h *Hangman) Mask() string {
	var b strings.Builder
	for _, r := range h.word {
		if h.guessed[unicode.ToLower(r)] {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// GuessedLetters returns the guessed letters in guess order, folded to lower
// case.
func (h *Hangman) GuessedLetters() []string {
	letters := make([]string, len(h.order))
	for i, r := range h.order {
		letters[i] = string(r)
	}
	return letters
}

// Word returns the target word as given at construction.
func (h *Hangman) Word() string {
	return h.word
}
