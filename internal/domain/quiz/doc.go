// Package quiz implements the mode-parameterized study session engine: one
// state machine drives every quiz mode (study, test, true/false, spelling,
// look-cover-check, hangman, battle) over an ordered card subset, grading
// answers, keeping score, and producing an end-of-session summary.
//
// Sessions are not safe for concurrent use; callers serialize access. All
// randomness (shuffling, distractor sampling, true/false statement picking)
// flows through an injected *rand.Rand so tests stay deterministic.
package quiz
