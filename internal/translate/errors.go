package translate

import "errors"

// Common errors returned by the translate package
var (
	// ErrTranslationFailed is returned when a suggestion fails for any general reason
	ErrTranslationFailed = errors.New("failed to translate text")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during translation")

	// ErrInvalidConfig is returned when the translator configuration is invalid
	ErrInvalidConfig = errors.New("invalid translator configuration")
)
