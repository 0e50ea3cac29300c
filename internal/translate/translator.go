package translate

import "context"

// Request describes a single suggestion lookup: the text to translate and
// the language pair, as BCP 47 tags ("nl", "en").
type Request struct {
	Text string
	From string
	To   string
}

// Translator defines the interface for suggesting translations of a word or
// phrase. This interface serves as a boundary between the application core
// and external AI/LLM services.
type Translator interface {
	// Translate returns the suggested translation for the request text.
	// It returns an error if the lookup fails for any reason (see errors.go
	// for specific types); callers degrade silently on failure.
	Translate(ctx context.Context, req Request) (string, error)
}
