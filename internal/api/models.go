package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/domain/duplicate"
	"github.com/flitskaart/flitskaart-api/internal/domain/quiz"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint. The API is
// single-user: one password unlocks it.
type LoginRequest struct {
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	Token string `json:"token"`
}

// DeckRequest defines the payload for creating or renaming a deck.
type DeckRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CardRequest defines the payload for creating or updating a card.
type CardRequest struct {
	Word           string      `json:"word"            validate:"required,min=1,max=200"`
	Definition     string      `json:"definition"      validate:"required,min=1,max=500"`
	Example        string      `json:"example"         validate:"max=500"`
	Article        string      `json:"article"         validate:"max=50"`
	Plural         string      `json:"plural"          validate:"max=200"`
	PastTense      string      `json:"past_tense"      validate:"max=200"`
	FutureTense    string      `json:"future_tense"    validate:"max=200"`
	PastParticiple string      `json:"past_participle" validate:"max=200"`
	DeckIDs        []uuid.UUID `json:"deck_ids"`
}

// toDraft converts the request to a domain draft. Trimming happens in the
// domain layer.
func (r CardRequest) toDraft() domain.CardDraft {
	return domain.CardDraft{
		Word:           r.Word,
		Definition:     r.Definition,
		Example:        r.Example,
		Article:        r.Article,
		Plural:         r.Plural,
		PastTense:      r.PastTense,
		FutureTense:    r.FutureTense,
		PastParticiple: r.PastParticiple,
		DeckIDs:        r.DeckIDs,
	}
}

// CardResponse represents the response data for a card. Media references
// stay server-side; clients get existence flags for their affordances.
type CardResponse struct {
	ID                 uuid.UUID   `json:"id"`
	Word               string      `json:"word"`
	Definition         string      `json:"definition"`
	Example            string      `json:"example,omitempty"`
	Article            string      `json:"article,omitempty"`
	Plural             string      `json:"plural,omitempty"`
	PastTense          string      `json:"past_tense,omitempty"`
	FutureTense        string      `json:"future_tense,omitempty"`
	PastParticiple     string      `json:"past_participle,omitempty"`
	DeckIDs            []uuid.UUID `json:"deck_ids"`
	SuccessCount       int         `json:"success_count"`
	Attempts           int         `json:"attempts"`
	LearningPercentage int         `json:"learning_percentage"`
	HasAudio           bool        `json:"has_audio"`
	HasImage           bool        `json:"has_image"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:                 card.ID,
		Word:               card.Word,
		Definition:         card.Definition,
		Example:            card.Example,
		Article:            card.Article,
		Plural:             card.Plural,
		PastTense:          card.PastTense,
		FutureTense:        card.FutureTense,
		PastParticiple:     card.PastParticiple,
		DeckIDs:            card.DeckIDs,
		SuccessCount:       card.SuccessCount,
		Attempts:           card.Attempts,
		LearningPercentage: card.LearningPercentage(),
		HasAudio:           card.AudioRef != "",
		HasImage:           card.ImageRef != "",
		CreatedAt:          card.CreatedAt,
		UpdatedAt:          card.UpdatedAt,
	}
}

// cardsToResponses converts a card slice, preserving order.
func cardsToResponses(cards []domain.Card) []CardResponse {
	responses := make([]CardResponse, len(cards))
	for i := range cards {
		responses[i] = cardToResponse(&cards[i])
	}
	return responses
}

// DuplicateConflictResponse is the 409 payload returned when a new card's
// word collides with an existing card. The comparison gives the client
// everything it needs to render a resolution dialog.
type DuplicateConflictResponse struct {
	Error      string               `json:"error"`
	TraceID    string               `json:"trace_id,omitempty"`
	Existing   CardResponse         `json:"existing"`
	Comparison duplicate.Comparison `json:"comparison"`
}

// ResolveRequest defines the payload for resolving a duplicate against an
// existing card.
type ResolveRequest struct {
	Action string                    `json:"action" validate:"required"`
	Fields duplicate.CandidateFields `json:"fields"`
}

// SessionRequest defines the payload for starting a quiz session. Cards are
// selected by explicit IDs, by decks, or the whole collection when both
// lists are empty.
type SessionRequest struct {
	Mode    string      `json:"mode" validate:"required"`
	DeckIDs []uuid.UUID `json:"deck_ids"`
	CardIDs []uuid.UUID `json:"card_ids"`
}

// SessionStateResponse is the wire form of a session snapshot.
type SessionStateResponse struct {
	ID         uuid.UUID       `json:"id"`
	Mode       quiz.Mode       `json:"mode"`
	Phase      quiz.Phase      `json:"phase"`
	Cards      int             `json:"cards"`
	Position   int             `json:"position"`
	Score      int             `json:"score"`
	Attempts   int             `json:"attempts"`
	Percentage int             `json:"percentage"`
	Card       *CardResponse   `json:"card,omitempty"`
	Round      *quiz.RoundInfo `json:"round,omitempty"`
}

// stateToResponse converts a service.SessionState to its wire form.
func stateToResponse(state *service.SessionState) SessionStateResponse {
	response := SessionStateResponse{
		ID:         state.ID,
		Mode:       state.Mode,
		Phase:      state.Phase,
		Cards:      state.Cards,
		Position:   state.Position,
		Score:      state.Score,
		Attempts:   state.Attempts,
		Percentage: state.Percentage,
		Round:      state.Round,
	}
	if state.Card != nil {
		card := cardToResponse(state.Card)
		response.Card = &card
	}
	return response
}

// AnswerRequest defines the payload for submitting an answer. An empty
// answer is allowed and grades as wrong (a skip).
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// AnswerResponse reports the grading verdict alongside the new session state.
type AnswerResponse struct {
	Correct bool                 `json:"correct"`
	State   SessionStateResponse `json:"state"`
}

// GuessRequest defines the payload for a hangman letter guess.
type GuessRequest struct {
	Letter string `json:"letter" validate:"required"`
}

// GuessResponse reports the guess outcome alongside the new session state.
type GuessResponse struct {
	Outcome quiz.GuessOutcome    `json:"outcome"`
	State   SessionStateResponse `json:"state"`
}

// TranslateSuggestRequest defines the payload for a definition suggestion.
type TranslateSuggestRequest struct {
	Text string `json:"text" validate:"required,min=1,max=200"`
	From string `json:"from" validate:"max=50"`
	To   string `json:"to"   validate:"max=50"`
}

// TranslateSuggestResponse carries the suggested translation. An empty
// suggestion means the translator is absent or failed; the client falls
// back to manual entry.
type TranslateSuggestResponse struct {
	Suggestion string `json:"suggestion"`
}
