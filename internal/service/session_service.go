package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/domain/quiz"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/store"
)

// SessionState is a read-only snapshot of a session, taken under the service
// lock so clients never observe a session mid-mutation.
type SessionState struct {
	ID         uuid.UUID       `json:"id"`
	Mode       quiz.Mode       `json:"mode"`
	Phase      quiz.Phase      `json:"phase"`
	Cards      int             `json:"cards"`
	Position   int             `json:"position"`
	Score      int             `json:"score"`
	Attempts   int             `json:"attempts"`
	Percentage int             `json:"percentage"`
	Card       *domain.Card    `json:"card,omitempty"`
	Round      *quiz.RoundInfo `json:"round,omitempty"`
}

// SessionService owns the registry of live quiz sessions and serializes all
// operations on them. Graded outcomes are fed back into the card store so
// mastery counters survive the session.
type SessionService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*quiz.Session
	cards    *CardService
	newRand  func() *rand.Rand
	logger   *slog.Logger
}

// NewSessionService creates a SessionService backed by the given card
// service. newRand produces the random source for each new session; nil
// defaults to time-seeded randomness. Tests inject seeded sources.
func NewSessionService(
	cards *CardService,
	newRand func() *rand.Rand,
	logger *slog.Logger,
) *SessionService {
	// Validate inputs
	if cards == nil {
		panic("cards cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}

	return &SessionService{
		sessions: make(map[uuid.UUID]*quiz.Session),
		cards:    cards,
		newRand:  newRand,
		logger:   logger.With(slog.String("component", "session_service")),
	}
}

// StartSession builds the card pool and registers a new session over it.
// Explicit card IDs win over deck IDs; with neither, the whole collection is
// studied. An empty pool yields a session in the empty phase rather than an
// error.
func (s *SessionService) StartSession(
	ctx context.Context,
	mode quiz.Mode,
	deckIDs []uuid.UUID,
	cardIDs []uuid.UUID,
) (*SessionState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		pool []domain.Card
		err  error
	)
	switch {
	case len(cardIDs) > 0:
		pool, err = s.cards.CardsByIDs(ctx, cardIDs)
	case len(deckIDs) > 0:
		pool, err = s.cards.CardsForDecks(ctx, deckIDs)
	default:
		pool = s.cards.AllCards(ctx)
	}
	if err != nil {
		return nil, err
	}

	sess, err := quiz.NewSession(mode, pool, s.newRand(), s.recordOutcome)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID()] = sess

	log.Info("quiz session started",
		slog.String("session_id", sess.ID().String()),
		slog.String("mode", string(mode)),
		slog.Int("cards", sess.Len()))
	return s.stateOf(sess), nil
}

// GetSession returns the current snapshot of a session.
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return s.stateOf(sess), nil
}

// Reveal moves a cover-first round into its answering phase.
func (s *SessionService) Reveal(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Reveal(); err != nil {
		return nil, err
	}
	return s.stateOf(sess), nil
}

// SubmitAnswer grades the candidate against the current card and reports the
// outcome alongside the new session state.
func (s *SessionService) SubmitAnswer(
	ctx context.Context,
	id uuid.UUID,
	answer string,
) (bool, *SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return false, nil, err
	}
	correct, err := sess.SubmitAnswer(answer)
	if err != nil {
		return false, nil, err
	}
	return correct, s.stateOf(sess), nil
}

// GuessLetter plays one hangman guess on the session.
func (s *SessionService) GuessLetter(
	ctx context.Context,
	id uuid.UUID,
	letter rune,
) (quiz.GuessOutcome, *SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return "", nil, err
	}
	outcome, err := sess.GuessLetter(letter)
	if err != nil {
		return "", nil, err
	}
	return outcome, s.stateOf(sess), nil
}

// Advance moves a graded session to the next card, or completes it.
func (s *SessionService) Advance(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Advance(); err != nil {
		return nil, err
	}
	return s.stateOf(sess), nil
}

// Reset restarts a session over a fresh shuffle of the same cards.
func (s *SessionService) Reset(ctx context.Context, id uuid.UUID) (*SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(); err != nil {
		return nil, err
	}
	return s.stateOf(sess), nil
}

// Summary reports a session's results.
func (s *SessionService) Summary(ctx context.Context, id uuid.UUID) (*quiz.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.find(id)
	if err != nil {
		return nil, err
	}
	summary := sess.Summary()
	return &summary, nil
}

// DeleteSession drops a session from the registry. Mastery already recorded
// stays recorded.
func (s *SessionService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("quiz session deleted", slog.String("session_id", id.String()))
	return nil
}

// find looks a session up in the registry. Callers hold the lock.
func (s *SessionService) find(id uuid.UUID) (*quiz.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// stateOf snapshots a session. Callers hold the lock. Hangman keeps its word
// secret while the round is live; the mask in the round info is the only
// reveal surface.
func (s *SessionService) stateOf(sess *quiz.Session) *SessionState {
	state := &SessionState{
		ID:         sess.ID(),
		Mode:       sess.Mode(),
		Phase:      sess.Phase(),
		Cards:      sess.Len(),
		Position:   sess.CurrentIndex(),
		Score:      sess.Score(),
		Attempts:   sess.Attempts(),
		Percentage: sess.Percentage(),
		Card:       sess.CurrentCard(),
		Round:      sess.CurrentRound(),
	}

	if state.Card != nil && sess.Mode() == quiz.ModeHangman && sess.Phase() != quiz.PhaseGraded {
		state.Card.Word = ""
	}
	return state
}

// recordOutcome feeds a graded card back into the store's mastery counters.
// It runs synchronously inside answer submissions but on a background
// context: mastery updates must not die with the submitting request. Cards
// deleted mid-session are tolerated.
func (s *SessionService) recordOutcome(cardID uuid.UUID, correct bool) {
	ctx := context.Background()

	var err error
	if correct {
		err = s.cards.RecordSuccess(ctx, cardID)
	} else {
		err = s.cards.RecordAttempt(ctx, cardID)
	}
	if err != nil {
		if store.IsNotFoundError(err) {
			s.logger.Debug("graded card no longer in store",
				slog.String("card_id", cardID.String()))
			return
		}
		s.logger.Warn("failed to record graded outcome",
			slog.String("card_id", cardID.String()),
			slog.Bool("correct", correct),
			slog.String("error", err.Error()))
	}
}
