package service

import (
	"context"
	"log/slog"

	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/translate"
)

// TranslateService suggests definitions for new cards. Translation is an
// optional enrichment: an unconfigured or failing translator degrades to an
// empty suggestion and never to an error the caller has to handle.
type TranslateService struct {
	translator translate.Translator
	logger     *slog.Logger
}

// NewTranslateService creates a TranslateService. A nil translator is valid
// and means the feature is unconfigured; every suggestion is then empty.
func NewTranslateService(translator translate.Translator, logger *slog.Logger) *TranslateService {
	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &TranslateService{
		translator: translator,
		logger:     logger.With(slog.String("component", "translate_service")),
	}
}

// Suggest returns a definition suggestion for the request, or the empty
// string when no translator is configured or the translation fails. Failures
// are logged, not returned.
func (s *TranslateService) Suggest(ctx context.Context, req translate.Request) string {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.translator == nil {
		log.Debug("translator not configured, returning empty suggestion")
		return ""
	}

	suggestion, err := s.translator.Translate(ctx, req)
	if err != nil {
		log.Warn("translation failed, returning empty suggestion",
			slog.String("error", err.Error()))
		return ""
	}
	return suggestion
}
