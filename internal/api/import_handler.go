package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/importer"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
)

// maxImportBytes caps multipart import uploads.
const maxImportBytes = 32 << 20 // 32 MB

// ImportHandler handles bulk card import uploads.
type ImportHandler struct {
	importer *importer.Importer
	logger   *slog.Logger
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(imp *importer.Importer, logger *slog.Logger) *ImportHandler {
	// Validate inputs
	if imp == nil {
		panic("importer cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &ImportHandler{
		importer: imp,
		logger:   logger.With(slog.String("component", "import_handler")),
	}
}

// Import handles POST /api/import requests. The multipart form carries the
// workbook or CSV in "file" and optional target decks in repeated "deck_id"
// fields. Rows that collide with existing cards come back as duplicates for
// the client to resolve; they never abort the rest of the file.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close uploaded file", slog.String("error", err.Error()))
		}
	}()

	var deckIDs []uuid.UUID
	for _, raw := range r.MultipartForm.Value["deck_id"] {
		deckID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck_id value")
			return
		}
		deckIDs = append(deckIDs, deckID)
	}

	result, err := h.importer.Import(r.Context(), file, header.Filename, deckIDs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import file")
		return
	}

	log.Info("import finished",
		slog.String("filename", header.Filename),
		slog.Int("created", result.Created),
		slog.Int("duplicates", len(result.Duplicates)),
		slog.Int("errors", len(result.Errors)))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
