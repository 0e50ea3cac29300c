package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/flitskaart/flitskaart-api/internal/api/shared"
	"github.com/flitskaart/flitskaart-api/internal/platform/localmedia"
	"github.com/flitskaart/flitskaart-api/internal/platform/logger"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// maxClipBytes caps multipart clip uploads.
const maxClipBytes = 32 << 20 // 32 MB

// MediaHandler handles card audio and image clip requests. Clips are opaque
// bytes: the server stores and streams them, nothing more.
type MediaHandler struct {
	cardService *service.CardService
	logger      *slog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(cardService *service.CardService, logger *slog.Logger) *MediaHandler {
	// Validate inputs
	if cardService == nil {
		panic("cardService cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &MediaHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "media_handler")),
	}
}

// UploadAudio handles POST /api/cards/{id}/audio requests.
func (h *MediaHandler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, localmedia.KindAudio)
}

// GetAudio handles GET /api/cards/{id}/audio requests.
func (h *MediaHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, localmedia.KindAudio)
}

// DeleteAudio handles DELETE /api/cards/{id}/audio requests.
func (h *MediaHandler) DeleteAudio(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, localmedia.KindAudio)
}

// UploadImage handles POST /api/cards/{id}/image requests.
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, localmedia.KindImage)
}

// GetImage handles GET /api/cards/{id}/image requests.
func (h *MediaHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, localmedia.KindImage)
}

// DeleteImage handles DELETE /api/cards/{id}/image requests.
func (h *MediaHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, localmedia.KindImage)
}

// upload reads the clip from the multipart "file" field and attaches it to
// the card, replacing any previous clip of the same kind.
func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request, kind localmedia.Kind) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := r.ParseMultipartForm(maxClipBytes); err != nil {
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

	card, err := h.cardService.AttachMedia(r.Context(), cardID, kind, file)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to store clip")
		return
	}

	log.Debug("clip attached",
		slog.String("card_id", cardID.String()),
		slog.String("kind", string(kind)),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// serve streams the card's clip. The content type is sniffed from the clip
// bytes; no type metadata is stored.
func (h *MediaHandler) serve(w http.ResponseWriter, r *http.Request, kind localmedia.Kind) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	clip, err := h.cardService.OpenMedia(r.Context(), cardID, kind)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to open clip")
		return
	}
	defer func() {
		if err := clip.Close(); err != nil {
			log.Warn("failed to close clip", slog.String("error", err.Error()))
		}
	}()

	head := make([]byte, 512)
	n, err := io.ReadFull(clip, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		HandleAPIError(w, r, err, "Failed to read clip")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(head[:n]))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(head[:n]); err != nil {
		log.Debug("client went away during clip write", slog.String("error", err.Error()))
		return
	}
	if _, err := io.Copy(w, clip); err != nil {
		log.Debug("client went away during clip stream", slog.String("error", err.Error()))
	}
}

// remove deletes the card's clip of the given kind.
func (h *MediaHandler) remove(w http.ResponseWriter, r *http.Request, kind localmedia.Kind) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.cardService.RemoveMedia(r.Context(), cardID, kind); err != nil {
		HandleAPIError(w, r, err, "Failed to remove clip")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
