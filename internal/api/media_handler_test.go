package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flitskaart/flitskaart-api/internal/domain"
)

// wavBytes is a minimal RIFF/WAVE header, enough for content sniffing.
var wavBytes = []byte("RIFF\x24\x00\x00\x00WAVEfmt ")

// pngBytes is the PNG signature followed by filler.
var pngBytes = []byte("\x89PNG\r\n\x1a\nfiller")

// uploadClip drives one of the upload handlers with a multipart body.
func uploadClip(
	t *testing.T,
	handle http.HandlerFunc,
	cardID uuid.UUID,
	filename string,
	content []byte,
) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, filename, content, nil)
	req := httptest.NewRequest("POST", "/api/cards/"+cardID.String()+"/audio", body)
	req.Header.Set("Content-Type", contentType)
	req = withURLParam(req, "id", cardID.String())
	recorder := httptest.NewRecorder()
	handle(recorder, req)
	return recorder
}

func TestNewMediaHandlerValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Panics(t, func() {
		NewMediaHandler(nil, nil)
	})
}

func TestUploadAndServeAudio(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	recorder := uploadClip(t, handler.UploadAudio, created.ID, "huis.wav", wavBytes)
	require.Equal(t, http.StatusCreated, recorder.Code, "body: %s", recorder.Body.String())

	var resp CardResponse
	decodeBody(t, recorder.Body, &resp)
	assert.True(t, resp.HasAudio)
	assert.False(t, resp.HasImage)

	req := httptest.NewRequest("GET", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.GetAudio(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, wavBytes, recorder.Body.Bytes())
	assert.Equal(t, "audio/wave", recorder.Header().Get("Content-Type"))
}

func TestUploadAndServeImage(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "kat", Definition: "cat"})

	recorder := uploadClip(t, handler.UploadImage, created.ID, "kat.png", pngBytes)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CardResponse
	decodeBody(t, recorder.Body, &resp)
	assert.True(t, resp.HasImage)

	req := httptest.NewRequest("GET", "/api/cards/"+created.ID.String()+"/image", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.GetImage(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, pngBytes, recorder.Body.Bytes())
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
}

func TestUploadReplacesPreviousClip(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	recorder := uploadClip(t, handler.UploadAudio, created.ID, "first.wav", wavBytes)
	require.Equal(t, http.StatusCreated, recorder.Code)

	second := []byte("RIFF\x10\x00\x00\x00WAVEdata")
	recorder = uploadClip(t, handler.UploadAudio, created.ID, "second.wav", second)
	require.Equal(t, http.StatusCreated, recorder.Code)

	req := httptest.NewRequest("GET", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.GetAudio(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, second, recorder.Body.Bytes())
}

func TestUploadMissingFileField(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	body, contentType := multipartBody(t, "", nil, nil)
	req := httptest.NewRequest("POST", "/api/cards/"+created.ID.String()+"/audio", body)
	req.Header.Set("Content-Type", contentType)
	req = withURLParam(req, "id", created.ID.String())
	recorder := httptest.NewRecorder()
	handler.UploadAudio(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "file")
}

func TestUploadUnknownCard(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	recorder := uploadClip(t, handler.UploadAudio, uuid.New(), "huis.wav", wavBytes)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestServeWithoutClip(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	req := httptest.NewRequest("GET", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder := httptest.NewRecorder()
	handler.GetAudio(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "No media attached")
}

func TestDeleteAudio(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	recorder := uploadClip(t, handler.UploadAudio, created.ID, "huis.wav", wavBytes)
	require.Equal(t, http.StatusCreated, recorder.Code)

	req := httptest.NewRequest("DELETE", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.DeleteAudio(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)

	refreshed, err := cards.GetCard(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, refreshed.AudioRef)

	// The clip is gone with the reference.
	req = httptest.NewRequest("GET", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.GetAudio(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteClipTwice(t *testing.T) {
	t.Parallel() // Enable parallel execution

	cards, _ := newTestServices(t)
	handler := NewMediaHandler(cards, nil)

	created := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	recorder := uploadClip(t, handler.UploadAudio, created.ID, "huis.wav", wavBytes)
	require.Equal(t, http.StatusCreated, recorder.Code)

	req := httptest.NewRequest("DELETE", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.DeleteAudio(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	req = httptest.NewRequest("DELETE", "/api/cards/"+created.ID.String()+"/audio", nil)
	req = withURLParam(req, "id", created.ID.String())
	recorder = httptest.NewRecorder()
	handler.DeleteAudio(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
