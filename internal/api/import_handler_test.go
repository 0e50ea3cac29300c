package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/importer"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// workbookBytes renders rows into an in-memory .xlsx file.
func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() {
		require.NoError(t, f.Close())
	}()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// newImportHandler wires an import handler over a fresh service stack.
func newImportHandler(t *testing.T) (*ImportHandler, *service.CardService) {
	t.Helper()

	cards, _ := newTestServices(t)
	return NewImportHandler(importer.New(cards, nil), nil), cards
}

// postImport drives the handler with a multipart upload.
func postImport(
	t *testing.T,
	handler *ImportHandler,
	filename string,
	content []byte,
	values url.Values,
) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, filename, content, values)
	req := httptest.NewRequest("POST", "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	handler.Import(recorder, req)
	return recorder
}

func TestNewImportHandlerValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	assert.Panics(t, func() {
		NewImportHandler(nil, nil)
	})
}

func TestImportWorkbook(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, cards := newImportHandler(t)

	content := workbookBytes(t, [][]interface{}{
		{"word", "definition", "example"},
		{"huis", "house", "Ik woon in een huis."},
		{"fiets", "bicycle"},
	})

	recorder := postImport(t, handler, "woorden.xlsx", content, nil)
	require.Equal(t, http.StatusOK, recorder.Code, "body: %s", recorder.Body.String())

	var result importer.Result
	decodeBody(t, recorder.Body, &result)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Duplicates)
	assert.Empty(t, result.Errors)

	assert.Len(t, cards.AllCards(context.Background()), 2)
}

func TestImportCSV(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, cards := newImportHandler(t)

	csv := []byte("huis,house\nfiets,bicycle,\"Ik ga met de fiets.\"\n")
	recorder := postImport(t, handler, "woorden.csv", csv, nil)
	require.Equal(t, http.StatusOK, recorder.Code, "body: %s", recorder.Body.String())

	var result importer.Result
	decodeBody(t, recorder.Body, &result)
	assert.Equal(t, 2, result.Created)

	assert.Len(t, cards.AllCards(context.Background()), 2)
}

func TestImportIntoDeck(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, cards := newImportHandler(t)

	deck, err := cards.CreateDeck(context.Background(), "Nederlands")
	require.NoError(t, err)

	content := workbookBytes(t, [][]interface{}{
		{"huis", "house"},
	})
	recorder := postImport(t, handler, "woorden.xlsx", content,
		url.Values{"deck_id": []string{deck.ID.String()}})
	require.Equal(t, http.StatusOK, recorder.Code)

	imported, err := cards.DeckCards(context.Background(), deck.ID)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "huis", imported[0].Word)
}

func TestImportReportsDuplicates(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, cards := newImportHandler(t)

	existing := mustCreateCard(t, cards, domain.CardDraft{Word: "huis", Definition: "house"})

	content := workbookBytes(t, [][]interface{}{
		{"huis", "home, residence", "", "het", "huizen"},
		{"fiets", "bicycle"},
	})
	recorder := postImport(t, handler, "woorden.xlsx", content, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var result importer.Result
	decodeBody(t, recorder.Body, &result)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, 1, result.Duplicates[0].Row)
	assert.Equal(t, "huis", result.Duplicates[0].Word)
	assert.Equal(t, existing.ID, result.Duplicates[0].Existing.ID)
	assert.True(t, result.Duplicates[0].Comparison.HasMoreInformation)

	// The colliding row was not inserted.
	assert.Len(t, cards.AllCards(context.Background()), 2)
}

func TestImportUnsupportedFormat(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, _ := newImportHandler(t)

	recorder := postImport(t, handler, "woorden.pdf", []byte("%PDF-1.4"), nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Unsupported import file format")
}

func TestImportMissingFile(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, _ := newImportHandler(t)

	body, contentType := multipartBody(t, "", nil, nil)
	req := httptest.NewRequest("POST", "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()
	handler.Import(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "file")
}

func TestImportBadDeckID(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, _ := newImportHandler(t)

	content := workbookBytes(t, [][]interface{}{
		{"huis", "house"},
	})
	recorder := postImport(t, handler, "woorden.xlsx", content,
		url.Values{"deck_id": []string{"not-a-uuid"}})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid deck_id value")
}

func TestImportUnknownDeck(t *testing.T) {
	t.Parallel() // Enable parallel execution

	handler, cards := newImportHandler(t)

	content := workbookBytes(t, [][]interface{}{
		{"huis", "house"},
	})
	recorder := postImport(t, handler, "woorden.xlsx", content,
		url.Values{"deck_id": []string{"00000000-0000-0000-0000-0000000000aa"}})

	// Unknown decks surface as per-row errors, not an aborted import.
	require.Equal(t, http.StatusOK, recorder.Code)

	var result importer.Result
	decodeBody(t, recorder.Body, &result)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "row 1")

	assert.Empty(t, cards.AllCards(context.Background()))
}
