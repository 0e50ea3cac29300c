package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/flitskaart/flitskaart-api/internal/card"
	"github.com/flitskaart/flitskaart-api/internal/domain"
	"github.com/flitskaart/flitskaart-api/internal/mocks"
	"github.com/flitskaart/flitskaart-api/internal/platform/localmedia"
	"github.com/flitskaart/flitskaart-api/internal/service"
)

// newTestServices builds the real service stack over an in-memory snapshot
// store and a temp media directory. Session randomness is seeded so card
// order is reproducible.
func newTestServices(t *testing.T) (*service.CardService, *service.SessionService) {
	t.Helper()

	cardStore, err := card.NewStore(context.Background(), mocks.NewMockSnapshotStore(), nil)
	require.NoError(t, err)

	media, err := localmedia.New(t.TempDir(), nil)
	require.NoError(t, err)

	cards := service.NewCardService(cardStore, media, nil)
	sessions := service.NewSessionService(cards, func() *rand.Rand {
		return rand.New(rand.NewSource(42))
	}, nil)

	return cards, sessions
}

// mustCreateCard inserts a card through the service, failing the test on
// error or duplicate.
func mustCreateCard(t *testing.T, cards *service.CardService, draft domain.CardDraft) *domain.Card {
	t.Helper()

	created, dup, err := cards.AddCard(context.Background(), draft)
	require.NoError(t, err)
	require.Nil(t, dup, "unexpected duplicate for word %q", draft.Word)
	return created
}

// jsonBody marshals v into a request body buffer.
func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()

	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(payload)
}

// stringBody wraps a raw payload, useful for malformed JSON cases.
func stringBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

// multipartBody builds a multipart body carrying the given form values and,
// when filename is non-empty, a "file" part with the content bytes. Returns
// the body and its Content-Type header value.
func multipartBody(
	t *testing.T,
	filename string,
	content []byte,
	values url.Values,
) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, vals := range values {
		for _, val := range vals {
			require.NoError(t, writer.WriteField(key, val))
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

// withURLParam injects a chi path parameter into the request context, the
// way the router would during dispatch.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes the recorder body into target.
func decodeBody(t *testing.T, body *bytes.Buffer, target interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(body).Decode(target))
}
