package shared

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	Name  string `json:"name"  validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"huis","count":3}`))

		var target decodeTarget
		require.NoError(t, DecodeJSON(req, &target))
		assert.Equal(t, "huis", target.Name)
		assert.Equal(t, 3, target.Count)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":`))

		var target decodeTarget
		assert.Error(t, DecodeJSON(req, &target))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("struct tags", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateRequest(decodeTarget{Name: "huis"}))
		assert.Error(t, ValidateRequest(decodeTarget{}))
	})

	t.Run("self-validating type wins", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("custom validation failed")
		assert.NoError(t, ValidateRequest(selfValidating{}))
		assert.ErrorIs(t, ValidateRequest(selfValidating{err: sentinel}), sentinel)
	})
}
