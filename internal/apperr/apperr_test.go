package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{New(ErrPermissionDenied, "hours"), http.StatusForbidden},
		{New(ErrUnauthorized, "admin"), http.StatusForbidden},
		{New(ErrStoreUnavailable, "db"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestMessage(t *testing.T) {
	t.Run("Safe message", func(t *testing.T) {
		assert.Equal(t, "hq is required", Message(InvalidInput("hq is required")))
	})

	t.Run("Kind only", func(t *testing.T) {
		assert.Equal(t, "not found", Message(&Error{Kind: ErrNotFound}))
	})

	t.Run("Raw error is hidden", func(t *testing.T) {
		assert.Equal(t, "Internal server error", Message(errors.New("pq: relation crossref does not exist")))
	})

	t.Run("errors.Is through wrapper", func(t *testing.T) {
		err := fmt.Errorf("ctx: %w", New(ErrStoreUnavailable, "Failed to fetch"))
		assert.True(t, errors.Is(err, ErrStoreUnavailable))
		assert.Equal(t, "Failed to fetch", Message(err))
	})
}
