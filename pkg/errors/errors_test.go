package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "p-1")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "p-1")
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("size must be positive")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("search engine not initialized")

	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, cause))
}

func TestWrap_PreservesIdentity(t *testing.T) {
	err := Wrap(ErrNotFound, "lookup product")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "lookup product")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Unavailable("down"), http.StatusServiceUnavailable},
		{"wrapped sentinel", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
