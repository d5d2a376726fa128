package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	appErr := NewAppError("INPUT_ERROR", "file not found", ErrInvalidInput)
	assert.ErrorIs(t, appErr, ErrInvalidInput)
	assert.Contains(t, appErr.Error(), "INPUT_ERROR")
	assert.Contains(t, appErr.Error(), "file not found")
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "stage"))
	assert.EqualError(t, WrapError(errors.New("boom"), "stage"), "stage: boom")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"wrapped invalid input", NewAppError("INPUT_ERROR", "bad ext", ErrInvalidInput), http.StatusBadRequest},
		{"not found", fmt.Errorf("lookup: %w", ErrNotFound), http.StatusNotFound},
		{"ocr failure", fmt.Errorf("%w: tesseract exited 1", ErrOCRFailed), http.StatusInternalServerError},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
