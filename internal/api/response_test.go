package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manualgrid/ingestd/internal/domain"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]interface{}{"status": "ok"}, body.Data)
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad input")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad input", body.Error)
}

func TestDomainErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", domain.ErrEmptyDocument, http.StatusBadRequest},
		{"not found", domain.ErrDocumentNotFound, http.StatusNotFound},
		{"configuration", domain.ErrMissingCredentials, http.StatusServiceUnavailable},
		{"authentication", domain.ErrTokenAcquisition, http.StatusBadGateway},
		{"rate limited", domain.NewDomainError(domain.ErrCodeRateLimited, "slow down"), http.StatusTooManyRequests},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped domain error", domain.NewDomainErrorWithCause(domain.ErrCodeNotFound, "missing", errors.New("no rows")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainErrorToHTTP(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, domain.ErrVideoLinkNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "video link not found")
}
