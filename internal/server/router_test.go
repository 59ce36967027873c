package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manualgrid/ingestd/internal/api/handlers"
	"github.com/manualgrid/ingestd/internal/service"
)

type MockStatusCounters struct {
	mock.Mock
}

func (m *MockStatusCounters) DocumentCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStatusCounters) ChunkCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStatusCounters) PendingVideoLinkCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockEnrichmentRunner struct {
	mock.Mock
}

func (m *MockEnrichmentRunner) Run(ctx context.Context) (service.EnrichmentReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.EnrichmentReport), args.Error(1)
}

func newTestRouter(counters *MockStatusCounters, runner *MockEnrichmentRunner) http.Handler {
	return NewRouter(RouterConfig{
		StatusHandler:     handlers.NewStatusHandler(counters, true),
		EnrichmentHandler: handlers.NewEnrichmentHandler(runner),
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(new(MockStatusCounters), new(MockEnrichmentRunner))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Status(t *testing.T) {
	counters := new(MockStatusCounters)
	counters.On("DocumentCount", mock.Anything).Return(4, nil)
	counters.On("ChunkCount", mock.Anything).Return(120, nil)
	counters.On("PendingVideoLinkCount", mock.Anything).Return(7, nil)

	router := newTestRouter(counters, new(MockEnrichmentRunner))

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data handlers.StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data.Documents)
	assert.Equal(t, 120, body.Data.Chunks)
	assert.Equal(t, 7, body.Data.PendingVideoLinks)
	assert.True(t, body.Data.EnrichmentEnabled)
}

func TestRouter_Status_CounterError(t *testing.T) {
	counters := new(MockStatusCounters)
	counters.On("DocumentCount", mock.Anything).Return(0, errors.New("connection refused"))

	router := newTestRouter(counters, new(MockEnrichmentRunner))

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_EnrichmentRun(t *testing.T) {
	runner := new(MockEnrichmentRunner)
	runner.On("Run", mock.Anything).Return(service.EnrichmentReport{Processed: 2, Enriched: 2}, nil)

	router := newTestRouter(new(MockStatusCounters), runner)

	req := httptest.NewRequest(http.MethodPost, "/v1/enrichment/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data handlers.EnrichmentRunResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Processed)
	assert.Equal(t, 2, body.Data.Enriched)
	assert.False(t, body.Data.Skipped)
	runner.AssertExpectations(t)
}

func TestRouter_EnrichmentRun_Skipped(t *testing.T) {
	runner := new(MockEnrichmentRunner)
	runner.On("Run", mock.Anything).Return(service.EnrichmentReport{Skipped: true, Reason: "missing credentials"}, nil)

	router := newTestRouter(new(MockStatusCounters), runner)

	req := httptest.NewRequest(http.MethodPost, "/v1/enrichment/run", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data handlers.EnrichmentRunResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Skipped)
	assert.Equal(t, "missing credentials", body.Data.Reason)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(new(MockStatusCounters), new(MockEnrichmentRunner))

	req := httptest.NewRequest(http.MethodDelete, "/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
