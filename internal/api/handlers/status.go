package handlers

import (
	"context"
	"net/http"

	"github.com/manualgrid/ingestd/internal/api"
)

// StatusCounters exposes the row counts the status endpoint reports.
type StatusCounters interface {
	DocumentCount(ctx context.Context) (int, error)
	ChunkCount(ctx context.Context) (int, error)
	PendingVideoLinkCount(ctx context.Context) (int, error)
}

type StatusHandler struct {
	counters          StatusCounters
	enrichmentEnabled bool
}

func NewStatusHandler(counters StatusCounters, enrichmentEnabled bool) *StatusHandler {
	return &StatusHandler{counters: counters, enrichmentEnabled: enrichmentEnabled}
}

type StatusResponse struct {
	Documents         int  `json:"documents"`
	Chunks            int  `json:"chunks"`
	PendingVideoLinks int  `json:"pending_video_links"`
	EnrichmentEnabled bool `json:"enrichment_enabled"`
}

// Get handles GET /v1/status
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documents, err := h.counters.DocumentCount(ctx)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	chunks, err := h.counters.ChunkCount(ctx)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	pending, err := h.counters.PendingVideoLinkCount(ctx)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, StatusResponse{
		Documents:         documents,
		Chunks:            chunks,
		PendingVideoLinks: pending,
		EnrichmentEnabled: h.enrichmentEnabled,
	})
}
