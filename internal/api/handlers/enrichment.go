package handlers

import (
	"context"
	"net/http"

	"github.com/manualgrid/ingestd/internal/api"
	"github.com/manualgrid/ingestd/internal/service"
)

// EnrichmentRunner triggers one enrichment sweep on demand.
type EnrichmentRunner interface {
	Run(ctx context.Context) (service.EnrichmentReport, error)
}

type EnrichmentHandler struct {
	runner EnrichmentRunner
}

func NewEnrichmentHandler(runner EnrichmentRunner) *EnrichmentHandler {
	return &EnrichmentHandler{runner: runner}
}

type EnrichmentRunResponse struct {
	Skipped   bool   `json:"skipped"`
	Reason    string `json:"reason,omitempty"`
	Processed int    `json:"processed"`
	Enriched  int    `json:"enriched"`
	Failed    int    `json:"failed"`
}

// Run handles POST /v1/enrichment/run
func (h *EnrichmentHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Run(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, EnrichmentRunResponse{
		Skipped:   report.Skipped,
		Reason:    report.Reason,
		Processed: report.Processed,
		Enriched:  report.Enriched,
		Failed:    report.Failed,
	})
}
