package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/manualgrid/ingestd/internal/service"
)

// EnrichmentRunner is the slice of the enrichment service the worker needs.
type EnrichmentRunner interface {
	Run(ctx context.Context) (service.EnrichmentReport, error)
}

// EnrichmentProcessor adapts the enrichment service to the JobProcessor
// interface so the generic Worker can drive periodic sweeps.
type EnrichmentProcessor struct {
	runner EnrichmentRunner
}

// NewEnrichmentProcessor creates an EnrichmentProcessor.
func NewEnrichmentProcessor(runner EnrichmentRunner) *EnrichmentProcessor {
	return &EnrichmentProcessor{runner: runner}
}

// ProcessJobs runs one enrichment sweep.
func (p *EnrichmentProcessor) ProcessJobs(ctx context.Context) error {
	report, err := p.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("enrichment sweep failed: %w", err)
	}

	if report.Skipped {
		log.Printf("Enrichment sweep skipped: %s", report.Reason)
		return nil
	}
	if report.Processed > 0 {
		log.Printf("Enrichment sweep: processed=%d enriched=%d failed=%d",
			report.Processed, report.Enriched, report.Failed)
	}
	return nil
}
