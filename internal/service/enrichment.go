package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/manualgrid/ingestd/internal/domain"
)

// VideoLinkRepository is the persistence surface used by the synchronizer.
// MarkEnriched and MarkFailed each write only the record's four mutable
// fields (needs_enrichment, enrichment_error, enriched_at, metadata).
type VideoLinkRepository interface {
	ListPending(ctx context.Context, limit int) ([]*domain.VideoLink, error)
	MarkEnriched(ctx context.Context, id string, metadata map[string]any, enrichedAt time.Time) error
	MarkFailed(ctx context.Context, id string, message string) error
}

// VideoMetadataClient talks to the external video API. Authenticate is
// called once per run before any record is touched; GetVideoMetadata
// handles per-call rate-limit retries internally.
type VideoMetadataClient interface {
	Authenticate(ctx context.Context) error
	GetVideoMetadata(ctx context.Context, videoID string) (*domain.VideoMetadata, error)
}

// EnrichmentConfig controls a synchronizer instance. It is passed in at
// construction so runs are reproducible under test with mock credentials.
type EnrichmentConfig struct {
	Enabled        bool
	HasCredentials bool
	BatchSize      int
	RunLimit       int
	BatchDelay     time.Duration
}

const (
	defaultBatchSize = 10
	defaultRunLimit  = 500
)

// EnrichmentReport summarizes one synchronizer run.
type EnrichmentReport struct {
	Skipped   bool
	Reason    string
	Processed int
	Enriched  int
	Failed    int
}

// EnrichmentService processes video links flagged needs_enrichment in
// batches, fetching metadata from the external API and persisting the
// outcome per record. Re-running over an already-enriched record is a
// no-op because such records are excluded from the working set.
type EnrichmentService struct {
	repo    VideoLinkRepository
	client  VideoMetadataClient
	cfg     EnrichmentConfig
	limiter *rate.Limiter
	now     func() time.Time
}

// NewEnrichmentService creates an EnrichmentService.
func NewEnrichmentService(repo VideoLinkRepository, client VideoMetadataClient, cfg EnrichmentConfig) *EnrichmentService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.RunLimit <= 0 {
		cfg.RunLimit = defaultRunLimit
	}

	limit := rate.Inf
	if cfg.BatchDelay > 0 {
		limit = rate.Every(cfg.BatchDelay)
	}

	return &EnrichmentService{
		repo:    repo,
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// Run executes one synchronizer pass. With missing credentials the run is
// skipped without touching any record. A token acquisition failure aborts
// the run before any record is modified. Per-record fetch failures are
// recorded on the individual link and never abort the batch.
func (s *EnrichmentService) Run(ctx context.Context) (EnrichmentReport, error) {
	if !s.cfg.Enabled {
		return EnrichmentReport{Skipped: true, Reason: "enrichment disabled"}, nil
	}
	if !s.cfg.HasCredentials {
		log.Printf("enrichment: skipping run: %v", domain.ErrMissingCredentials)
		return EnrichmentReport{Skipped: true, Reason: "missing credentials"}, nil
	}

	links, err := s.repo.ListPending(ctx, s.cfg.RunLimit)
	if err != nil {
		return EnrichmentReport{}, fmt.Errorf("failed to list pending video links: %w", err)
	}

	var report EnrichmentReport
	if len(links) == 0 {
		return report, nil
	}

	if err := s.client.Authenticate(ctx); err != nil {
		return report, domain.NewDomainErrorWithCause(domain.ErrCodeAuthentication, "enrichment run aborted", err)
	}

	log.Printf("enrichment: processing %d pending video links in batches of %d", len(links), s.cfg.BatchSize)

	for start := 0; start < len(links); start += s.cfg.BatchSize {
		// Fixed inter-batch delay to respect global rate limits; the
		// first batch goes through immediately.
		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		end := start + s.cfg.BatchSize
		if end > len(links) {
			end = len(links)
		}
		for _, link := range links[start:end] {
			s.processLink(ctx, link, &report)
		}
	}

	log.Printf("enrichment: run complete (processed=%d enriched=%d failed=%d)",
		report.Processed, report.Enriched, report.Failed)

	return report, nil
}

func (s *EnrichmentService) processLink(ctx context.Context, link *domain.VideoLink, report *EnrichmentReport) {
	report.Processed++

	videoID := link.ResolveVideoID()
	if videoID == "" {
		s.fail(ctx, link, domain.ErrMissingVideoID.Error(), report)
		return
	}

	meta, err := s.client.GetVideoMetadata(ctx, videoID)
	if err != nil {
		s.fail(ctx, link, err.Error(), report)
		return
	}

	if err := s.repo.MarkEnriched(ctx, link.ID, meta.Map(), s.now().UTC()); err != nil {
		log.Printf("enrichment: failed to persist metadata for link %s: %v", link.ID, err)
		report.Failed++
		return
	}
	report.Enriched++
}

// fail records the error on the link; the needs_enrichment flag stays set
// so the record is retried on a future run.
func (s *EnrichmentService) fail(ctx context.Context, link *domain.VideoLink, message string, report *EnrichmentReport) {
	log.Printf("enrichment: link %s failed: %s", link.ID, message)
	if err := s.repo.MarkFailed(ctx, link.ID, message); err != nil {
		log.Printf("enrichment: failed to record error for link %s: %v", link.ID, err)
	}
	report.Failed++
}
