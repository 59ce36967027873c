package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manualgrid/ingestd/internal/config"
	"github.com/manualgrid/ingestd/internal/database"
	"github.com/manualgrid/ingestd/internal/repository"
)

// EnrichCmd returns the enrich command
func EnrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Run one video enrichment sweep",
		Long:  "Fetch metadata for pending video links from the Brightcove API and exit",
		RunE:  runEnrich,
	}
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	linkRepo := repository.NewVideoLinkRepository(pool)
	svc, err := buildEnrichmentService(cfg, linkRepo)
	if err != nil {
		return err
	}

	report, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("enrichment run failed: %w", err)
	}

	if report.Skipped {
		fmt.Printf("skipped: %s\n", report.Reason)
		return nil
	}
	fmt.Printf("processed %d video links: %d enriched, %d failed\n",
		report.Processed, report.Enriched, report.Failed)
	return nil
}
