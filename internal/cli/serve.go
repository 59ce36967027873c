// Package cli implements the ingestd commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/manualgrid/ingestd/internal/api/handlers"
	"github.com/manualgrid/ingestd/internal/brightcove"
	"github.com/manualgrid/ingestd/internal/config"
	"github.com/manualgrid/ingestd/internal/database"
	"github.com/manualgrid/ingestd/internal/domain"
	"github.com/manualgrid/ingestd/internal/jobs"
	"github.com/manualgrid/ingestd/internal/repository"
	"github.com/manualgrid/ingestd/internal/server"
	"github.com/manualgrid/ingestd/internal/service"
	"github.com/manualgrid/ingestd/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and enrichment worker",
		Long:  "Start the ingestd API server and the background video enrichment worker",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-worker", false, "Disable the background enrichment worker")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without error reporting): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	docRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	linkRepo := repository.NewVideoLinkRepository(pool)

	enrichmentSvc, err := buildEnrichmentService(cfg, linkRepo)
	if err != nil {
		return err
	}

	var enrichmentWorker *jobs.Worker
	noWorker, _ := cmd.Flags().GetBool("no-worker")
	if !noWorker && cfg.BrightcoveEnabled {
		processor := jobs.NewEnrichmentProcessor(enrichmentSvc)
		enrichmentWorker = jobs.NewWorker(processor, cfg.EnrichmentPollInterval())
		go enrichmentWorker.Start(ctx)
		log.Println("enrichment worker started")
	}

	router := server.NewRouter(server.RouterConfig{
		StatusHandler: handlers.NewStatusHandler(
			&repositoryCounters{docs: docRepo, chunks: chunkRepo, links: linkRepo},
			cfg.BrightcoveEnabled && cfg.HasBrightcove(),
		),
		EnrichmentHandler: handlers.NewEnrichmentHandler(enrichmentSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if enrichmentWorker != nil {
		enrichmentWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// buildEnrichmentService wires the Brightcove client into the enrichment
// service. Without credentials the service is still constructed so that
// runs skip cleanly instead of failing.
func buildEnrichmentService(cfg *config.Config, linkRepo *repository.VideoLinkRepository) (*service.EnrichmentService, error) {
	enrichmentCfg := service.EnrichmentConfig{
		Enabled:        cfg.BrightcoveEnabled,
		HasCredentials: cfg.HasBrightcove(),
		BatchSize:      cfg.EnrichmentBatchSize,
		BatchDelay:     cfg.EnrichmentBatchDelay(),
	}

	var metadataClient service.VideoMetadataClient
	if cfg.HasBrightcove() {
		client, err := brightcove.NewClient(brightcove.Config{
			AccountID:    cfg.BrightcoveAccountID,
			ClientID:     cfg.BrightcoveClientID,
			ClientSecret: cfg.BrightcoveClientSecret,
			Timeout:      cfg.BrightcoveTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create brightcove client: %w", err)
		}
		metadataClient = &BrightcoveMetadataAdapter{client: client}
	}

	return service.NewEnrichmentService(linkRepo, metadataClient, enrichmentCfg), nil
}

// BrightcoveMetadataAdapter adapts the Brightcove client to the enrichment
// service's metadata interface.
type BrightcoveMetadataAdapter struct {
	client *brightcove.Client
}

func (a *BrightcoveMetadataAdapter) Authenticate(ctx context.Context) error {
	return a.client.Authenticate(ctx)
}

func (a *BrightcoveMetadataAdapter) GetVideoMetadata(ctx context.Context, videoID string) (*domain.VideoMetadata, error) {
	video, err := a.client.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &domain.VideoMetadata{
		VideoID:      video.ID,
		Title:        video.Name,
		Description:  video.Description,
		DurationMS:   video.Duration,
		State:        video.State,
		ThumbnailURL: video.Images.Thumbnail.Src,
		Tags:         video.Tags,
	}, nil
}

type repositoryCounters struct {
	docs   *repository.DocumentRepository
	chunks *repository.ChunkRepository
	links  *repository.VideoLinkRepository
}

func (c *repositoryCounters) DocumentCount(ctx context.Context) (int, error) {
	return c.docs.Count(ctx)
}

func (c *repositoryCounters) ChunkCount(ctx context.Context) (int, error) {
	return c.chunks.Count(ctx)
}

func (c *repositoryCounters) PendingVideoLinkCount(ctx context.Context) (int, error) {
	return c.links.CountPending(ctx)
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else {
		log.Printf("migrations: database at version %d", version)
	}

	return nil
}
