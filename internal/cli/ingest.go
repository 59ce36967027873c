package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manualgrid/ingestd/internal/config"
	"github.com/manualgrid/ingestd/internal/database"
	"github.com/manualgrid/ingestd/internal/openai"
	"github.com/manualgrid/ingestd/internal/repository"
	"github.com/manualgrid/ingestd/internal/service"
	"github.com/manualgrid/ingestd/internal/storage"
)

// pageSeparator is the form feed PDF text extractors emit between pages.
const pageSeparator = "\f"

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a document into the chunk store",
		Long: `Ingest extracted document text: strip page headers, chunk the body,
extract video links and persist everything. Pages are separated by form
feed characters in the input.`,
		RunE: runIngest,
	}

	cmd.Flags().String("file", "", "Path to a local text file")
	cmd.Flags().String("s3-key", "", "Object key to read from the configured S3 bucket")
	cmd.Flags().String("title", "", "Document title (defaults to the file name)")
	cmd.Flags().String("id", "", "Document ID (generated when omitted)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	filePath, _ := cmd.Flags().GetString("file")
	s3Key, _ := cmd.Flags().GetString("s3-key")
	title, _ := cmd.Flags().GetString("title")
	documentID, _ := cmd.Flags().GetString("id")

	if (filePath == "") == (s3Key == "") {
		return fmt.Errorf("exactly one of --file or --s3-key is required")
	}

	var text, sourceKey string
	switch {
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		text = string(data)
		sourceKey = filePath
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		}
	default:
		if !cfg.HasS3() {
			return fmt.Errorf("--s3-key requires S3 configuration (INGESTD_S3_ENDPOINT)")
		}
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		text, err = s3Client.GetText(ctx, s3Key)
		if err != nil {
			return err
		}
		sourceKey = s3Key
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(s3Key), filepath.Ext(s3Key))
		}
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	docRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	linkRepo := repository.NewVideoLinkRepository(pool)

	chunkCfg := service.ChunkConfig{Size: cfg.ChunkSize}

	var svc *service.DocumentService
	if cfg.HasOpenAI() {
		embedder := openai.NewClient(cfg.OpenAIAPIKey)
		svc = service.NewDocumentServiceWithEmbeddings(docRepo, chunkRepo, linkRepo, embedder, chunkCfg)
		log.Println("embedding enabled")
	} else {
		svc = service.NewDocumentService(docRepo, chunkRepo, linkRepo, chunkCfg)
	}

	result, err := svc.Ingest(ctx, service.IngestInput{
		DocumentID: documentID,
		Title:      title,
		SourceKey:  sourceKey,
		PageTexts:  strings.Split(text, pageSeparator),
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	fmt.Printf("document %s ingested: %d pages, %d chunks, %d video links\n",
		result.Document.ID, result.Document.PageCount, result.ChunkCount, result.LinkCount)
	return nil
}
