package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manualgrid/ingestd/internal/domain"
)

// VideoLinkRepository persists video links and their enrichment state.
type VideoLinkRepository struct {
	db dbtx
}

func NewVideoLinkRepository(pool *pgxpool.Pool) *VideoLinkRepository {
	return &VideoLinkRepository{db: pool}
}

func NewVideoLinkRepositoryWithTx(tx pgx.Tx) *VideoLinkRepository {
	return &VideoLinkRepository{db: tx}
}

func (r *VideoLinkRepository) Create(ctx context.Context, link *domain.VideoLink) error {
	createdAt := link.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO video_links (id, document_id, url, video_id, needs_enrichment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (document_id, url) DO NOTHING`,
		link.ID, link.DocumentID, link.URL, nullableString(link.VideoID), link.NeedsEnrichment, createdAt,
	)
	return err
}

func (r *VideoLinkRepository) GetByID(ctx context.Context, id string) (*domain.VideoLink, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, document_id, url, video_id, needs_enrichment, enrichment_error, enriched_at, metadata, created_at
		 FROM video_links WHERE id = $1`,
		id,
	)
	link, err := scanVideoLink(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVideoLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

// ListPending returns links still waiting for enrichment, oldest first.
func (r *VideoLinkRepository) ListPending(ctx context.Context, limit int) ([]*domain.VideoLink, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, url, video_id, needs_enrichment, enrichment_error, enriched_at, metadata, created_at
		 FROM video_links
		 WHERE needs_enrichment ORDER BY created_at LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.VideoLink
	for rows.Next() {
		link, err := scanVideoLink(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, link)
	}
	return results, rows.Err()
}

// MarkEnriched stores fetched metadata and clears the pending flag and any
// previous error.
func (r *VideoLinkRepository) MarkEnriched(ctx context.Context, id string, metadata map[string]any, enrichedAt time.Time) error {
	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode video metadata: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE video_links
		 SET needs_enrichment = FALSE, enrichment_error = NULL, metadata = $1, enriched_at = $2
		 WHERE id = $3`,
		payload, enrichedAt, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrVideoLinkNotFound
	}
	return nil
}

// MarkFailed records the failure message. The pending flag stays set so
// the link is retried on a future run.
func (r *VideoLinkRepository) MarkFailed(ctx context.Context, id string, message string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE video_links
		 SET enrichment_error = $1
		 WHERE id = $2`,
		message, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrVideoLinkNotFound
	}
	return nil
}

func (r *VideoLinkRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM video_links WHERE needs_enrichment`).Scan(&count)
	return count, err
}

func scanVideoLink(row pgx.Row) (*domain.VideoLink, error) {
	var link domain.VideoLink
	var videoID, enrichmentError *string
	var metadata []byte
	err := row.Scan(
		&link.ID, &link.DocumentID, &link.URL, &videoID,
		&link.NeedsEnrichment, &enrichmentError, &link.EnrichedAt, &metadata, &link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if videoID != nil {
		link.VideoID = *videoID
	}
	if enrichmentError != nil {
		link.EnrichmentError = *enrichmentError
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &link.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode video metadata: %w", err)
		}
	}
	return &link, nil
}
