package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/manualgrid/ingestd/internal/domain"
)

// DocumentRepository persists ingested documents.
type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, title, source_key, header, models, page_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title,
		   source_key = EXCLUDED.source_key,
		   header = EXCLUDED.header,
		   models = EXCLUDED.models,
		   page_count = EXCLUDED.page_count`,
		d.ID, d.Title, nullableString(d.SourceKey), nullableString(d.Header), d.Models, d.PageCount, createdAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var d domain.Document
	var sourceKey, header *string
	err := r.db.QueryRow(ctx,
		`SELECT id, title, source_key, header, models, page_count, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Title, &sourceKey, &header, &d.Models, &d.PageCount, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	if sourceKey != nil {
		d.SourceKey = *sourceKey
	}
	if header != nil {
		d.Header = *header
	}
	return &d, nil
}

func (r *DocumentRepository) List(ctx context.Context, limit int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, title, source_key, header, models, page_count, created_at
		 FROM documents ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.Document
	for rows.Next() {
		var d domain.Document
		var sourceKey, header *string
		if err := rows.Scan(&d.ID, &d.Title, &sourceKey, &header, &d.Models, &d.PageCount, &d.CreatedAt); err != nil {
			return nil, err
		}
		if sourceKey != nil {
			d.SourceKey = *sourceKey
		}
		if header != nil {
			d.Header = *header
		}
		results = append(results, &d)
	}
	return results, rows.Err()
}

func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
