package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/manualgrid/ingestd/internal/domain"
)

// ChunkRepository persists document chunks and their embeddings.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx dbtx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// ReplaceChunks deletes existing chunks for a document and inserts new
// ones, so re-ingesting a document never leaves stale chunks behind.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	_, err := r.db.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return err
	}

	if len(chunks) == 0 {
		return nil
	}

	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		updatedAt := c.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = createdAt
		}
		var embedding any
		if len(c.Embedding) > 0 {
			embedding = pgvector.NewVector(c.Embedding)
		}
		_, err := r.db.Exec(ctx,
			`INSERT INTO document_chunks
				(id, document_id, chunk_index, content, char_count, header, models, page_start, page_end, embedding, created_at, updated_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			c.ID,
			c.DocumentID,
			c.Index,
			c.Content,
			c.CharCount,
			nullableString(c.Header),
			c.Models,
			c.PageStart,
			c.PageEnd,
			embedding,
			createdAt,
			updatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// UpdateEmbedding sets the embedding vector on a single chunk.
func (r *ChunkRepository) UpdateEmbedding(ctx context.Context, chunkID string, embedding []float32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE document_chunks SET embedding = $1, updated_at = $2 WHERE id = $3`,
		pgvector.NewVector(embedding), time.Now().UTC(), chunkID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ListByDocument returns a document's chunks in chunk order.
func (r *ChunkRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, document_id, chunk_index, content, char_count, header, models, page_start, page_end, created_at, updated_at
		 FROM document_chunks WHERE document_id = $1 ORDER BY chunk_index`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var header *string
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Index, &c.Content, &c.CharCount, &header, &c.Models, &c.PageStart, &c.PageEnd, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if header != nil {
			c.Header = *header
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count)
	return count, err
}
