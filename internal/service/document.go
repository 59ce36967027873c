package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/manualgrid/ingestd/internal/domain"
)

// pageSeparator joins cleaned page bodies before chunking.
const pageSeparator = "\n\n"

// DocumentRepository persists ingested documents.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
}

// ChunkRepository persists the chunks derived from a document.
type ChunkRepository interface {
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error
}

// VideoLinkWriter persists video links discovered during ingest.
type VideoLinkWriter interface {
	Create(ctx context.Context, link *domain.VideoLink) error
}

// EmbeddingClient defines the interface for generating chunk embeddings.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// DocumentService runs the ingest pipeline: header extraction, chunking,
// video link extraction, and persistence.
type DocumentService struct {
	docs     DocumentRepository
	chunks   ChunkRepository
	links    VideoLinkWriter
	embedder EmbeddingClient
	chunkCfg ChunkConfig
}

// NewDocumentService creates a DocumentService without embeddings.
func NewDocumentService(docs DocumentRepository, chunks ChunkRepository, links VideoLinkWriter, chunkCfg ChunkConfig) *DocumentService {
	return NewDocumentServiceWithEmbeddings(docs, chunks, links, nil, chunkCfg)
}

// NewDocumentServiceWithEmbeddings creates a DocumentService that embeds
// each persisted chunk when embedder is non-nil.
func NewDocumentServiceWithEmbeddings(
	docs DocumentRepository,
	chunks ChunkRepository,
	links VideoLinkWriter,
	embedder EmbeddingClient,
	chunkCfg ChunkConfig,
) *DocumentService {
	if chunkCfg.Size <= 0 {
		chunkCfg = DefaultChunkConfig()
	}
	return &DocumentService{
		docs:     docs,
		chunks:   chunks,
		links:    links,
		embedder: embedder,
		chunkCfg: chunkCfg,
	}
}

// IngestInput describes one document to ingest.
type IngestInput struct {
	DocumentID string
	Title      string
	SourceKey  string
	PageTexts  []string
}

// IngestResult summarizes one ingest run.
type IngestResult struct {
	Document   *domain.Document
	ChunkCount int
	LinkCount  int
}

// Ingest runs the full pipeline for one document: per-page header
// extraction, chunking of the cleaned text, chunk metadata (header, model
// identifiers, source page range), optional embeddings, and video link
// extraction.
func (s *DocumentService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if len(input.PageTexts) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	docID := input.DocumentID
	if docID == "" {
		docID = uuid.NewString()
	}

	pages := make([]domain.Page, len(input.PageTexts))
	cleaned := make([]string, len(input.PageTexts))
	for i, raw := range input.PageTexts {
		body, hdr := ExtractPageHeader(raw)
		pages[i] = domain.Page{
			Index:       i + 1,
			RawText:     raw,
			Header:      hdr.Text,
			HeaderLines: hdr.Lines,
			Models:      hdr.Models,
		}
		cleaned[i] = body
	}

	docHeader, docModels := documentHeader(pages)

	joined, pageEnds := joinPages(cleaned)
	contents := chunkText(joined, s.chunkCfg)

	now := time.Now().UTC()
	chunks := make([]domain.Chunk, 0, len(contents))
	offset := 0
	for i, content := range contents {
		start := offset
		end := offset + len(content)
		offset = end

		chunk := domain.Chunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			Index:      i,
			Content:    content,
			CharCount:  utf8.RuneCountInString(content),
			Header:     docHeader,
			Models:     docModels,
			PageStart:  pageForOffset(pageEnds, start),
			PageEnd:    pageForOffset(pageEnds, end-1),
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if s.embedder != nil {
			embedding, err := s.embedder.GenerateEmbedding(ctx, content)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
			}
			chunk.Embedding = embedding
		}

		chunks = append(chunks, chunk)
	}

	doc := &domain.Document{
		ID:        docID,
		Title:     input.Title,
		SourceKey: input.SourceKey,
		Header:    docHeader,
		Models:    docModels,
		PageCount: len(pages),
		CreatedAt: now,
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	if err := s.chunks.ReplaceChunks(ctx, docID, chunks); err != nil {
		return nil, fmt.Errorf("failed to persist chunks: %w", err)
	}

	links := ExtractVideoLinks(docID, pages)
	for _, link := range links {
		link.ID = uuid.NewString()
		link.CreatedAt = now
		if err := s.links.Create(ctx, link); err != nil {
			return nil, fmt.Errorf("failed to persist video link %s: %w", link.URL, err)
		}
	}

	return &IngestResult{
		Document:   doc,
		ChunkCount: len(chunks),
		LinkCount:  len(links),
	}, nil
}

// documentHeader picks the document-level header (first page that has one)
// and the union of model identifiers across pages.
func documentHeader(pages []domain.Page) (string, []string) {
	header := ""
	var models []string
	seen := make(map[string]struct{})

	for _, p := range pages {
		if header == "" && p.Header != "" {
			header = p.Header
		}
		for _, m := range p.Models {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			models = append(models, m)
		}
	}

	return header, models
}

// joinPages concatenates cleaned page bodies and records the end offset
// (exclusive, separator included) of each page within the joined text.
func joinPages(cleaned []string) (string, []int) {
	var b []byte
	ends := make([]int, len(cleaned))
	for i, body := range cleaned {
		b = append(b, body...)
		if i < len(cleaned)-1 {
			b = append(b, pageSeparator...)
		}
		ends[i] = len(b)
	}
	return string(b), ends
}

// pageForOffset returns the 1-based page ordinal containing the byte
// offset within the joined text.
func pageForOffset(pageEnds []int, offset int) int {
	for i, end := range pageEnds {
		if offset < end {
			return i + 1
		}
	}
	return len(pageEnds)
}
