package domain

import "time"

// Page is the raw text of a single document page, plus whatever header
// boilerplate was detected at its top.
type Page struct {
	Index       int
	RawText     string
	Header      string
	HeaderLines []string
	Models      []string
}

// Document represents one ingested manual.
type Document struct {
	ID        string
	Title     string
	SourceKey string
	Header    string
	Models    []string
	PageCount int
	CreatedAt time.Time
}

// Chunk is a bounded, contiguous span of header-free document text used as
// a retrieval unit. Content is an exact substring of the cleaned document
// text, so concatenating a document's chunks in order reconstructs it.
type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Content    string
	CharCount  int
	Header     string
	Models     []string
	PageStart  int
	PageEnd    int
	Embedding  []float32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
