// Package openai wraps the OpenAI embeddings API behind a small interface
// so chunk embedding can be mocked in tests.
package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the model used to embed document chunks.
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions matches the vector column width in the
	// document_chunks table.
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when the input text is empty.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when the API responds with a vector
	// of an unexpected width.
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// EmbeddingAPI is the upstream call this client depends on.
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// Client generates fixed-width embeddings for chunk text.
type Client struct {
	api        EmbeddingAPI
	dimensions int
}

type apiAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func (a *apiAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	return resp.Data[0].Embedding, nil
}

// Config configures the embedding client.
type Config struct {
	APIKey              string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
}

// NewClient creates a Client with default model and dimensions.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a Client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	model := cfg.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{
		api:        &apiAdapter{client: openai.NewClient(cfg.APIKey), model: model},
		dimensions: dimensions,
	}
}

// GenerateEmbedding embeds one chunk of text, validating the vector width
// before it reaches the database.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(embedding) != c.dimensions {
		return nil, ErrWrongDimensions
	}
	return embedding, nil
}
