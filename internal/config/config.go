package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Chunking: target size in characters; the hard ceiling is always 2x.
	ChunkSize int `envconfig:"CHUNK_SIZE" default:"1500"`

	// Brightcove video enrichment
	BrightcoveEnabled        bool   `envconfig:"BRIGHTCOVE_ENABLED" default:"true"`
	BrightcoveAccountID      string `envconfig:"BRIGHTCOVE_ACCOUNT_ID"`
	BrightcoveClientID       string `envconfig:"BRIGHTCOVE_CLIENT_ID"`
	BrightcoveClientSecret   string `envconfig:"BRIGHTCOVE_CLIENT_SECRET"`
	BrightcoveTimeoutSeconds int    `envconfig:"BRIGHTCOVE_TIMEOUT_SECONDS" default:"30"`

	EnrichmentBatchSize           int     `envconfig:"ENRICHMENT_BATCH_SIZE" default:"10"`
	EnrichmentBatchDelaySeconds   float64 `envconfig:"ENRICHMENT_BATCH_DELAY_SECONDS" default:"1.0"`
	EnrichmentPollIntervalSeconds int     `envconfig:"ENRICHMENT_POLL_INTERVAL_SECONDS" default:"300"`

	// S3-compatible document source for `ingest --s3-key`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"ingestd-manuals"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("INGESTD", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// HasBrightcove reports whether all credentials required for enrichment
// are present. Enrichment runs are skipped without mutation when false.
func (c *Config) HasBrightcove() bool {
	return c.BrightcoveAccountID != "" && c.BrightcoveClientID != "" && c.BrightcoveClientSecret != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

// BrightcoveTimeout returns the per-call API timeout.
func (c *Config) BrightcoveTimeout() time.Duration {
	return time.Duration(c.BrightcoveTimeoutSeconds) * time.Second
}

// EnrichmentBatchDelay returns the fixed delay inserted between batches.
func (c *Config) EnrichmentBatchDelay() time.Duration {
	return time.Duration(c.EnrichmentBatchDelaySeconds * float64(time.Second))
}

// EnrichmentPollInterval returns how often the background worker runs.
func (c *Config) EnrichmentPollInterval() time.Duration {
	return time.Duration(c.EnrichmentPollIntervalSeconds) * time.Second
}
