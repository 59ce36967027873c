// Package brightcove is a minimal client for the Brightcove OAuth and CMS
// APIs: client-credentials token acquisition plus per-video metadata reads
// with bounded rate-limit retries.
package brightcove

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DefaultTokenURL is the Brightcove OAuth token endpoint.
	DefaultTokenURL = "https://oauth.brightcove.com/v4/access_token"
	// DefaultAPIBase is the Brightcove CMS API base URL.
	DefaultAPIBase = "https://cms.api.brightcove.com/v1"
	// DefaultTimeout is the per-call HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// maxRateLimitRetries bounds 429 retries for a single video within a
	// run; delays are retryBase, 2x, 4x, 8x unless Retry-After says
	// otherwise.
	maxRateLimitRetries = 4
	defaultRetryBase    = time.Second
)

var (
	// ErrNoCredentials is returned when the client is constructed without
	// a complete credential set.
	ErrNoCredentials = errors.New("brightcove: account id, client id and client secret are required")
	// ErrNotAuthenticated is returned when a fetch is attempted before
	// Authenticate has succeeded.
	ErrNotAuthenticated = errors.New("brightcove: not authenticated")
)

// Config holds Brightcove client configuration.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string

	// TokenURL and APIBase default to the public Brightcove endpoints;
	// tests point them at a local server.
	TokenURL string
	APIBase  string

	Timeout time.Duration
	// RetryBase is the initial 429 backoff delay. Defaults to one second.
	RetryBase time.Duration
}

// Video is the subset of the CMS video object this service consumes.
type Video struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    int64    `json:"duration"`
	State       string   `json:"state"`
	Tags        []string `json:"tags"`
	Images      struct {
		Thumbnail struct {
			Src string `json:"src"`
		} `json:"thumbnail"`
	} `json:"images"`
}

// APIError is a non-2xx response from the CMS API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("brightcove: api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("brightcove: api returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Brightcove APIs for one account.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

// NewClient creates a Client. Credentials are validated here so that a
// misconfigured deployment fails at wiring time, not mid-run.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccountID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNoCredentials
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = defaultRetryBase
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Authenticate obtains an access token via the OAuth2 client-credentials
// grant. Called once per run; a failure here means no video fetch is
// attempted.
func (c *Client) Authenticate(ctx context.Context) error {
	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := cc.Token(ctx)
	if err != nil {
		return fmt.Errorf("brightcove: token request failed: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// GetVideo fetches one video's metadata by its Brightcove video ID. HTTP
// 429 responses are retried with exponential backoff (base, 2x, 4x, 8x),
// honoring a Retry-After header when present; retries are capped, after
// which the rate-limit response is returned as an APIError like any other
// failure.
func (c *Client) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == nil {
		return nil, ErrNotAuthenticated
	}

	url := fmt.Sprintf("%s/accounts/%s/videos/%s", c.cfg.APIBase, c.cfg.AccountID, videoID)

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("brightcove: failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("brightcove: request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			var video Video
			err := json.NewDecoder(resp.Body).Decode(&video)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("brightcove: failed to decode video %s: %w", videoID, err)
			}
			return &video, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRateLimitRetries {
			delay := c.cfg.RetryBase << attempt
			if ra := retryAfter(resp); ra > 0 {
				delay = ra
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
}

// retryAfter parses a Retry-After header as either delay seconds or an
// HTTP date. Returns 0 when absent or unparseable.
func retryAfter(resp *http.Response) time.Duration {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		return time.Until(at)
	}
	return 0
}
