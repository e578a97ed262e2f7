package deepface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the configuration for the DeepFace client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Model      string
	Detector   string
	RetryCount int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5005",
		Timeout:    30 * time.Second,
		Model:      "Facenet512",
		Detector:   "retinaface",
		RetryCount: 3,
	}
}

// Client is the HTTP client for the DeepFace /represent endpoint.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new DeepFace client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

// Represent calls POST /represent to generate face embeddings.
// Server-side failures are retried with exponential backoff (1s, 2s, 4s...);
// 4xx responses are not retried since the request itself is at fault.
func (c *Client) Represent(ctx context.Context, imageBase64 string) (*RepresentResponse, error) {
	payload, err := json.Marshal(RepresentRequest{
		Img:      imageBase64,
		Model:    c.config.Model,
		Detector: c.config.Detector,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal represent request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoffFor(attempt)):
			}
		}

		resp, retryable, err := c.represent(ctx, payload)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrDeepFaceUnavailable, lastErr)
}

func (c *Client) represent(ctx context.Context, payload []byte) (resp *RepresentResponse, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/represent", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		err := fmt.Errorf("deepface returned status %d: %s", httpResp.StatusCode, string(body))
		return nil, httpResp.StatusCode >= 500, err
	}

	var out RepresentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &out, false, nil
}

// maxBackoff caps the delay between retries.
const maxBackoff = 30 * time.Second

func backoffFor(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	d := time.Second << (attempt - 1)
	if d > maxBackoff || d <= 0 {
		return maxBackoff
	}
	return d
}
