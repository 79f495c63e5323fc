package predict

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPath is the prediction route appended to the base URL.
const DefaultPath = "/predict"

const maxResponseBytes = 1 << 20

var ErrInvalidBaseURL = errors.New("invalid prediction base url")

// StatusError reports a non-success HTTP status from the prediction endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("prediction endpoint returned status %d", e.Code)
}

// Predictor is implemented by anything that turns a JSON payload into an estimate.
type Predictor interface {
	Predict(ctx context.Context, payload []byte) (Estimate, error)
}

// Options configures a Client. A zero Timeout means no timeout.
type Options struct {
	BaseURL    string
	Path       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client posts form payloads to a prediction endpoint
type Client struct {
	base     string
	endpoint string
	client   *http.Client
}

// New returns a client for {BaseURL}{Path}.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}

	path := opts.Path
	if path == "" {
		path = DefaultPath
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	base := strings.TrimRight(u.String(), "/")
	return &Client{
		base:     base,
		endpoint: base + "/" + strings.TrimLeft(path, "/"),
		client:   httpClient,
	}, nil
}

// Endpoint is the full prediction URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Predict sends one POST with the payload as body. There are no retries.
func (c *Client) Predict(ctx context.Context, payload []byte) (Estimate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Estimate{}, fmt.Errorf("build prediction request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return Estimate{}, fmt.Errorf("to get a response from prediction endpoint: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return Estimate{}, fmt.Errorf("read prediction response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Estimate{}, &StatusError{Code: res.StatusCode, Body: snippet(body)}
	}

	est, err := ParseEstimate(body)
	if err != nil {
		return Estimate{}, fmt.Errorf("to decode prediction: %w", err)
	}
	return est, nil
}

// Health checks that the service root answers with a success status.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("to reach prediction service: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Code: res.StatusCode}
	}
	return nil
}

func snippet(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit])
	}
	return string(body)
}
