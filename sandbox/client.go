package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/adaptix/adaptix/core"
)

// verdictOK is the judge's pass verdict; anything else fails the answer.
const verdictOK = "OK"

// ErrUnavailable marks a judge that could not produce a verdict after
// retries; the submission should be retried later, not failed.
var ErrUnavailable = errors.New("sandbox: judge unavailable")

// Client submits code to the judge. Safe for concurrent use.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	authToken string
}

// Option configures a Client.
type Option func(*Client)

// WithRetries overrides the retry count (default 3).
func WithRetries(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithTimeout overrides the per-attempt timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.HTTPClient.Timeout = d }
}

// WithRetryWait overrides the backoff bounds between attempts.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = min
		c.http.RetryWaitMax = max
	}
}

// New returns a Client for the judge at baseURL. The token goes out as a
// bearer Authorization header on every request.
func New(baseURL, authToken string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("sandbox: empty base URL")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	c := &Client{http: rc, baseURL: baseURL, authToken: authToken}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type runRequest struct {
	ProblemID string `json:"problem_id"`
	Code      string `json:"code"`
}

type runResponse struct {
	Verdict string `json:"verdict"`
}

// Run posts the code for judging and reports whether it passed.
func (c *Client) Run(ctx context.Context, problem *core.Problem, code string) (bool, error) {
	body, err := json.Marshal(runRequest{ProblemID: problem.ID, Code: code})
	if err != nil {
		return false, fmt.Errorf("sandbox: encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("sandbox: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return false, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	var verdict runResponse
	if err := json.Unmarshal(payload, &verdict); err != nil {
		return false, fmt.Errorf("sandbox: decode response: %w", err)
	}

	return verdict.Verdict == verdictOK, nil
}
