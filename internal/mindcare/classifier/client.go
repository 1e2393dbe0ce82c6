// Package classifier talks to the text analysis service that scores journal
// entries for mood and risk.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	DefaultTimeout    = 5 * time.Second
	DefaultRetries    = 2
	DefaultRetryDelay = 200 * time.Millisecond

	maxResponseBytes = 64 << 10
)

var ErrUnavailable = errors.New("classifier: unavailable")

// Result is the analysis returned by POST /analyze_text.
type Result struct {
	Label              string  `json:"label"`
	SuicidalScore      float64 `json:"suicidal_score"`
	SupportRecommended bool    `json:"support_recommended"`
	Message            string  `json:"message,omitempty"`
	ConfidenceLevel    string  `json:"confidence_level,omitempty"`
	Status             string  `json:"status,omitempty"`
}

type Client struct {
	baseURL    string
	http       *http.Client
	retries    uint64
	retryDelay time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets how many times a transient failure is retried and the
// initial exponential backoff delay.
func WithRetry(retries uint64, delay time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.retryDelay = delay
	}
}

// New returns a client for the service at baseURL. timeout bounds each
// individual attempt.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		retries:    DefaultRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify analyses text. Network errors and 5xx responses are retried with
// exponential backoff, anything else fails immediately.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Result{}, err
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryDelay))

	var out Result
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := c.post(ctx, body)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	out.Label = strings.ToUpper(strings.TrimSpace(out.Label))
	return out, nil
}

func (c *Client) post(ctx context.Context, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze_text", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, retry.RetryableError(fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Result{}, retry.RetryableError(fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return Result{}, fmt.Errorf("classifier: unexpected status %d", resp.StatusCode)
	}

	var res Result
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("classifier: decode response: %w", err)
	}
	if res.SuicidalScore < 0 || res.SuicidalScore > 1 {
		return Result{}, fmt.Errorf("classifier: score %v out of range", res.SuicidalScore)
	}
	return res, nil
}
