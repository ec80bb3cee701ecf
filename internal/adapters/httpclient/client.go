// Package httpclient is the shared JSON transport of the upstream service
// clients. It performs exactly one request per call and never retries.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 1 << 20

// ErrMalformedResponse marks a 2xx response whose body does not have the
// expected structure.
var ErrMalformedResponse = errors.New("malformed upstream response")

// APIError is a non-2xx upstream response.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Service, e.StatusCode, e.Body)
}

// Malformed wraps a structural problem in a response from service.
func Malformed(service, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", service, ErrMalformedResponse, fmt.Sprintf(format, args...))
}

type Client struct {
	service    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New returns a client named after the upstream service. A zero timeout
// leaves the deadline to the caller's context and the remote side.
func New(service string, httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	hc := *httpClient
	if timeout > 0 {
		hc.Timeout = timeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{service: service, httpClient: &hc, logger: logger}
}

func (c *Client) Service() string { return c.service }

// DoJSON sends in (when non-nil) as a JSON body and decodes a 2xx JSON
// response into out.
func (c *Client) DoJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", c.service, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.service, err)
	}
	c.logger.DebugContext(ctx, "upstream call", "service", c.service, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(data)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return &APIError{Service: c.service, StatusCode: resp.StatusCode, Body: snippet}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return Malformed(c.service, "decode body: %v", err)
	}
	return nil
}

// ValidScore reports whether a probability-like score is usable.
func ValidScore(v float64) bool { return v >= 0 && v <= 1 }
