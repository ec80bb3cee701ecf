// Package mediaanalysis calls the Sightengine genAI model for an uploaded
// media URL.
package mediaanalysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"threatledger/internal/adapters/httpclient"
	"threatledger/internal/ports"
)

const (
	DefaultURL     = "https://api.sightengine.com/1.0/check.json"
	DefaultTimeout = 20 * time.Second
	model          = "genai"
)

type Config struct {
	URL        string
	APIUser    string
	APISecret  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	endpoint  *url.URL
	apiUser   string
	apiSecret string
	http      *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	raw := cfg.URL
	if raw == "" {
		raw = DefaultURL
	}
	endpoint, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if cfg.APIUser == "" || cfg.APISecret == "" {
		return nil, errors.New("mediaanalysis: API user and secret are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:  endpoint,
		apiUser:   cfg.APIUser,
		apiSecret: cfg.APISecret,
		http:      httpclient.New("media-analysis", cfg.HTTPClient, timeout, cfg.Logger),
	}, nil
}

type apiFailure struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// response accepts both the genai.score shape and the current
// type.ai_generated shape of the check endpoint.
type response struct {
	Status string      `json:"status"`
	Error  *apiFailure `json:"error"`
	GenAI  *struct {
		Score *float64 `json:"score"`
	} `json:"genai"`
	Type *struct {
		AIGenerated *float64 `json:"ai_generated"`
	} `json:"type"`
}

func (c *Client) AnalyzeMedia(ctx context.Context, mediaURL string) (ports.MediaAnalysisResult, error) {
	u := *c.endpoint
	q := u.Query()
	q.Set("url", mediaURL)
	q.Set("models", model)
	q.Set("api_user", c.apiUser)
	q.Set("api_secret", c.apiSecret)
	u.RawQuery = q.Encode()

	var resp response
	if err := c.http.DoJSON(ctx, http.MethodGet, u.String(), nil, &resp); err != nil {
		return ports.MediaAnalysisResult{}, err
	}
	return resp.toResult(c.http.Service())
}

func (r response) toResult(service string) (ports.MediaAnalysisResult, error) {
	if r.Status != "success" {
		if r.Error != nil {
			return ports.MediaAnalysisResult{}, fmt.Errorf("%s: %s: %s", service, r.Error.Type, r.Error.Message)
		}
		return ports.MediaAnalysisResult{}, httpclient.Malformed(service, "status %q", r.Status)
	}

	var score *float64
	switch {
	case r.GenAI != nil && r.GenAI.Score != nil:
		score = r.GenAI.Score
	case r.Type != nil && r.Type.AIGenerated != nil:
		score = r.Type.AIGenerated
	default:
		return ports.MediaAnalysisResult{}, httpclient.Malformed(service, "missing genai score")
	}
	if !httpclient.ValidScore(*score) {
		return ports.MediaAnalysisResult{}, httpclient.Malformed(service, "genai score %v out of range", *score)
	}
	return ports.MediaAnalysisResult{AIScore: *score}, nil
}
