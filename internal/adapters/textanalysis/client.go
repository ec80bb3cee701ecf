package textanalysis

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"threatledger/internal/adapters/httpclient"
	"threatledger/internal/ports"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	// URL is the full analyze endpoint of the unified analysis service.
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	url  string
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("textanalysis: URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{url: cfg.URL, http: httpclient.New("text-analysis", cfg.HTTPClient, timeout, cfg.Logger)}, nil
}

type request struct {
	Text string `json:"text"`
}

type keyword struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type toxicity struct {
	Label           string   `json:"label"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

type response struct {
	AIConfidenceScore *float64   `json:"ai_confidence_score"`
	IsAIGenerated     bool       `json:"is_ai_generated"`
	Toxicity          *toxicity  `json:"toxicity_analysis"`
	MainSentence      string     `json:"main_sentence"`
	Keywords          *[]keyword `json:"keywords"`
}

func (c *Client) AnalyzeText(ctx context.Context, text string) (ports.TextAnalysisResult, error) {
	var resp response
	if err := c.http.DoJSON(ctx, http.MethodPost, c.url, request{Text: text}, &resp); err != nil {
		return ports.TextAnalysisResult{}, err
	}
	return resp.toResult(c.http.Service())
}

func (r response) toResult(service string) (ports.TextAnalysisResult, error) {
	switch {
	case r.AIConfidenceScore == nil:
		return ports.TextAnalysisResult{}, httpclient.Malformed(service, "missing ai_confidence_score")
	case !httpclient.ValidScore(*r.AIConfidenceScore):
		return ports.TextAnalysisResult{}, httpclient.Malformed(service, "ai_confidence_score %v out of range", *r.AIConfidenceScore)
	case r.Toxicity == nil || r.Toxicity.ConfidenceScore == nil:
		return ports.TextAnalysisResult{}, httpclient.Malformed(service, "missing toxicity_analysis")
	case r.Keywords == nil:
		return ports.TextAnalysisResult{}, httpclient.Malformed(service, "missing keywords")
	}

	keywords := make([]ports.Keyword, 0, len(*r.Keywords))
	for i, kw := range *r.Keywords {
		if kw.Term == "" {
			return ports.TextAnalysisResult{}, httpclient.Malformed(service, "keyword %d has no term", i)
		}
		keywords = append(keywords, ports.Keyword{Term: kw.Term, Count: kw.Count})
	}
	return ports.TextAnalysisResult{
		AIConfidenceScore: *r.AIConfidenceScore,
		IsAIGenerated:     r.IsAIGenerated,
		Toxicity:          ports.Toxicity{Label: r.Toxicity.Label, ConfidenceScore: *r.Toxicity.ConfidenceScore},
		Keywords:          keywords,
		MainSentence:      r.MainSentence,
	}, nil
}
