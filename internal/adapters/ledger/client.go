// Package ledger submits threat attestations to the intelligence sharing
// service that fronts the on-chain contract.
//
// Wire contract of POST <URL>:
//
//	request  {"text": string, "entities": string}
//	response {"transaction_hash": string, "threat_id": int, "status": string}
//
// entities is the JSON array of threat entities encoded into a string,
// because the contract's logThreat function takes string arguments only.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"threatledger/internal/adapters/httpclient"
	"threatledger/internal/ports"
)

type Config struct {
	// URL is the share endpoint, e.g. http://ledger:8000/share.
	URL        string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	url  string
	http *httpclient.Client
}

// NewClient sets no client-side timeout; the ledger service bounds its own
// confirmation wait and cancellation comes from the caller's context.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("ledger: URL is required")
	}
	return &Client{url: cfg.URL, http: httpclient.New("ledger", cfg.HTTPClient, 0, cfg.Logger)}, nil
}

type shareRequest struct {
	Text     string `json:"text"`
	Entities string `json:"entities"`
}

type shareResponse struct {
	TransactionHash string `json:"transaction_hash"`
	ThreatID        *int64 `json:"threat_id"`
	Status          string `json:"status"`
}

// Submit returns the transaction hash reported by the ledger service. An
// empty hash is returned as-is; callers decide whether it is usable.
func (c *Client) Submit(ctx context.Context, sub ports.LedgerSubmission) (string, error) {
	var resp shareResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, c.url, shareRequest{Text: sub.Text, Entities: sub.Entities}, &resp); err != nil {
		return "", err
	}
	return resp.TransactionHash, nil
}
