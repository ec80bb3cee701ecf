package textanalysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatledger/internal/adapters/httpclient"
	"threatledger/internal/ports"
)

func serve(t *testing.T, body string, check func(*http.Request)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{URL: srv.URL + "/analyze", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestAnalyzeText(t *testing.T) {
	c := serve(t, `{
		"ai_confidence_score": 0.82,
		"is_ai_generated": true,
		"toxicity_analysis": {"label": "toxic", "confidence_score": 0.75},
		"keywords": [{"term": "drone", "count": 3}, {"term": "attack", "count": 1}],
		"main_sentence": "Drones attack."
	}`, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, map[string]string{"text": "drones attack"}, req)
	})

	res, err := c.AnalyzeText(context.Background(), "drones attack")
	require.NoError(t, err)
	assert.Equal(t, ports.TextAnalysisResult{
		AIConfidenceScore: 0.82,
		IsAIGenerated:     true,
		Toxicity:          ports.Toxicity{Label: "toxic", ConfidenceScore: 0.75},
		Keywords:          []ports.Keyword{{Term: "drone", Count: 3}, {Term: "attack", Count: 1}},
		MainSentence:      "Drones attack.",
	}, res)
}

func TestAnalyzeTextEmptyKeywords(t *testing.T) {
	c := serve(t, `{"ai_confidence_score":0.1,"toxicity_analysis":{"label":"non-toxic","confidence_score":0.9},"keywords":[]}`, nil)
	res, err := c.AnalyzeText(context.Background(), "hi")
	require.NoError(t, err)
	assert.NotNil(t, res.Keywords)
	assert.Empty(t, res.Keywords)
}

func TestAnalyzeTextMalformed(t *testing.T) {
	cases := map[string]string{
		"missing score":    `{"toxicity_analysis":{"label":"toxic","confidence_score":0.9},"keywords":[]}`,
		"score over one":   `{"ai_confidence_score":1.5,"toxicity_analysis":{"label":"toxic","confidence_score":0.9},"keywords":[]}`,
		"missing toxicity": `{"ai_confidence_score":0.5,"keywords":[]}`,
		"missing keywords": `{"ai_confidence_score":0.5,"toxicity_analysis":{"label":"toxic","confidence_score":0.9}}`,
		"empty term":       `{"ai_confidence_score":0.5,"toxicity_analysis":{"label":"toxic","confidence_score":0.9},"keywords":[{"term":"","count":1}]}`,
		"not json":         `Internal Server Error`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := serve(t, body, nil).AnalyzeText(context.Background(), "x")
			assert.ErrorIs(t, err, httpclient.ErrMalformedResponse)
		})
	}
}

func TestAnalyzeTextUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c, err := NewClient(Config{URL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)

	_, err = c.AnalyzeText(context.Background(), "x")
	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
