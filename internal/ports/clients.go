package ports

import "context"

// ContentStore uploads a local artifact and always removes it afterwards.
type ContentStore interface {
	Upload(ctx context.Context, localPath string) (url string, err error)
}

// TextAnalysisResult is the unified analysis service response.
type TextAnalysisResult struct {
	AIConfidenceScore float64
	IsAIGenerated     bool
	Toxicity          Toxicity
	Keywords          []Keyword
	MainSentence      string
}

type Toxicity struct {
	Label           string
	ConfidenceScore float64
}

type Keyword struct {
	Term  string
	Count int
}

type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (TextAnalysisResult, error)
}

// MediaAnalysisResult carries the genAI likelihood of a media URL.
type MediaAnalysisResult struct {
	AIScore float64
}

type MediaAnalyzer interface {
	AnalyzeMedia(ctx context.Context, mediaURL string) (MediaAnalysisResult, error)
}

// LedgerSubmission is the string-only argument set accepted by the ledger contract.
type LedgerSubmission struct {
	Text     string
	Entities string
}

type Ledger interface {
	Submit(ctx context.Context, sub LedgerSubmission) (txID string, err error)
}
