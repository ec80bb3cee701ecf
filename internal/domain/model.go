package domain

import (
	"encoding/json"
	"net/url"
	"time"
)

// InputKind is fixed when a record is created.
type InputKind string

const (
	InputText InputKind = "text"
	InputFile InputKind = "file"
)

func (k InputKind) Valid() bool { return k == InputText || k == InputFile }

// Entity types produced by normalization.
const (
	EntityKeyword = "KEYWORD"
	EntityLabel   = "LABEL"
)

// ThreatEntity is one display entry of a record. Keyword entities carry
// Count, synthesized label entities carry Score.
type ThreatEntity struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Count *int     `json:"count,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

type GraphNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

type GraphEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ThreatGraph serializes to {} when normalization produced no nodes.
type ThreatGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

func (g ThreatGraph) Empty() bool { return len(g.Nodes) == 0 && len(g.Edges) == 0 }

func (g ThreatGraph) MarshalJSON() ([]byte, error) {
	if g.Empty() {
		return []byte("{}"), nil
	}
	type graph ThreatGraph
	out := graph(g)
	if out.Nodes == nil {
		out.Nodes = []GraphNode{}
	}
	if out.Edges == nil {
		out.Edges = []GraphEdge{}
	}
	return json.Marshal(out)
}

// Draft is a complete analysis outcome that has not been persisted yet.
type Draft struct {
	InputKind        InputKind
	OriginalContent  string
	AIDetectionScore float64
	ThreatEntities   []ThreatEntity
	ThreatGraph      ThreatGraph
}

// Validate enforces the creation invariants shared by every store.
func (d Draft) Validate() error {
	if !d.InputKind.Valid() {
		return invalidDraft("unknown input kind %q", d.InputKind)
	}
	if d.OriginalContent == "" {
		return invalidDraft("original content is required")
	}
	if d.InputKind == InputFile {
		u, err := url.Parse(d.OriginalContent)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return invalidDraft("file content must be an absolute URL, got %q", d.OriginalContent)
		}
	}
	return nil
}

// Normalized returns a copy with nil entity slices replaced by empty ones so
// that stores never persist a null entity list.
func (d Draft) Normalized() Draft {
	if d.ThreatEntities == nil {
		d.ThreatEntities = []ThreatEntity{}
	}
	return d
}

type ThreatRecord struct {
	ID                      string         `json:"id"`
	InputKind               InputKind      `json:"inputKind"`
	OriginalContent         string         `json:"originalContent"`
	AIDetectionScore        float64        `json:"aiDetectionScore"`
	ThreatEntities          []ThreatEntity `json:"threatEntities"`
	ThreatGraph             ThreatGraph    `json:"threatGraph"`
	IsSharedOnChain         bool           `json:"isSharedOnChain"`
	BlockchainTransactionID *string        `json:"blockchainTransactionId"`
	CreatedAt               time.Time      `json:"createdAt"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

// Attested reports whether the record already went through the attest transition.
func (r ThreatRecord) Attested() bool {
	return r.IsSharedOnChain && r.BlockchainTransactionID != nil
}
