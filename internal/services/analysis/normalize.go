package analysis

import (
	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

// The toxic label entity is part of the observable record contract.
const (
	ToxicLabel      = "toxic"
	ToxicThreshold  = 0.7
	ToxicEntityName = "TOXIC CONTENT"
)

// NormalizeText maps a unified text analysis response into draft fields.
// InputKind and OriginalContent are left for the caller.
//
// Edges form a star rooted at the first keyword node. This is a
// visualization layout only; it does not claim any relationship between
// keywords.
func NormalizeText(res ports.TextAnalysisResult) domain.Draft {
	entities := make([]domain.ThreatEntity, 0, len(res.Keywords)+1)
	nodes := make([]domain.GraphNode, 0, len(res.Keywords))
	for i, kw := range res.Keywords {
		count := kw.Count
		entities = append(entities, domain.ThreatEntity{Name: kw.Term, Type: domain.EntityKeyword, Count: &count})
		nodes = append(nodes, domain.GraphNode{ID: i + 1, Label: kw.Term, Value: kw.Count})
	}

	edges := make([]domain.GraphEdge, 0)
	for i := 2; i <= len(nodes); i++ {
		edges = append(edges, domain.GraphEdge{From: 1, To: i})
	}

	if res.Toxicity.Label == ToxicLabel && res.Toxicity.ConfidenceScore > ToxicThreshold {
		score := res.Toxicity.ConfidenceScore
		toxic := domain.ThreatEntity{Name: ToxicEntityName, Type: domain.EntityLabel, Score: &score}
		entities = append([]domain.ThreatEntity{toxic}, entities...)
	}

	return domain.Draft{
		AIDetectionScore: res.AIConfidenceScore,
		ThreatEntities:   entities,
		ThreatGraph:      domain.ThreatGraph{Nodes: nodes, Edges: edges},
	}
}

// NormalizeMedia passes the media score through; media analysis yields no
// entities and an empty graph.
func NormalizeMedia(res ports.MediaAnalysisResult) domain.Draft {
	return domain.Draft{
		AIDetectionScore: res.AIScore,
		ThreatEntities:   []domain.ThreatEntity{},
		ThreatGraph:      domain.ThreatGraph{},
	}
}
