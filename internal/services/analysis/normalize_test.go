package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatledger/internal/domain"
	"threatledger/internal/ports"
)

func entityNames(es []domain.ThreatEntity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name)
	}
	return out
}

func TestNormalizeTextToxicThreshold(t *testing.T) {
	base := ports.TextAnalysisResult{
		AIConfidenceScore: 0.4,
		Keywords:          []ports.Keyword{{Term: "drone", Count: 3}, {Term: "attack", Count: 1}},
	}

	toxic := base
	toxic.Toxicity = ports.Toxicity{Label: "toxic", ConfidenceScore: 0.75}
	d := NormalizeText(toxic)
	assert.Equal(t, []string{"TOXIC CONTENT", "drone", "attack"}, entityNames(d.ThreatEntities))
	require.NotNil(t, d.ThreatEntities[0].Score)
	assert.Equal(t, 0.75, *d.ThreatEntities[0].Score)
	assert.Equal(t, domain.EntityLabel, d.ThreatEntities[0].Type)
	assert.Nil(t, d.ThreatEntities[0].Count)

	atThreshold := base
	atThreshold.Toxicity = ports.Toxicity{Label: "toxic", ConfidenceScore: 0.70}
	assert.Equal(t, []string{"drone", "attack"}, entityNames(NormalizeText(atThreshold).ThreatEntities))

	otherLabel := base
	otherLabel.Toxicity = ports.Toxicity{Label: "non-toxic", ConfidenceScore: 0.99}
	assert.Equal(t, []string{"drone", "attack"}, entityNames(NormalizeText(otherLabel).ThreatEntities))
}

func TestNormalizeTextKeywordEntities(t *testing.T) {
	d := NormalizeText(ports.TextAnalysisResult{
		AIConfidenceScore: 0.91,
		Keywords:          []ports.Keyword{{Term: "drone", Count: 3}},
	})
	assert.Equal(t, 0.91, d.AIDetectionScore)
	require.Len(t, d.ThreatEntities, 1)
	e := d.ThreatEntities[0]
	assert.Equal(t, "drone", e.Name)
	assert.Equal(t, domain.EntityKeyword, e.Type)
	require.NotNil(t, e.Count)
	assert.Equal(t, 3, *e.Count)
	assert.Nil(t, e.Score)
	assert.Empty(t, d.InputKind)
	assert.Empty(t, d.OriginalContent)
}

func TestNormalizeTextStarTopology(t *testing.T) {
	d := NormalizeText(ports.TextAnalysisResult{Keywords: []ports.Keyword{
		{Term: "drone", Count: 3}, {Term: "attack", Count: 2}, {Term: "border", Count: 1},
	}})
	assert.Equal(t, []domain.GraphNode{
		{ID: 1, Label: "drone", Value: 3},
		{ID: 2, Label: "attack", Value: 2},
		{ID: 3, Label: "border", Value: 1},
	}, d.ThreatGraph.Nodes)
	assert.Equal(t, []domain.GraphEdge{{From: 1, To: 2}, {From: 1, To: 3}}, d.ThreatGraph.Edges)

	one := NormalizeText(ports.TextAnalysisResult{Keywords: []ports.Keyword{{Term: "drone", Count: 1}}})
	require.NotNil(t, one.ThreatGraph.Edges)
	assert.Empty(t, one.ThreatGraph.Edges)
	assert.Len(t, one.ThreatGraph.Nodes, 1)
}

func TestNormalizeTextNoKeywords(t *testing.T) {
	d := NormalizeText(ports.TextAnalysisResult{Toxicity: ports.Toxicity{Label: "toxic", ConfidenceScore: 0.9}})
	assert.Equal(t, []string{"TOXIC CONTENT"}, entityNames(d.ThreatEntities))
	assert.True(t, d.ThreatGraph.Empty())
}

func TestNormalizeMedia(t *testing.T) {
	d := NormalizeMedia(ports.MediaAnalysisResult{AIScore: 0.12})
	assert.Equal(t, 0.12, d.AIDetectionScore)
	require.NotNil(t, d.ThreatEntities)
	assert.Empty(t, d.ThreatEntities)
	assert.True(t, d.ThreatGraph.Empty())
}
