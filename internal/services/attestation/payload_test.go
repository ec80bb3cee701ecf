package attestation

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatledger/internal/domain"
)

func sampleEntities() []domain.ThreatEntity {
	score := 0.75
	drone, attack := 3, 1
	return []domain.ThreatEntity{
		{Name: "TOXIC CONTENT", Type: domain.EntityLabel, Score: &score},
		{Name: "drone", Type: domain.EntityKeyword, Count: &drone},
		{Name: "attack", Type: domain.EntityKeyword, Count: &attack},
	}
}

func TestEncodeEntitiesGolden(t *testing.T) {
	s, err := EncodeEntities(sampleEntities())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "entities", []byte(s))
}

func TestEntitiesRoundTrip(t *testing.T) {
	in := sampleEntities()
	s, err := EncodeEntities(in)
	require.NoError(t, err)
	out, err := DecodeEntities(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeEntitiesEmpty(t *testing.T) {
	s, err := EncodeEntities(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	out, err := DecodeEntities(s)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Empty(t, out)

	_, err = DecodeEntities("not json")
	assert.Error(t, err)
}

func TestBuildSubmission(t *testing.T) {
	sub, err := BuildSubmission(domain.ThreatRecord{
		OriginalContent: "drones near the border",
		ThreatEntities:  sampleEntities(),
	})
	require.NoError(t, err)
	assert.Equal(t, "drones near the border", sub.Text)
	assert.JSONEq(t, `[{"name":"TOXIC CONTENT","type":"LABEL","score":0.75},{"name":"drone","type":"KEYWORD","count":3},{"name":"attack","type":"KEYWORD","count":1}]`, sub.Entities)
}
