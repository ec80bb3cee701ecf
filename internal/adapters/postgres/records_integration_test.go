//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"threatledger/internal/domain"
)

func startPostgres(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "threats",
				"POSTGRES_PASSWORD": "threats",
				"POSTGRES_DB":       "threats",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://threats:threats@%s:%s/threats?sslmode=disable", host, port.Port())
	db, err := Connect(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.RunMigrations(ctx))
	return db
}

func TestRecordsLifecycle(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	count := 3
	rec, err := db.Create(ctx, domain.Draft{
		InputKind:        domain.InputText,
		OriginalContent:  "drones near the border",
		AIDetectionScore: 0.42,
		ThreatEntities:   []domain.ThreatEntity{{Name: "drone", Type: domain.EntityKeyword, Count: &count}},
		ThreatGraph:      domain.ThreatGraph{Nodes: []domain.GraphNode{{ID: 1, Label: "drone", Value: 3}}, Edges: []domain.GraphEdge{}},
	})
	require.NoError(t, err)
	_, err = domain.ParseRecordID(rec.ID)
	require.NoError(t, err)
	assert.False(t, rec.IsSharedOnChain)

	got, err := db.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ThreatEntities, got.ThreatEntities)
	assert.Equal(t, rec.ThreatGraph.Nodes, got.ThreatGraph.Nodes)

	_, applied, err := db.MarkAttested(ctx, rec.ID, "0xfirst")
	require.NoError(t, err)
	assert.True(t, applied)

	again, applied, err := db.MarkAttested(ctx, rec.ID, "0xsecond")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "0xfirst", *again.BlockchainTransactionID)

	_, err = db.GetByID(ctx, domain.NewRecordID())
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestMarkAttestedSingleWinner(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	rec, err := db.Create(ctx, domain.Draft{InputKind: domain.InputFile, OriginalContent: "https://cdn.test/a.png"})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, applied, err := db.MarkAttested(ctx, rec.ID, fmt.Sprintf("0x%02x", i))
			assert.NoError(t, err)
			if applied {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	db := startPostgres(t)
	_, err := db.Create(context.Background(), domain.Draft{InputKind: domain.InputText})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
