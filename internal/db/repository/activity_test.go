package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/pgdesk/pgdesk/internal/db"
	"github.com/pgdesk/pgdesk/internal/domain"
)

func setupActivityRepo(t *testing.T) (*ActivityRepo, *domain.Connection) {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	conns := NewConnectionRepo(writeDB)
	c, err := conns.Create(context.Background(), newTestConnection("audit"))
	require.NoError(t, err)
	return NewActivityRepo(writeDB), c
}

func recordN(t *testing.T, repo *ActivityRepo, connectionID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Record(context.Background(), &domain.ActivityEntry{
			ConnectionID: connectionID,
			Operation:    "SELECT",
			Details:      fmt.Sprintf("query %d", i),
			Status:       domain.ActivityStatusSuccess,
		}))
	}
}

func TestActivityRepo_RecordAndList(t *testing.T) {
	repo, conn := setupActivityRepo(t)
	ctx := context.Background()

	entry := &domain.ActivityEntry{
		ConnectionID: conn.ID,
		Operation:    "INSERT",
		Details:      "INSERT INTO orders",
		Status:       domain.ActivityStatusSuccess,
		Metadata:     json.RawMessage(`{"rowCount":1}`),
	}
	require.NoError(t, repo.Record(ctx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())

	entries, err := repo.List(ctx, conn.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "INSERT", entries[0].Operation)
	assert.JSONEq(t, `{"rowCount":1}`, string(entries[0].Metadata))
	assert.Nil(t, entries[0].TableID)
}

func TestActivityRepo_ListNewestFirstWithLimit(t *testing.T) {
	repo, conn := setupActivityRepo(t)
	ctx := context.Background()

	recordN(t, repo, conn.ID, 15)

	// Default limit applies when the caller passes zero.
	entries, err := repo.List(ctx, conn.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, domain.DefaultActivityLimit)
	assert.Equal(t, "query 14", entries[0].Details)
	assert.Equal(t, "query 5", entries[len(entries)-1].Details)

	entries, err = repo.List(ctx, conn.ID, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "query 14", entries[0].Details)

	// Oversized limits clamp instead of erroring.
	entries, err = repo.List(ctx, conn.ID, domain.MaxActivityLimit+500)
	require.NoError(t, err)
	assert.Len(t, entries, 15)
}

func TestActivityRepo_ListScopedToConnection(t *testing.T) {
	writeDB, _ := internaldb.OpenTestSQLite(t)
	conns := NewConnectionRepo(writeDB)
	repo := NewActivityRepo(writeDB)
	ctx := context.Background()

	a, err := conns.Create(ctx, newTestConnection("a"))
	require.NoError(t, err)
	b, err := conns.Create(ctx, newTestConnection("b"))
	require.NoError(t, err)

	recordN(t, repo, a.ID, 2)
	recordN(t, repo, b.ID, 3)

	entries, err := repo.List(ctx, a.ID, 50)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestActivityRepo_Prune(t *testing.T) {
	writeDB, _ := internaldb.OpenTestSQLite(t)
	conns := NewConnectionRepo(writeDB)
	repo := NewActivityRepo(writeDB)
	ctx := context.Background()

	a, err := conns.Create(ctx, newTestConnection("a"))
	require.NoError(t, err)
	b, err := conns.Create(ctx, newTestConnection("b"))
	require.NoError(t, err)

	recordN(t, repo, a.ID, 8)
	recordN(t, repo, b.ID, 2)

	// keep <= 0 disables retention entirely.
	removed, err := repo.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	// The cap is per connection: b is under it and stays intact.
	removed, err = repo.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	entries, err := repo.List(ctx, a.ID, 50)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "query 7", entries[0].Details, "the newest entries survive")

	entries, err = repo.List(ctx, b.ID, 50)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
