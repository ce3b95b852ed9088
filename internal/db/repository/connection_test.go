package repository

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/pgdesk/pgdesk/internal/db"
	"github.com/pgdesk/pgdesk/internal/domain"
)

func setupConnectionRepo(t *testing.T) *ConnectionRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewConnectionRepo(writeDB)
}

func newTestConnection(name string) *domain.Connection {
	return &domain.Connection{
		Name:     name,
		Host:     "localhost",
		Port:     5432,
		Database: "appdb",
		Username: "postgres",
		Password: "ciphertext",
	}
}

func TestConnectionRepo_CRUD(t *testing.T) {
	repo := setupConnectionRepo(t)
	ctx := context.Background()

	c, err := repo.Create(ctx, newTestConnection("primary"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.IsActive)
	assert.False(t, c.CreatedAt.IsZero())

	found, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "primary", found.Name)
	assert.Equal(t, "ciphertext", found.Password)

	newHost := "db.internal"
	newPort := 5433
	updated, err := repo.Update(ctx, c.ID, domain.ConnectionUpdate{Host: &newHost, Port: &newPort})
	require.NoError(t, err)
	assert.Equal(t, "db.internal", updated.Host)
	assert.Equal(t, 5433, updated.Port)
	assert.Equal(t, "primary", updated.Name, "unspecified fields stay unchanged")
	assert.True(t, updated.UpdatedAt.After(c.CreatedAt) || updated.UpdatedAt.Equal(c.CreatedAt))

	conns, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, conns, 1)

	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err = repo.GetByID(ctx, c.ID)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	err = repo.Delete(ctx, c.ID)
	assert.ErrorAs(t, err, &notFound)
}

func TestConnectionRepo_DuplicateName(t *testing.T) {
	repo := setupConnectionRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestConnection("primary"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestConnection("primary"))
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestConnectionRepo_ActivateIsExclusive(t *testing.T) {
	repo := setupConnectionRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, newTestConnection("a"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, newTestConnection("b"))
	require.NoError(t, err)

	_, err = repo.GetActive(ctx)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound, "no connection is active before the first activate")

	activated, err := repo.Activate(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)

	// Activating b flips a off in the same transaction.
	_, err = repo.Activate(ctx, b.ID)
	require.NoError(t, err)

	active, err = repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)

	conns, err := repo.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, c := range conns {
		if c.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestConnectionRepo_ActivateUnknownID(t *testing.T) {
	repo := setupConnectionRepo(t)
	ctx := context.Background()

	c, err := repo.Create(ctx, newTestConnection("a"))
	require.NoError(t, err)
	_, err = repo.Activate(ctx, c.ID)
	require.NoError(t, err)

	_, err = repo.Activate(ctx, "missing")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// The failed activate must not have cleared the existing flag.
	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.ID, active.ID)
}

func TestConnectionRepo_DeleteCascadesMetadata(t *testing.T) {
	writeDB, _ := internaldb.OpenTestSQLite(t)
	conns := NewConnectionRepo(writeDB)
	tables := NewTableMetaRepo(writeDB)
	ctx := context.Background()

	c, err := conns.Create(ctx, newTestConnection("primary"))
	require.NoError(t, err)

	tbl, err := tables.UpsertTable(ctx, &domain.TableMetadata{ConnectionID: c.ID, Name: "orders"})
	require.NoError(t, err)
	require.NoError(t, tables.ReplaceColumns(ctx, tbl.ID, []domain.ColumnMetadata{
		{Name: "id", Type: "integer", IsPrimary: true},
	}))

	require.NoError(t, conns.Delete(ctx, c.ID))

	cached, err := tables.ListTables(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, cached)

	var colCount int
	require.NoError(t, writeDB.QueryRow(`SELECT COUNT(*) FROM column_metadata`).Scan(&colCount))
	assert.Zero(t, colCount)
}
