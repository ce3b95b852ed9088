package repository

import (
	"context"
	"encoding/json"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "github.com/pgdesk/pgdesk/internal/db"
	"github.com/pgdesk/pgdesk/internal/domain"
)

func setupSettingRepo(t *testing.T) *SettingRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewSettingRepo(writeDB)
}

func TestSettingRepo_RoundTrip(t *testing.T) {
	repo := setupSettingRepo(t)
	ctx := context.Background()

	s, err := repo.Set(ctx, "theme", json.RawMessage(`{"mode":"dark","accent":"teal"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "theme", s.Key)
	assert.JSONEq(t, `{"mode":"dark","accent":"teal"}`, string(s.Value))

	got, err := repo.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.JSONEq(t, `{"mode":"dark","accent":"teal"}`, string(got.Value))
}

func TestSettingRepo_SetUpserts(t *testing.T) {
	repo := setupSettingRepo(t)
	ctx := context.Background()

	first, err := repo.Set(ctx, "page_size", json.RawMessage(`50`))
	require.NoError(t, err)

	second, err := repo.Set(ctx, "page_size", json.RawMessage(`100`))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert keeps the original row")
	assert.JSONEq(t, `100`, string(second.Value))
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	got, err := repo.Get(ctx, "page_size")
	require.NoError(t, err)
	assert.JSONEq(t, `100`, string(got.Value))
}

func TestSettingRepo_GetUnknownKey(t *testing.T) {
	repo := setupSettingRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
