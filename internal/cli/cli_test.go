package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// runCommand executes the CLI against a test server and captures stdout.
func runCommand(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--host", srv.URL}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestConnectionsList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/connections", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.Connection{
			{ID: "c1", Name: "primary", Host: "localhost", Port: 5432, Database: "appdb", IsActive: true},
			{ID: "c2", Name: "staging", Host: "db.internal", Port: 5433, Database: "stage"},
		})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv, "connections", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "primary")
	assert.Contains(t, out, "localhost:5432")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "staging")
}

func TestConnectionsActivate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/connections/c1/activate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.Connection{ID: "c1", Name: "primary", IsActive: true})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv, "connections", "activate", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, `"primary" is now active`)
}

func TestQueryPrintsGrid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/query", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SELECT id FROM orders", req["sql"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.QueryResult{
			Columns:  []string{"id", "status"},
			Rows:     [][]interface{}{{1, "pending"}, {2, nil}},
			RowCount: 2,
		})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv, "query", "SELECT id FROM orders")
	require.NoError(t, err)
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}

func TestQueryStatementPrintsAffected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(domain.QueryResult{Columns: []string{}, Rows: [][]interface{}{}, RowCount: 7})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv, "query", "UPDATE orders SET status = 'done'")
	require.NoError(t, err)
	assert.Contains(t, out, "7 rows affected")
}

func TestServerErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "no active connection"})
	}))
	defer srv.Close()

	_, err := runCommand(t, srv, "query", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active connection")
	assert.Contains(t, err.Error(), "404")
}

func TestActivityTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/connections/c1/activity", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]domain.ActivityEntry{
			{Operation: "INSERT", Status: "SUCCESS", Details: "Inserted row into \"orders\""},
		})
	}))
	defer srv.Close()

	out, err := runCommand(t, srv, "activity", "c1", "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "INSERT")
	assert.Contains(t, out, "SUCCESS")
}
