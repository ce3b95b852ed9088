package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// TableMetaRepo persists cached table/column metadata snapshots. The cache
// is decoupled from live introspection; callers refresh it explicitly.
type TableMetaRepo struct {
	db *sql.DB
}

func NewTableMetaRepo(db *sql.DB) *TableMetaRepo {
	return &TableMetaRepo{db: db}
}

// UpsertTable inserts the table row or, when (connection_id, name, schema)
// already exists, refreshes its description and updated_at.
func (r *TableMetaRepo) UpsertTable(ctx context.Context, t *domain.TableMetadata) (*domain.TableMetadata, error) {
	if t.Schema == "" {
		t.Schema = "public"
	}
	now := time.Now().UTC()

	existing, err := r.GetTable(ctx, t.ConnectionID, t.Schema, t.Name)
	var notFound *domain.NotFoundError
	switch {
	case err == nil:
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = now
		_, err = r.db.ExecContext(ctx,
			`UPDATE table_metadata SET description = ?, updated_at = ? WHERE id = ?`,
			t.Description, t.UpdatedAt, t.ID)
		if err != nil {
			return nil, fmt.Errorf("update table metadata: %w", err)
		}
	case errors.As(err, &notFound):
		t.ID = uuid.NewString()
		t.CreatedAt = now
		t.UpdatedAt = now
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO table_metadata (id, connection_id, name, schema, description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.ConnectionID, t.Name, t.Schema, t.Description, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return nil, mapDBError(err)
		}
	default:
		return nil, err
	}
	return t, nil
}

// ReplaceColumns swaps the cached column set for a table in one transaction.
func (r *TableMetaRepo) ReplaceColumns(ctx context.Context, tableID string, cols []domain.ColumnMetadata) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace columns: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM column_metadata WHERE table_id = ?`, tableID); err != nil {
		return fmt.Errorf("clear column metadata: %w", err)
	}

	now := time.Now().UTC()
	for _, col := range cols {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO column_metadata (id, table_id, name, type, nullable, is_primary, is_unique, default_value, description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), tableID, col.Name, col.Type,
			boolToInt(col.Nullable), boolToInt(col.IsPrimary), boolToInt(col.IsUnique),
			col.DefaultValue, col.Description, now, now)
		if err != nil {
			return fmt.Errorf("insert column metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace columns: %w", err)
	}
	return nil
}

func (r *TableMetaRepo) ListTables(ctx context.Context, connectionID string) ([]domain.TableMetadata, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, connection_id, name, schema, description, created_at, updated_at
		 FROM table_metadata WHERE connection_id = ? ORDER BY schema, name`, connectionID)
	if err != nil {
		return nil, fmt.Errorf("list table metadata: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var tables []domain.TableMetadata
	for rows.Next() {
		var t domain.TableMetadata
		if err := rows.Scan(&t.ID, &t.ConnectionID, &t.Name, &t.Schema, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan table metadata: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, mapDBError(rows.Err())
}

// GetTable returns the cached table and its columns ordered by name.
func (r *TableMetaRepo) GetTable(ctx context.Context, connectionID, schema, name string) (*domain.TableMetadata, error) {
	if schema == "" {
		schema = "public"
	}
	var t domain.TableMetadata
	err := r.db.QueryRowContext(ctx,
		`SELECT id, connection_id, name, schema, description, created_at, updated_at
		 FROM table_metadata WHERE connection_id = ? AND schema = ? AND name = ?`,
		connectionID, schema, name).
		Scan(&t.ID, &t.ConnectionID, &t.Name, &t.Schema, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("table %s.%s not cached for connection %q", schema, name, connectionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get table metadata: %w", err)
	}

	cols, err := r.listColumns(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Columns = cols
	return &t, nil
}

func (r *TableMetaRepo) listColumns(ctx context.Context, tableID string) ([]domain.ColumnMetadata, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, table_id, name, type, nullable, is_primary, is_unique, default_value, description, created_at, updated_at
		 FROM column_metadata WHERE table_id = ? ORDER BY name`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list column metadata: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var cols []domain.ColumnMetadata
	for rows.Next() {
		var c domain.ColumnMetadata
		var nullable, isPrimary, isUnique int64
		if err := rows.Scan(&c.ID, &c.TableID, &c.Name, &c.Type, &nullable, &isPrimary, &isUnique,
			&c.DefaultValue, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan column metadata: %w", err)
		}
		c.Nullable = nullable == 1
		c.IsPrimary = isPrimary == 1
		c.IsUnique = isUnique == 1
		cols = append(cols, c)
	}
	return cols, mapDBError(rows.Err())
}

func (r *TableMetaRepo) DeleteTable(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM table_metadata WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete table metadata: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound("table metadata %q not found", id)
	}
	return nil
}

var _ domain.TableMetaRepository = (*TableMetaRepo)(nil)
