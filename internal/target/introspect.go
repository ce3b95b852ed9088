package target

import (
	"context"
	"database/sql"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// Introspector reads live schema information from a target database via
// information_schema. Results are unfiltered by the metadata cache; callers
// decide what to persist.
type Introspector struct{}

func NewIntrospector() *Introspector {
	return &Introspector{}
}

const listTablesQuery = `
SELECT table_name, table_schema
FROM information_schema.tables
WHERE table_schema = $1 AND table_type = 'BASE TABLE'
ORDER BY table_name`

// ListTables returns the base tables in a schema, ordered by name. Views
// and system tables are excluded.
func (i *Introspector) ListTables(ctx context.Context, db *sql.DB, schema string) ([]domain.TableInfo, error) {
	if schema == "" {
		schema = "public"
	}

	rows, err := db.QueryContext(ctx, listTablesQuery, schema)
	if err != nil {
		return nil, domain.ErrExecution("list tables: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	var tables []domain.TableInfo
	for rows.Next() {
		var t domain.TableInfo
		if err := rows.Scan(&t.Name, &t.Schema); err != nil {
			return nil, domain.ErrExecution("scan table: %v", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrExecution("list tables: %v", err)
	}
	return tables, nil
}

const listColumnsQuery = `
SELECT
	c.column_name,
	c.data_type,
	c.is_nullable,
	c.column_default,
	c.ordinal_position,
	EXISTS (
		SELECT 1
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = c.table_schema
			AND tc.table_name = c.table_name
			AND kcu.column_name = c.column_name
	) AS is_primary
FROM information_schema.columns c
WHERE c.table_schema = $1 AND c.table_name = $2
ORDER BY c.ordinal_position`

// ListColumns returns the columns of a table in ordinal order, with primary
// key membership resolved from the table's constraints. An unknown table
// yields a NotFoundError rather than an empty slice.
func (i *Introspector) ListColumns(ctx context.Context, db *sql.DB, schema, table string) ([]domain.ColumnInfo, error) {
	if schema == "" {
		schema = "public"
	}

	rows, err := db.QueryContext(ctx, listColumnsQuery, schema, table)
	if err != nil {
		return nil, domain.ErrExecution("list columns: %v", err)
	}
	defer rows.Close() //nolint:errcheck

	var cols []domain.ColumnInfo
	for rows.Next() {
		var col domain.ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Default, &col.Position, &col.IsPrimary); err != nil {
			return nil, domain.ErrExecution("scan column: %v", err)
		}
		col.Nullable = nullable == "YES"
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrExecution("list columns: %v", err)
	}
	if len(cols) == 0 {
		return nil, domain.ErrNotFound("table %s.%s not found", schema, table)
	}
	return cols, nil
}
