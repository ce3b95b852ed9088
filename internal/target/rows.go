package target

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// RowAccessor runs schema-agnostic row operations against target tables.
// All SQL is assembled from identifiers that have been validated and
// checked against the table's live column set; cell values always travel
// as bind parameters.
type RowAccessor struct {
	introspector *Introspector
}

func NewRowAccessor(introspector *Introspector) *RowAccessor {
	return &RowAccessor{introspector: introspector}
}

// tableColumns introspects the table and returns its column set plus a
// name lookup for allow-listing.
func (a *RowAccessor) tableColumns(ctx context.Context, db *sql.DB, schema, table string) ([]domain.ColumnInfo, map[string]bool, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return nil, nil, err
	}
	if schema != "" {
		if err := domain.ValidateIdentifier(schema); err != nil {
			return nil, nil, err
		}
	}
	cols, err := a.introspector.ListColumns(ctx, db, schema, table)
	if err != nil {
		return nil, nil, err
	}
	allowed := make(map[string]bool, len(cols))
	for _, c := range cols {
		allowed[c.Name] = true
	}
	return cols, allowed, nil
}

// FetchPage reads one page of a table. orderBy is optional; when set it
// must name an existing column. The total count comes from the same
// statement window, so the pagination descriptor matches the page.
func (a *RowAccessor) FetchPage(ctx context.Context, db *sql.DB, schema, table string, req domain.PageRequest, orderBy string, descending bool) (*domain.RowPage, error) {
	_, allowed, err := a.tableColumns(ctx, db, schema, table)
	if err != nil {
		return nil, err
	}

	if orderBy != "" {
		if err := domain.ValidateIdentifier(orderBy); err != nil {
			return nil, err
		}
		if !allowed[orderBy] {
			return nil, domain.ErrValidation("column %q does not exist on table %q", orderBy, table)
		}
	}

	qualified := qualify(schema, table)

	var total int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+qualified).Scan(&total); err != nil {
		return nil, domain.ErrExecution("count rows in %s: %v", table, err)
	}

	query := "SELECT * FROM " + qualified
	if orderBy != "" {
		query += " ORDER BY " + domain.QuoteIdentifier(orderBy)
		if descending {
			query += " DESC"
		}
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", req.Limit(), req.Offset())

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.ErrExecution("fetch rows from %s: %v", table, err)
	}
	defer rows.Close() //nolint:errcheck

	page, err := scanRowMaps(rows)
	if err != nil {
		return nil, err
	}
	return &domain.RowPage{Rows: page, Pagination: req.Describe(total)}, nil
}

// InsertRow inserts values into the table and returns the stored row,
// defaults included. Column names are processed in sorted order so the
// generated SQL is deterministic.
func (a *RowAccessor) InsertRow(ctx context.Context, db *sql.DB, schema, table string, values domain.Row) (domain.Row, error) {
	if len(values) == 0 {
		return nil, domain.ErrValidation("row data is required")
	}
	_, allowed, err := a.tableColumns(ctx, db, schema, table)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		if err := domain.ValidateIdentifier(name); err != nil {
			return nil, err
		}
		if !allowed[name] {
			return nil, domain.ErrValidation("column %q does not exist on table %q", name, table)
		}
		quoted[i] = domain.QuoteIdentifier(name)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[name]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		qualify(schema, table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.ErrExecution("insert into %s: %v", table, err)
	}
	defer rows.Close() //nolint:errcheck

	inserted, err := scanRowMaps(rows)
	if err != nil {
		return nil, err
	}
	if len(inserted) == 0 {
		return nil, domain.ErrExecution("insert into %s returned no row", table)
	}
	return inserted[0], nil
}

// UpdateRow updates the row identified by pkColumn = pkValue and returns
// the stored row. The key column is excluded from the SET list even when
// present in values.
func (a *RowAccessor) UpdateRow(ctx context.Context, db *sql.DB, schema, table, pkColumn string, pkValue interface{}, values domain.Row) (domain.Row, error) {
	_, allowed, err := a.tableColumns(ctx, db, schema, table)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateIdentifier(pkColumn); err != nil {
		return nil, err
	}
	if !allowed[pkColumn] {
		return nil, domain.ErrValidation("column %q does not exist on table %q", pkColumn, table)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		if name == pkColumn {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, domain.ErrValidation("no updatable columns in row data")
	}

	assignments := make([]string, len(names))
	args := make([]interface{}, 0, len(names)+1)
	for i, name := range names {
		if err := domain.ValidateIdentifier(name); err != nil {
			return nil, err
		}
		if !allowed[name] {
			return nil, domain.ErrValidation("column %q does not exist on table %q", name, table)
		}
		assignments[i] = fmt.Sprintf("%s = $%d", domain.QuoteIdentifier(name), i+1)
		args = append(args, values[name])
	}
	args = append(args, pkValue)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		qualify(schema, table), strings.Join(assignments, ", "),
		domain.QuoteIdentifier(pkColumn), len(names)+1)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.ErrExecution("update %s: %v", table, err)
	}
	defer rows.Close() //nolint:errcheck

	updated, err := scanRowMaps(rows)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, domain.ErrNotFound("row with %s = %v not found in table %q", pkColumn, pkValue, table)
	}
	return updated[0], nil
}

// DeleteRow removes the row identified by pkColumn = pkValue and reports
// whether a row was removed. Deleting an absent key is a no-op, not an
// error, so repeated deletes are idempotent.
func (a *RowAccessor) DeleteRow(ctx context.Context, db *sql.DB, schema, table, pkColumn string, pkValue interface{}) (bool, error) {
	_, allowed, err := a.tableColumns(ctx, db, schema, table)
	if err != nil {
		return false, err
	}
	if err := domain.ValidateIdentifier(pkColumn); err != nil {
		return false, err
	}
	if !allowed[pkColumn] {
		return false, domain.ErrValidation("column %q does not exist on table %q", pkColumn, table)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 RETURNING %s",
		qualify(schema, table), domain.QuoteIdentifier(pkColumn), domain.QuoteIdentifier(pkColumn))

	var returned interface{}
	err = db.QueryRowContext(ctx, query, pkValue).Scan(&returned)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.ErrExecution("delete from %s: %v", table, err)
	}
	return true, nil
}

// queryVerbs are the leading keywords that produce a result set. Anything
// else runs as a statement and reports affected rows.
var queryVerbs = map[string]bool{
	"SELECT": true, "WITH": true, "SHOW": true, "EXPLAIN": true,
	"TABLE": true, "VALUES": true,
}

// ExecuteRaw runs arbitrary SQL with optional bind parameters. Statements
// that produce rows return the full grid; everything else returns an empty
// column set and the affected row count. Driver errors pass through in the
// error message untouched.
func (a *RowAccessor) ExecuteRaw(ctx context.Context, db *sql.DB, sqlText string, params ...interface{}) (*domain.QueryResult, error) {
	if strings.TrimSpace(sqlText) == "" {
		return nil, domain.ErrValidation("query is required")
	}

	if !queryVerbs[domain.OperationLabel(sqlText)] {
		res, err := db.ExecContext(ctx, sqlText, params...)
		if err != nil {
			return nil, domain.ErrExecution("%v", err)
		}
		affected, _ := res.RowsAffected()
		return &domain.QueryResult{Columns: []string{}, Rows: [][]interface{}{}, RowCount: int(affected)}, nil
	}

	rows, err := db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, domain.ErrExecution("%v", err)
	}
	defer rows.Close() //nolint:errcheck

	columns, err := rows.Columns()
	if err != nil {
		return nil, domain.ErrExecution("read result columns: %v", err)
	}

	result := &domain.QueryResult{Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanTargets := make([]interface{}, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, domain.ErrExecution("scan result row: %v", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrExecution("%v", err)
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

// qualify builds a quoted schema-qualified table reference. Both parts must
// already be validated.
func qualify(schema, table string) string {
	if schema == "" {
		schema = "public"
	}
	return domain.QuoteIdentifier(schema) + "." + domain.QuoteIdentifier(table)
}

// scanRowMaps drains a result set into name-keyed rows, converting byte
// slices to strings so the values survive JSON encoding.
func scanRowMaps(rows *sql.Rows) ([]domain.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, domain.ErrExecution("read result columns: %v", err)
	}

	out := []domain.Row{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanTargets := make([]interface{}, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, domain.ErrExecution("scan row: %v", err)
		}
		row := make(domain.Row, len(columns))
		for i, name := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[name] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrExecution("read rows: %v", err)
	}
	return out, nil
}
