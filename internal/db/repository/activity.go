package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// ActivityRepo appends and reads audit records. Entries are never mutated;
// the only delete path is the retention sweep in Prune.
type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Record(ctx context.Context, e *domain.ActivityEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()

	var metadata interface{}
	if len(e.Metadata) > 0 {
		metadata = string(e.Metadata)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, connection_id, table_id, operation, details, status, user_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConnectionID, e.TableID, e.Operation, e.Details, e.Status, e.UserID, metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// List returns the most recent entries for a connection, newest first.
// limit <= 0 falls back to the default; values above the cap are clamped.
func (r *ActivityRepo) List(ctx context.Context, connectionID string, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = domain.DefaultActivityLimit
	}
	if limit > domain.MaxActivityLimit {
		limit = domain.MaxActivityLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, connection_id, table_id, operation, details, status, user_id, metadata, created_at
		 FROM activity_log WHERE connection_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		connectionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.ActivityEntry
	for rows.Next() {
		var e domain.ActivityEntry
		var metadata sql.NullString
		if err := rows.Scan(&e.ID, &e.ConnectionID, &e.TableID, &e.Operation, &e.Details,
			&e.Status, &e.UserID, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if metadata.Valid {
			e.Metadata = []byte(metadata.String)
		}
		entries = append(entries, e)
	}
	return entries, mapDBError(rows.Err())
}

// Prune deletes all but the newest keep entries per connection and returns
// the number of rows removed.
func (r *ActivityRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM activity_log WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY connection_id ORDER BY created_at DESC, id DESC
				) AS rn FROM activity_log
			) WHERE rn <= ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	removed, _ := res.RowsAffected()
	return removed, nil
}

var _ domain.ActivityRepository = (*ActivityRepo)(nil)
