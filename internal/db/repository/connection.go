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

const connectionColumns = `id, name, host, port, database, username, password, secure, is_active, created_at, updated_at`

// ConnectionRepo persists registered target-database connections.
type ConnectionRepo struct {
	db *sql.DB
}

func NewConnectionRepo(db *sql.DB) *ConnectionRepo {
	return &ConnectionRepo{db: db}
}

func scanConnection(row interface{ Scan(...interface{}) error }) (*domain.Connection, error) {
	var c domain.Connection
	var secure, isActive int64
	err := row.Scan(&c.ID, &c.Name, &c.Host, &c.Port, &c.Database, &c.Username,
		&c.Password, &secure, &isActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Secure = secure == 1
	c.IsActive = isActive == 1
	return &c, nil
}

func (r *ConnectionRepo) List(ctx context.Context) ([]domain.Connection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+connectionColumns+` FROM connections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var conns []domain.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		conns = append(conns, *c)
	}
	return conns, mapDBError(rows.Err())
}

func (r *ConnectionRepo) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	c, err := scanConnection(r.db.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("connection %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get connection: %w", err)
	}
	return c, nil
}

func (r *ConnectionRepo) GetActive(ctx context.Context) (*domain.Connection, error) {
	c, err := scanConnection(r.db.QueryRowContext(ctx,
		`SELECT `+connectionColumns+` FROM connections WHERE is_active = 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("no active connection")
	}
	if err != nil {
		return nil, fmt.Errorf("get active connection: %w", err)
	}
	return c, nil
}

func (r *ConnectionRepo) Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error) {
	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO connections (`+connectionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Host, c.Port, c.Database, c.Username, c.Password,
		boolToInt(c.Secure), boolToInt(c.IsActive), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return c, nil
}

func (r *ConnectionRepo) Update(ctx context.Context, id string, upd domain.ConnectionUpdate) (*domain.Connection, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		existing.Name = *upd.Name
	}
	if upd.Host != nil {
		existing.Host = *upd.Host
	}
	if upd.Port != nil {
		existing.Port = *upd.Port
	}
	if upd.Database != nil {
		existing.Database = *upd.Database
	}
	if upd.Username != nil {
		existing.Username = *upd.Username
	}
	if upd.Password != nil {
		existing.Password = *upd.Password
	}
	if upd.Secure != nil {
		existing.Secure = *upd.Secure
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`UPDATE connections
		 SET name = ?, host = ?, port = ?, database = ?, username = ?, password = ?, secure = ?, updated_at = ?
		 WHERE id = ?`,
		existing.Name, existing.Host, existing.Port, existing.Database,
		existing.Username, existing.Password, boolToInt(existing.Secure),
		existing.UpdatedAt, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	return existing, nil
}

func (r *ConnectionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound("connection %q not found", id)
	}
	return nil
}

// Activate flags one connection active, clearing the flag on every other row
// in the same transaction so observers never see zero or two active rows.
func (r *ConnectionRepo) Activate(ctx context.Context, id string) (*domain.Connection, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin activate: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE connections SET is_active = 0 WHERE is_active = 1`); err != nil {
		return nil, fmt.Errorf("clear active flag: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE connections SET is_active = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("set active flag: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, domain.ErrNotFound("connection %q not found", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit activate: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Ensure ConnectionRepo implements the domain port.
var _ domain.ConnectionRepository = (*ConnectionRepo)(nil)
