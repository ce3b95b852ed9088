package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// SettingRepo is the key/value preferences store. Writes are
// last-writer-wins upserts keyed by the setting name.
type SettingRepo struct {
	db *sql.DB
}

func NewSettingRepo(db *sql.DB) *SettingRepo {
	return &SettingRepo{db: db}
}

func (r *SettingRepo) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var s domain.Setting
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, key, value, created_at, updated_at FROM app_settings WHERE key = ?`, key).
		Scan(&s.ID, &s.Key, &value, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("setting %q not found", key)
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	s.Value = json.RawMessage(value)
	return &s, nil
}

func (r *SettingRepo) Set(ctx context.Context, key string, value json.RawMessage) (*domain.Setting, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_settings (id, key, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		uuid.NewString(), key, string(value), now, now)
	if err != nil {
		return nil, fmt.Errorf("set setting: %w", err)
	}
	return r.Get(ctx, key)
}

var _ domain.SettingRepository = (*SettingRepo)(nil)
