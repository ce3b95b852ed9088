package domain

import (
	"context"
	"encoding/json"
)

// ConnectionRepository persists registered target-database connections.
type ConnectionRepository interface {
	List(ctx context.Context) ([]Connection, error)
	GetByID(ctx context.Context, id string) (*Connection, error)
	GetActive(ctx context.Context) (*Connection, error)
	Create(ctx context.Context, c *Connection) (*Connection, error)
	Update(ctx context.Context, id string, upd ConnectionUpdate) (*Connection, error)
	Delete(ctx context.Context, id string) error
	// Activate flags one connection active and clears the flag on every
	// other row in a single transaction.
	Activate(ctx context.Context, id string) (*Connection, error)
}

// TableMetaRepository persists the cached table/column metadata snapshots.
type TableMetaRepository interface {
	UpsertTable(ctx context.Context, t *TableMetadata) (*TableMetadata, error)
	ReplaceColumns(ctx context.Context, tableID string, cols []ColumnMetadata) error
	ListTables(ctx context.Context, connectionID string) ([]TableMetadata, error)
	GetTable(ctx context.Context, connectionID, schema, name string) (*TableMetadata, error)
	DeleteTable(ctx context.Context, id string) error
}

// ActivityRepository appends and reads audit records.
type ActivityRepository interface {
	Record(ctx context.Context, e *ActivityEntry) error
	List(ctx context.Context, connectionID string, limit int) ([]ActivityEntry, error)
	// Prune deletes all but the newest keep entries for each connection.
	Prune(ctx context.Context, keep int) (int64, error)
}

// SettingRepository is the key/value preferences store.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key string, value json.RawMessage) (*Setting, error)
}
