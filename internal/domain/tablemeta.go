package domain

import "time"

// TableMetadata is a locally cached description of a target table. It is a
// snapshot taken from live introspection and is not kept in sync with the
// target database automatically.
type TableMetadata struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connectionId"`
	Name         string    `json:"name"`
	Schema       string    `json:"schema"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Columns is populated by lookups that join the column cache.
	Columns []ColumnMetadata `json:"columns,omitempty"`
}

// ColumnMetadata is the cached shape of a single column.
type ColumnMetadata struct {
	ID           string    `json:"id"`
	TableID      string    `json:"tableId"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Nullable     bool      `json:"nullable"`
	IsPrimary    bool      `json:"isPrimary"`
	IsUnique     bool      `json:"isUnique"`
	DefaultValue *string   `json:"defaultValue,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
