package domain

// TableInfo is a live introspection result for one target table.
type TableInfo struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

// ColumnInfo is a live introspection result for one target column.
type ColumnInfo struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Nullable  bool    `json:"nullable"`
	Default   *string `json:"default,omitempty"`
	IsPrimary bool    `json:"isPrimary"`
	Position  int     `json:"position"`
}
