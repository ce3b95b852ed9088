package domain

// Row is a single target-table row keyed by column name. Cell values are
// whatever the driver produced, with byte slices converted to strings so
// the row serializes cleanly to JSON.
type Row map[string]interface{}

// Pagination describes one page of an arbitrary result set.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
}

// RowPage is a page of rows plus its pagination descriptor.
type RowPage struct {
	Rows       []Row      `json:"rows"`
	Pagination Pagination `json:"pagination"`
}

// QueryResult holds the structured output of a raw SQL query.
type QueryResult struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"rowCount"`
}
