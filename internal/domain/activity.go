package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Activity statuses.
const (
	ActivityStatusSuccess = "SUCCESS"
	ActivityStatusError   = "ERROR"
)

// DefaultActivityLimit is the page size for activity listings when the
// caller does not specify one.
const DefaultActivityLimit = 10

// MaxActivityLimit caps activity listings.
const MaxActivityLimit = 200

// ActivityEntry is a single append-only audit record for an operation
// executed against a target database.
type ActivityEntry struct {
	ID           string          `json:"id"`
	ConnectionID string          `json:"connectionId"`
	TableID      *string         `json:"tableId,omitempty"`
	Operation    string          `json:"operation"`
	Details      string          `json:"details"`
	Status       string          `json:"status"`
	UserID       *string         `json:"userId,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// OperationLabel extracts the audit operation label from raw SQL text: the
// first whitespace-delimited token, upper-cased. This is a heuristic, not a
// parser; comment-prefixed or multi-statement SQL may be mislabelled.
func OperationLabel(sqlText string) string {
	fields := strings.Fields(sqlText)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}
