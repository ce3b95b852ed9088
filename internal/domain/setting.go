package domain

import (
	"encoding/json"
	"time"
)

// Setting is a single key/value application preference. Value is arbitrary
// JSON; writes are last-writer-wins with no versioning.
type Setting struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
