// Package repository implements the domain repository interfaces over the
// SQLite metastore.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/pgdesk/pgdesk/internal/domain"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// mapDBError translates driver errors into domain errors. Unique-constraint
// violations become conflicts; missing rows become not-found.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}
