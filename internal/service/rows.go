package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pgdesk/pgdesk/internal/domain"
	"github.com/pgdesk/pgdesk/internal/target"
)

// RowService runs row-level operations against target tables and records
// each write in the activity log. An empty connectionID resolves the
// active connection.
type RowService struct {
	conns    *ConnectionService
	accessor *target.RowAccessor
	activity domain.ActivityRepository
	logger   *slog.Logger
}

func NewRowService(conns *ConnectionService, accessor *target.RowAccessor, activity domain.ActivityRepository, logger *slog.Logger) *RowService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RowService{conns: conns, accessor: accessor, activity: activity, logger: logger}
}

// FetchPage reads one page of a table's rows. Reads are not audited.
func (s *RowService) FetchPage(ctx context.Context, connectionID, table string, req domain.PageRequest, orderBy string, descending bool) (*domain.RowPage, error) {
	db, _, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return s.accessor.FetchPage(ctx, db, "public", table, req, orderBy, descending)
}

// Insert adds a row and returns it as stored, defaults included.
func (s *RowService) Insert(ctx context.Context, connectionID, table string, values domain.Row) (domain.Row, error) {
	db, conn, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	row, err := s.accessor.InsertRow(ctx, db, "public", table, values)
	s.record(ctx, conn.ID, "INSERT", fmt.Sprintf("Inserted row into %q", table), err, start)
	return row, err
}

// Update modifies the row identified by pkColumn = pkValue.
func (s *RowService) Update(ctx context.Context, connectionID, table, pkColumn string, pkValue interface{}, values domain.Row) (domain.Row, error) {
	db, conn, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	row, err := s.accessor.UpdateRow(ctx, db, "public", table, pkColumn, pkValue, values)
	s.record(ctx, conn.ID, "UPDATE", fmt.Sprintf("Updated row %v in %q", pkValue, table), err, start)
	return row, err
}

// Delete removes the row identified by pkColumn = pkValue and reports
// whether a row existed. Deleting an absent key is not an error.
func (s *RowService) Delete(ctx context.Context, connectionID, table, pkColumn string, pkValue interface{}) (bool, error) {
	db, conn, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return false, err
	}

	start := time.Now()
	deleted, err := s.accessor.DeleteRow(ctx, db, "public", table, pkColumn, pkValue)
	s.record(ctx, conn.ID, "DELETE", fmt.Sprintf("Deleted row %v from %q", pkValue, table), err, start)
	return deleted, err
}

// record appends an activity entry. Best effort: a failed audit write is
// logged but never fails the operation itself.
func (s *RowService) record(ctx context.Context, connectionID, operation, details string, opErr error, start time.Time) {
	status := domain.ActivityStatusSuccess
	if opErr != nil {
		status = domain.ActivityStatusError
		details = opErr.Error()
	}
	metadata, _ := json.Marshal(map[string]interface{}{
		"durationMs": time.Since(start).Milliseconds(),
	})

	entry := &domain.ActivityEntry{
		ConnectionID: connectionID,
		Operation:    operation,
		Details:      details,
		Status:       status,
		Metadata:     metadata,
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Error("record activity", slog.String("operation", operation), slog.Any("error", err))
	}
}
