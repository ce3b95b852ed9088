package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/pgdesk/pgdesk/internal/domain"
	"github.com/pgdesk/pgdesk/internal/target"
)

// QueryService runs raw SQL against the active connection and records an
// audit entry for every execution, failed ones included.
type QueryService struct {
	conns    *ConnectionService
	accessor *target.RowAccessor
	activity domain.ActivityRepository
	logger   *slog.Logger
}

func NewQueryService(conns *ConnectionService, accessor *target.RowAccessor, activity domain.ActivityRepository, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &QueryService{conns: conns, accessor: accessor, activity: activity, logger: logger}
}

// Execute runs sqlText with optional bind parameters and returns structured
// results. The activity entry carries the first SQL keyword as its operation
// label and the execution time in milliseconds.
func (s *QueryService) Execute(ctx context.Context, sqlText string, params ...interface{}) (*domain.QueryResult, error) {
	db, active, err := s.conns.DB(ctx, "")
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.accessor.ExecuteRaw(ctx, db, sqlText, params...)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		s.logAudit(ctx, active.ID, sqlText, domain.ActivityStatusError, err.Error(), 0, duration)
		return nil, err
	}

	s.logAudit(ctx, active.ID, sqlText, domain.ActivityStatusSuccess, sqlText, result.RowCount, duration)
	return result, nil
}

func (s *QueryService) logAudit(ctx context.Context, connectionID, sqlText, status, details string, rowCount int, durationMs int64) {
	metadata, _ := json.Marshal(map[string]interface{}{
		"rowCount":   rowCount,
		"durationMs": durationMs,
	})
	entry := &domain.ActivityEntry{
		ConnectionID: connectionID,
		Operation:    domain.OperationLabel(sqlText),
		Details:      details,
		Status:       status,
		Metadata:     metadata,
	}
	// Best effort: a failed audit write never fails the query.
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Error("record query activity", slog.Any("error", err))
	}
}
