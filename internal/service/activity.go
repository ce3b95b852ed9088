package service

import (
	"context"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// ActivityService reads the audit trail.
type ActivityService struct {
	conns *ConnectionService
	repo  domain.ActivityRepository
}

func NewActivityService(conns *ConnectionService, repo domain.ActivityRepository) *ActivityService {
	return &ActivityService{conns: conns, repo: repo}
}

// List returns the newest entries for a connection. limit <= 0 uses the
// default page size.
func (s *ActivityService) List(ctx context.Context, connectionID string, limit int) ([]domain.ActivityEntry, error) {
	if connectionID == "" {
		return nil, domain.ErrValidation("connection id is required")
	}
	return s.repo.List(ctx, connectionID, limit)
}

// ListActive returns the newest entries for the active connection.
func (s *ActivityService) ListActive(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	active, err := s.conns.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, active.ID, limit)
}
