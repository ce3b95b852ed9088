package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/pgdesk/pgdesk/internal/domain"
	"github.com/pgdesk/pgdesk/internal/target"
)

// IntrospectionService reads live schema information from target databases
// and maintains the cached metadata snapshot in the metastore.
type IntrospectionService struct {
	conns        *ConnectionService
	meta         domain.TableMetaRepository
	introspector *target.Introspector
	logger       *slog.Logger
}

func NewIntrospectionService(conns *ConnectionService, meta domain.TableMetaRepository, introspector *target.Introspector, logger *slog.Logger) *IntrospectionService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &IntrospectionService{conns: conns, meta: meta, introspector: introspector, logger: logger}
}

// ListTables returns the live base tables of a connection. An empty
// connectionID resolves the active connection.
func (s *IntrospectionService) ListTables(ctx context.Context, connectionID string) ([]domain.TableInfo, error) {
	db, _, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return s.introspector.ListTables(ctx, db, "public")
}

// GetColumns returns the live column set of one table, in ordinal order.
func (s *IntrospectionService) GetColumns(ctx context.Context, connectionID, table string) ([]domain.ColumnInfo, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	db, _, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return s.introspector.ListColumns(ctx, db, "public", table)
}

// CachedTables returns the metadata snapshot for a connection without
// touching the target database.
func (s *IntrospectionService) CachedTables(ctx context.Context, connectionID string) ([]domain.TableMetadata, error) {
	conn, err := s.resolveConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return s.meta.ListTables(ctx, conn.ID)
}

// RefreshTable snapshots one table's live column set into the metadata
// cache and returns the cached record.
func (s *IntrospectionService) RefreshTable(ctx context.Context, connectionID, table string) (*domain.TableMetadata, error) {
	if err := domain.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	db, conn, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	return s.snapshotTable(ctx, db, conn.ID, "public", table)
}

// Refresh re-introspects a connection and replaces the cached snapshot:
// new tables are added, column sets are swapped wholesale, and tables that
// no longer exist are dropped from the cache.
func (s *IntrospectionService) Refresh(ctx context.Context, connectionID string) ([]domain.TableMetadata, error) {
	db, conn, err := s.conns.DB(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	live, err := s.introspector.ListTables(ctx, db, "public")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(live))
	var snapshot []domain.TableMetadata
	for _, t := range live {
		seen[t.Schema+"."+t.Name] = true

		cached, err := s.snapshotTable(ctx, db, conn.ID, t.Schema, t.Name)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, *cached)
	}

	existing, err := s.meta.ListTables(ctx, conn.ID)
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		if !seen[t.Schema+"."+t.Name] {
			if err := s.meta.DeleteTable(ctx, t.ID); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("metadata cache refreshed",
		slog.String("connection_id", conn.ID),
		slog.Int("tables", len(snapshot)))
	return snapshot, nil
}

// snapshotTable introspects one table and writes its column set to the
// cache, replacing whatever was stored before.
func (s *IntrospectionService) snapshotTable(ctx context.Context, db *sql.DB, connectionID, schema, table string) (*domain.TableMetadata, error) {
	cols, err := s.introspector.ListColumns(ctx, db, schema, table)
	if err != nil {
		return nil, err
	}

	cached, err := s.meta.UpsertTable(ctx, &domain.TableMetadata{
		ConnectionID: connectionID,
		Name:         table,
		Schema:       schema,
	})
	if err != nil {
		return nil, err
	}

	metaCols := make([]domain.ColumnMetadata, len(cols))
	for i, c := range cols {
		metaCols[i] = domain.ColumnMetadata{
			Name:         c.Name,
			Type:         c.Type,
			Nullable:     c.Nullable,
			IsPrimary:    c.IsPrimary,
			DefaultValue: c.Default,
		}
	}
	if err := s.meta.ReplaceColumns(ctx, cached.ID, metaCols); err != nil {
		return nil, err
	}
	cached.Columns = metaCols
	return cached, nil
}

// resolveConnection looks up a connection, treating an empty ID as the
// active one.
func (s *IntrospectionService) resolveConnection(ctx context.Context, connectionID string) (*domain.Connection, error) {
	if connectionID == "" {
		return s.conns.GetActive(ctx)
	}
	return s.conns.Get(ctx, connectionID)
}
