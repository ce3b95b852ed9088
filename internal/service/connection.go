// Package service implements the application's use cases on top of the
// metastore repositories and the target-database layer.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/pgdesk/pgdesk/internal/db/crypto"
	"github.com/pgdesk/pgdesk/internal/domain"
	"github.com/pgdesk/pgdesk/internal/target"
)

// ConnectionService manages the connection registry. Passwords are
// encrypted before they reach the metastore and decrypted only when a
// live handle is needed.
type ConnectionService struct {
	repo      domain.ConnectionRepository
	encryptor *crypto.Encryptor
	pool      *target.Pool
	logger    *slog.Logger
}

func NewConnectionService(repo domain.ConnectionRepository, encryptor *crypto.Encryptor, pool *target.Pool, logger *slog.Logger) *ConnectionService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ConnectionService{repo: repo, encryptor: encryptor, pool: pool, logger: logger}
}

func (s *ConnectionService) List(ctx context.Context) ([]domain.Connection, error) {
	return s.repo.List(ctx)
}

func (s *ConnectionService) Get(ctx context.Context, id string) (*domain.Connection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ConnectionService) GetActive(ctx context.Context) (*domain.Connection, error) {
	return s.repo.GetActive(ctx)
}

// Create validates and persists a new connection. The password arrives in
// plaintext and is stored encrypted.
func (s *ConnectionService) Create(ctx context.Context, c *domain.Connection) (*domain.Connection, error) {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	encrypted, err := s.encryptor.Encrypt(c.Password)
	if err != nil {
		return nil, fmt.Errorf("encrypt password: %w", err)
	}
	c.Password = encrypted

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Info("connection registered",
		slog.String("connection_id", created.ID),
		slog.String("name", created.Name))
	return created, nil
}

// Update applies a partial update and drops any pooled handle so the next
// request reconnects with the new settings.
func (s *ConnectionService) Update(ctx context.Context, id string, upd domain.ConnectionUpdate) (*domain.Connection, error) {
	if upd.Port != nil && (*upd.Port < 1 || *upd.Port > 65535) {
		return nil, domain.ErrValidation("port must be between 1 and 65535")
	}
	if upd.Password != nil {
		encrypted, err := s.encryptor.Encrypt(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("encrypt password: %w", err)
		}
		upd.Password = &encrypted
	}

	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.pool.Invalidate(id)
	return updated, nil
}

func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.pool.Invalidate(id)
	s.logger.Info("connection removed", slog.String("connection_id", id))
	return nil
}

func (s *ConnectionService) Activate(ctx context.Context, id string) (*domain.Connection, error) {
	return s.repo.Activate(ctx, id)
}

// Test verifies plaintext settings reach a live database. Nothing is
// persisted; the setup flow calls this before saving.
func (s *ConnectionService) Test(ctx context.Context, c *domain.Connection) error {
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	return target.Ping(ctx, c)
}

// SaveAndActivate persists a connection and makes it the active one in a
// single call. Used by the first-run setup flow.
func (s *ConnectionService) SaveAndActivate(ctx context.Context, c *domain.Connection) (*domain.Connection, error) {
	created, err := s.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.repo.Activate(ctx, created.ID)
}

// decrypted returns a copy of the connection with the password in
// plaintext, ready to build a DSN.
func (s *ConnectionService) decrypted(c *domain.Connection) (*domain.Connection, error) {
	plain, err := s.encryptor.Decrypt(c.Password)
	if err != nil {
		return nil, fmt.Errorf("decrypt password: %w", err)
	}
	copied := *c
	copied.Password = plain
	return &copied, nil
}

// DB resolves a connection by ID and returns a pooled handle to its
// database. An empty ID resolves the active connection.
func (s *ConnectionService) DB(ctx context.Context, id string) (*sql.DB, *domain.Connection, error) {
	var (
		conn *domain.Connection
		err  error
	)
	if id == "" {
		conn, err = s.repo.GetActive(ctx)
	} else {
		conn, err = s.repo.GetByID(ctx, id)
	}
	if err != nil {
		return nil, nil, err
	}

	plain, err := s.decrypted(conn)
	if err != nil {
		return nil, nil, err
	}
	db, err := s.pool.Get(ctx, plain)
	if err != nil {
		return nil, nil, err
	}
	return db, conn, nil
}
