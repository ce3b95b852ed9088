// Package target talks to the user's PostgreSQL databases. Everything in
// here runs against a registered connection, never against the metastore.
package target

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pgdesk/pgdesk/internal/domain"
)

const pingTimeout = 5 * time.Second

// BuildDSN constructs a key=value PostgreSQL connection string from a
// registered connection. The password must already be decrypted.
func BuildDSN(c *domain.Connection) string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := "disable"
	if c.Secure {
		sslmode = "require"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, c.Database, sslmode)
	if c.Username != "" {
		dsn += fmt.Sprintf(" user=%s", c.Username)
	}
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// Pool hands out one *sql.DB per registered connection, opened lazily and
// reused across requests. Invalidate drops a handle after the connection's
// settings change.
type Pool struct {
	logger *slog.Logger

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewPool(logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pool{
		logger: logger,
		dbs:    make(map[string]*sql.DB),
	}
}

// Get returns the pooled handle for the connection, opening it on first use.
func (p *Pool) Get(ctx context.Context, c *domain.Connection) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.dbs[c.ID]; ok {
		return db, nil
	}

	p.logger.Debug("opening target database",
		slog.String("connection_id", c.ID),
		slog.String("host", c.Host),
		slog.String("database", c.Database))

	db, err := sql.Open("pgx", BuildDSN(c))
	if err != nil {
		return nil, domain.ErrExecution("open target database: %v", err)
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, domain.ErrExecution("connect to %s:%d/%s: %v", c.Host, c.Port, c.Database, err)
	}

	p.dbs[c.ID] = db
	return db, nil
}

// Invalidate closes and forgets the handle for a connection, if any.
func (p *Pool) Invalidate(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.dbs[id]; ok {
		_ = db.Close()
		delete(p.dbs, id)
	}
}

// Close shuts down every pooled handle.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, db := range p.dbs {
		_ = db.Close()
		delete(p.dbs, id)
	}
}

// Ping opens a throwaway connection to verify the settings work, without
// touching the pool. Used by the setup flow before anything is persisted.
func Ping(ctx context.Context, c *domain.Connection) error {
	db, err := sql.Open("pgx", BuildDSN(c))
	if err != nil {
		return domain.ErrExecution("open target database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return domain.ErrExecution("connect to %s:%d/%s: %v", c.Host, c.Port, c.Database, err)
	}
	return nil
}
