// Package app provides application-level wiring and dependency injection.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pgdesk/pgdesk/internal/config"
	"github.com/pgdesk/pgdesk/internal/db/crypto"
	"github.com/pgdesk/pgdesk/internal/db/repository"
	"github.com/pgdesk/pgdesk/internal/service"
	"github.com/pgdesk/pgdesk/internal/target"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers that the API handler, UI, and CLI
// need.
type Services struct {
	Connection    *service.ConnectionService
	Introspection *service.IntrospectionService
	Rows          *service.RowService
	Query         *service.QueryService
	Activity      *service.ActivityService
	Setting       *service.SettingService
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Pool     *target.Pool
	Sweeper  *service.RetentionSweeper
}

// New wires repositories and services from the provided deps.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("init encryptor: %w", err)
	}

	// Repositories. Write-pool for repos that INSERT/UPDATE/DELETE,
	// read-pool for the read-only audit listing path.
	connRepo := repository.NewConnectionRepo(deps.WriteDB)
	metaRepo := repository.NewTableMetaRepo(deps.WriteDB)
	activityRepo := repository.NewActivityRepo(deps.WriteDB)
	activityReadRepo := repository.NewActivityRepo(deps.ReadDB)
	settingRepo := repository.NewSettingRepo(deps.WriteDB)

	pool := target.NewPool(logger)
	introspector := target.NewIntrospector()
	accessor := target.NewRowAccessor(introspector)

	connSvc := service.NewConnectionService(connRepo, encryptor, pool, logger)

	return &App{
		Services: Services{
			Connection:    connSvc,
			Introspection: service.NewIntrospectionService(connSvc, metaRepo, introspector, logger),
			Rows:          service.NewRowService(connSvc, accessor, activityRepo, logger),
			Query:         service.NewQueryService(connSvc, accessor, activityRepo, logger),
			Activity:      service.NewActivityService(connSvc, activityReadRepo),
			Setting:       service.NewSettingService(settingRepo),
		},
		Pool:    pool,
		Sweeper: service.NewRetentionSweeper(activityRepo, cfg.ActivityRetentionMax, cfg.ActivitySweepSchedule, logger),
	}, nil
}

// Close releases pooled target-database handles.
func (a *App) Close() {
	a.Sweeper.Stop()
	a.Pool.Close()
}
