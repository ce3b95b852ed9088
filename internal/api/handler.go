// Package api exposes the console's JSON REST surface.
package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/pgdesk/pgdesk/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	conns         *service.ConnectionService
	introspection *service.IntrospectionService
	rows          *service.RowService
	query         *service.QueryService
	activity      *service.ActivityService
	settings      *service.SettingService
	logger        *slog.Logger
}

func NewHandler(
	conns *service.ConnectionService,
	introspection *service.IntrospectionService,
	rows *service.RowService,
	query *service.QueryService,
	activity *service.ActivityService,
	settings *service.SettingService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		conns:         conns,
		introspection: introspection,
		rows:          rows,
		query:         query,
		activity:      activity,
		settings:      settings,
		logger:        logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
