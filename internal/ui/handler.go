// Package ui serves a small server-rendered console over the same services
// as the JSON API.
package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	gomponents "maragu.dev/gomponents"

	"github.com/pgdesk/pgdesk/internal/domain"
	"github.com/pgdesk/pgdesk/internal/service"
)

const appCSS = `
body { margin: 0; font-family: system-ui, sans-serif; color: #1f2328; }
.shell { display: flex; min-height: 100vh; }
.sidebar { width: 220px; padding: 16px; background: #f6f8fa; border-right: 1px solid #d0d7de; }
.brand p { margin: 4px 0 16px; }
.nav { display: flex; flex-direction: column; gap: 4px; }
.nav-link { padding: 6px 8px; border-radius: 6px; text-decoration: none; color: inherit; }
.nav-link.active { background: #ddf4ff; font-weight: 600; }
.main { flex: 1; padding: 24px; }
.page-title { margin-top: 0; }
.card { border: 1px solid #d0d7de; border-radius: 6px; padding: 16px; margin-bottom: 16px; }
.muted { color: #656d76; }
.error { border: 1px solid #cf222e; border-radius: 6px; padding: 8px 16px; color: #cf222e; }
table.data { border-collapse: collapse; width: 100%; }
table.data th, table.data td { border: 1px solid #d0d7de; padding: 6px 8px; text-align: left; }
table.data th { background: #f6f8fa; }
.status { text-transform: lowercase; }
.sql-input { width: 100%; font-family: monospace; margin-bottom: 8px; }
`

// Handler renders the console pages. All pages read through the active
// connection.
type Handler struct {
	Conns         *service.ConnectionService
	Introspection *service.IntrospectionService
	Rows          *service.RowService
	Query         *service.QueryService
	Activity      *service.ActivityService
}

func NewHandler(
	conns *service.ConnectionService,
	introspection *service.IntrospectionService,
	rows *service.RowService,
	query *service.QueryService,
	activity *service.ActivityService,
) *Handler {
	return &Handler{
		Conns:         conns,
		Introspection: introspection,
		Rows:          rows,
		Query:         query,
		Activity:      activity,
	}
}

// Routes mounts the console under the given router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.overview)
	r.Get("/connections", h.connections)
	r.Get("/tables", h.tables)
	r.Get("/tables/{name}", h.tableData)
	r.Get("/sql", h.sql)
	r.Post("/sql", h.sql)
	r.Get("/activity", h.activity)
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

// renderServiceError shows a friendly page for expected domain errors and
// a 500 page for the rest.
func renderServiceError(w http.ResponseWriter, title string, err error) {
	status := http.StatusInternalServerError
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	}
	renderHTML(w, status, errorPage(title, err))
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conns, err := h.Conns.List(ctx)
	if err != nil {
		renderServiceError(w, "Overview", err)
		return
	}

	var active *domain.Connection
	tableCount := 0
	if a, err := h.Conns.GetActive(ctx); err == nil {
		active = a
		if cached, err := h.Introspection.CachedTables(ctx, a.ID); err == nil {
			tableCount = len(cached)
		}
	}

	renderHTML(w, http.StatusOK, overviewPage(active, len(conns), tableCount))
}

func (h *Handler) connections(w http.ResponseWriter, r *http.Request) {
	conns, err := h.Conns.List(r.Context())
	if err != nil {
		renderServiceError(w, "Connections", err)
		return
	}
	renderHTML(w, http.StatusOK, connectionsPage(conns))
}

func (h *Handler) tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Introspection.ListTables(r.Context(), "")
	if err != nil {
		renderServiceError(w, "Tables", err)
		return
	}
	renderHTML(w, http.StatusOK, tablesPage(tables))
}

func (h *Handler) tableData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	cols, err := h.Introspection.GetColumns(ctx, "", name)
	if err != nil {
		renderServiceError(w, name, err)
		return
	}
	page, err := h.Rows.FetchPage(ctx, "", name, domain.PageRequest{}, "", false)
	if err != nil {
		renderServiceError(w, name, err)
		return
	}
	renderHTML(w, http.StatusOK, tableDataPage(name, page, cols))
}

func (h *Handler) sql(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderHTML(w, http.StatusOK, sqlPage("", nil, nil))
		return
	}

	if err := r.ParseForm(); err != nil {
		renderServiceError(w, "SQL", domain.ErrValidation("invalid form: %v", err))
		return
	}
	sqlText := r.PostFormValue("sql")

	result, err := h.Query.Execute(r.Context(), sqlText)
	renderHTML(w, http.StatusOK, sqlPage(sqlText, result, err))
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Activity.ListActive(r.Context(), 50)
	if err != nil {
		renderServiceError(w, "Activity", err)
		return
	}
	renderHTML(w, http.StatusOK, activityPage(entries))
}
