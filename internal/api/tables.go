package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// ListTables returns the live table list of a connection.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.introspection.ListTables(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if tables == nil {
		tables = []domain.TableInfo{}
	}
	writeJSON(w, http.StatusOK, tables)
}

// ListColumns returns the live column set of one table.
func (h *Handler) ListColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := h.introspection.GetColumns(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

// RefreshConnection re-introspects every live table of a connection and
// replaces the metadata cache snapshot, dropping cached tables that no
// longer exist.
func (h *Handler) RefreshConnection(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.introspection.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if snapshot == nil {
		snapshot = []domain.TableMetadata{}
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// RefreshTable snapshots one table's live schema into the metadata cache.
func (h *Handler) RefreshTable(w http.ResponseWriter, r *http.Request) {
	cached, err := h.introspection.RefreshTable(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cached)
}

// FetchTableData returns one page of a table's rows. Query parameters:
// page, pageSize, sortBy, sortOrder (asc|desc).
func (h *Handler) FetchTableData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := domain.PageRequest{}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := q.Get("pageSize"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.PageSize = n
		}
	}
	orderBy := q.Get("sortBy")
	descending := strings.EqualFold(q.Get("sortOrder"), "desc")

	page, err := h.rows.FetchPage(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"), req, orderBy, descending)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// InsertRow adds a row and returns it as stored.
func (h *Handler) InsertRow(w http.ResponseWriter, r *http.Request) {
	var values domain.Row
	if err := decode(r, &values); err != nil {
		writeError(w, err)
		return
	}
	row, err := h.rows.Insert(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"), values)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// UpdateRow modifies the row addressed by /rows/{pk}/{pkValue}.
func (h *Handler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	var values domain.Row
	if err := decode(r, &values); err != nil {
		writeError(w, err)
		return
	}
	row, err := h.rows.Update(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "name"),
		chi.URLParam(r, "pk"), chi.URLParam(r, "pkValue"), values)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// DeleteRow removes the row addressed by /rows/{pk}/{pkValue}. The body
// reports whether a row was actually removed; deleting an absent key is
// not an error.
func (h *Handler) DeleteRow(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.rows.Delete(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "name"),
		chi.URLParam(r, "pk"), chi.URLParam(r, "pkValue"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
