package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pgdesk/pgdesk/internal/domain"
)

type queryRequest struct {
	SQL    string        `json:"sql"`
	Params []interface{} `json:"params"`
}

// ExecuteQuery runs raw SQL against the active connection. Bind parameters
// are optional.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.query.Execute(r.Context(), req.SQL, req.Params...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListActivity returns a connection's newest audit entries. The limit query
// parameter is optional and clamped server-side.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	entries, err := h.activity.List(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetSetting returns one stored preference.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

// PutSetting upserts a preference. The body is stored as-is and must be
// valid JSON.
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	var value json.RawMessage
	if err := decode(r, &value); err != nil {
		writeError(w, err)
		return
	}
	setting, err := h.settings.Set(r.Context(), chi.URLParam(r, "key"), value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setting)
}
