package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// connectionRequest is the JSON payload for creating or testing a
// connection. The password arrives in plaintext over the wire and is
// encrypted before it touches the metastore.
type connectionRequest struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	Secure   bool   `json:"secure"`
}

func (req connectionRequest) toDomain() *domain.Connection {
	return &domain.Connection{
		Name:     req.Name,
		Host:     req.Host,
		Port:     req.Port,
		Database: req.Database,
		Username: req.Username,
		Password: req.Password,
		Secure:   req.Secure,
	}
}

// connectionUpdateRequest carries a partial update: absent fields are left
// unchanged.
type connectionUpdateRequest struct {
	Name     *string `json:"name"`
	Host     *string `json:"host"`
	Port     *int    `json:"port"`
	Database *string `json:"database"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Secure   *bool   `json:"secure"`
}

// TestConnection verifies candidate settings against a live database
// without persisting anything.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.conns.Test(r.Context(), req.toDomain()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "connection successful"})
}

// SaveConnection persists a connection and makes it the active one.
func (h *Handler) SaveConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	saved, err := h.conns.SaveAndActivate(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) ListConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := h.conns.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if conns == nil {
		conns = []domain.Connection{}
	}
	writeJSON(w, http.StatusOK, conns)
}

func (h *Handler) GetConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.conns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// GetActiveConnection returns the single active connection, or 404 when
// none has been activated yet.
func (h *Handler) GetActiveConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.conns.GetActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func (h *Handler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.conns.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.conns.Update(r.Context(), chi.URLParam(r, "id"), domain.ConnectionUpdate{
		Name:     req.Name,
		Host:     req.Host,
		Port:     req.Port,
		Database: req.Database,
		Username: req.Username,
		Password: req.Password,
		Secure:   req.Secure,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.conns.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActivateConnection makes one connection active, deactivating the rest.
func (h *Handler) ActivateConnection(w http.ResponseWriter, r *http.Request) {
	activated, err := h.conns.Activate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activated)
}
