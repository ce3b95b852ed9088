package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pgdesk/pgdesk/internal/middleware"
)

// RouterConfig carries the middleware knobs the router needs.
type RouterConfig struct {
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// NewRouter builds the chi router for the JSON API.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/setup", func(r chi.Router) {
			r.Post("/test-connection", h.TestConnection)
			r.Post("/save-connection", h.SaveConnection)
		})

		r.Route("/connections", func(r chi.Router) {
			r.Get("/", h.ListConnections)
			r.Post("/", h.CreateConnection)
			r.Get("/active", h.GetActiveConnection)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetConnection)
				r.Put("/", h.UpdateConnection)
				r.Delete("/", h.DeleteConnection)
				r.Post("/activate", h.ActivateConnection)
				r.Post("/refresh", h.RefreshConnection)
				r.Get("/activity", h.ListActivity)

				r.Route("/tables", func(r chi.Router) {
					r.Get("/", h.ListTables)
					r.Route("/{name}", func(r chi.Router) {
						r.Get("/columns", h.ListColumns)
						r.Get("/data", h.FetchTableData)
						r.Post("/refresh", h.RefreshTable)
						r.Post("/rows", h.InsertRow)
						r.Put("/rows/{pk}/{pkValue}", h.UpdateRow)
						r.Delete("/rows/{pk}/{pkValue}", h.DeleteRow)
					})
				})
			})
		})

		r.Post("/query", h.ExecuteQuery)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/{key}", h.GetSetting)
			r.Put("/{key}", h.PutSetting)
		})
	})

	return r
}
