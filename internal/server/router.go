package server

import (
	"net/http"

	"github.com/sitegrid/sitegrid/internal/config"
	"github.com/sitegrid/sitegrid/internal/server/handlers"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(grids *handlers.GridSet, auth *Auth, limits config.RateLimits, version string) http.Handler {
	mux := http.NewServeMux()

	gridHandler := handlers.NewGridHandler(grids)
	tablesHandler := handlers.NewTablesHandler()
	authHandler := handlers.NewAuthHandler(auth)
	healthHandler := handlers.NewHealthHandler(version)

	readLimiter := NewLimiter(limits.ReadRatePerMin)
	writeLimiter := NewLimiter(limits.WriteRatePerMin)

	authed := RequireAuth(auth)
	read := func(h http.Handler) http.Handler { return authed(Limit(readLimiter)(h)) }
	write := func(h http.Handler) http.Handler { return authed(Limit(writeLimiter)(h)) }

	// Health check and metrics stay unauthenticated so probes work.
	mux.Handle("GET /healthz", Wrap(healthHandler.Health))
	mux.Handle("GET /metrics", MetricsHandler())

	mux.Handle("POST /api/auth/login", Limit(writeLimiter)(Wrap(authHandler.Login)))

	mux.Handle("GET /api/tables", read(Wrap(tablesHandler.ListTables)))

	// Grid view state.
	mux.Handle("GET /api/tables/{table}/grid", read(Wrap(gridHandler.GetGrid)))
	mux.Handle("POST /api/tables/{table}/refresh", read(Wrap(gridHandler.Refresh)))
	mux.Handle("PUT /api/tables/{table}/search", read(Wrap(gridHandler.SetSearch)))
	mux.Handle("PUT /api/tables/{table}/filters/{column}", read(Wrap(gridHandler.SetFilter)))
	mux.Handle("DELETE /api/tables/{table}/filters", read(Wrap(gridHandler.ClearFilters)))
	mux.Handle("PUT /api/tables/{table}/sort", read(Wrap(gridHandler.SetSort)))
	mux.Handle("PUT /api/tables/{table}/page", read(Wrap(gridHandler.SetPage)))

	// Record lifecycle.
	mux.Handle("POST /api/tables/{table}/records", write(Wrap(gridHandler.CreateRecord)))
	mux.Handle("POST /api/tables/{table}/records/{id}/edit", write(Wrap(gridHandler.BeginEdit)))
	mux.Handle("PUT /api/tables/{table}/records/{id}/edit", write(Wrap(gridHandler.CommitEdit)))
	mux.Handle("DELETE /api/tables/{table}/records/{id}/edit", write(Wrap(gridHandler.CancelEdit)))
	mux.Handle("POST /api/tables/{table}/records/{id}/delete", write(Wrap(gridHandler.DeleteRecord)))

	return LogRequests(Instrument(mux))
}
