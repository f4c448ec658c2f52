// Package server exposes substitution and global-variable management
// over a REST API, for embedding subst in a host process or running it
// as a sidecar.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsubst/subst/pkg/logging"
	"github.com/getsubst/subst/pkg/subst"
	"github.com/getsubst/subst/pkg/vars"
)

// API serves the substitution endpoints. The vars store it is built
// with doubles as the engine's global scope.
type API struct {
	engine     *subst.Engine
	vars       *vars.Store
	httpServer *http.Server
	port       int
	startTime  time.Time
	log        *slog.Logger
	version    string
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// WithVars seeds the API with an existing store instead of an empty one.
func WithVars(store *vars.Store) Option {
	return func(a *API) {
		if store != nil {
			a.vars = store
		}
	}
}

// WithVersion sets the version string reported by /health.
func WithVersion(version string) Option {
	return func(a *API) {
		a.version = version
	}
}

// New creates an API listening on the given port once started.
func New(port int, opts ...Option) *API {
	a := &API{
		vars:    vars.New(),
		port:    port,
		log:     logging.Nop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(a)
	}
	a.engine = subst.New(a.vars)

	mux := http.NewServeMux()
	a.registerRoutes(mux)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      a.withRequestLog(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return a
}

func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("POST /render", a.handleRender)
	mux.HandleFunc("GET /vars", a.handleListVars)
	mux.HandleFunc("GET /vars/{key}", a.handleGetVar)
	mux.HandleFunc("PUT /vars/{key}", a.handlePutVar)
	mux.HandleFunc("DELETE /vars/{key}", a.handleDeleteVar)
}

// Handler returns the full handler chain, for tests and embedding.
func (a *API) Handler() http.Handler {
	return a.httpServer.Handler
}

// Vars returns the global variable store backing the API.
func (a *API) Vars() *vars.Store {
	return a.vars
}

// Start begins serving in a background goroutine.
func (a *API) Start() error {
	a.startTime = time.Now()
	a.log.Info("starting subst API", "port", a.port)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("subst API error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down.
func (a *API) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.httpServer.Shutdown(ctx)
}

// Uptime returns seconds since Start.
func (a *API) Uptime() int {
	return int(time.Since(a.startTime).Seconds())
}
