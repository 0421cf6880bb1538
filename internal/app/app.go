package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/famhub/famhub/internal/config"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/rest"
	"github.com/famhub/famhub/pkg/tabular"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, tabular store, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(store, cfg)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	// Frontend
	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler("frontend", "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         ":8181",
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// OpenStore builds the configured tabular store backend.
func OpenStore(ctx context.Context, cfg config.Store) (tabular.Store, error) {
	switch cfg.Backend {
	case "sheets":
		return tabular.NewSheetsStore(ctx, cfg.Sheets.SpreadsheetId, cfg.Sheets.CredentialsFile)
	case "postgres":
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		// db is closed on process exit; the store owns it for the server's lifetime.
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		return tabular.NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected \"sheets\" or \"postgres\")", cfg.Backend)
	}
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}
