package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/aussiebroadwan/idtoolkit/internal/emulator/http"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/service"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store"
	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store/drivers/sqlite"
	"github.com/aussiebroadwan/idtoolkit/pkg/cryptox"
	"github.com/aussiebroadwan/idtoolkit/pkg/jwtx"
	"github.com/aussiebroadwan/idtoolkit/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/aussiebroadwan/idtoolkit/internal/emulator/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the emulator with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	registry   *prometheus.Registry

	// Services
	tokenService   *service.TokenService
	accountService *service.AccountService
	oobService     *service.OobService
	sweeper        *service.Sweeper

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "idtoolkit-emulator",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		ProjectID: app.cfg.ProjectID,
		NumKeys:   app.cfg.NumKeys,
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager
	app.logger.Info("signing keys generated", "count", keyManager.NumSigners())

	app.initMetrics()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed HTTP handler, for serving in-process.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run serves until ctx is cancelled or the server fails, then drains
// in-flight requests, stops the sweeper and closes the database.
func (app *Application) Run(ctx context.Context) error {
	app.logger.Info("emulator starting",
		"port", app.cfg.Port,
		"project_id", app.cfg.ProjectID,
		"version", BuildVersion,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.sweeper.Run(ctx)
	})
	g.Go(func() error {
		if err := app.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		app.logger.Info("shutting down emulator")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.cfg.ShutdownGracePeriod)
		defer cancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("graceful server shutdown failed", "error", err)
			return app.server.Close()
		}
		return nil
	})

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error("error closing database", "error", cerr)
		err = errors.Join(err, cerr)
	}

	app.logger.Info("emulator stopped")
	return err
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	metrics := service.NewMetrics(app.registry)

	app.tokenService = &service.TokenService{
		KeyManager: app.keyManager,
		Store:      app.db,
		ProjectID:  app.cfg.ProjectID,
		IDTokenTTL: app.cfg.IDTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
		Metrics:    metrics,
	}

	app.accountService = &service.AccountService{
		Store:            app.db,
		Tokens:           app.tokenService,
		DisableAnonymous: app.cfg.DisableAnonymous,
		DisablePassword:  app.cfg.DisablePassword,
	}
	if app.cfg.CustomTokenSecret != "" {
		app.accountService.CustomTokenSecret = []byte(app.cfg.CustomTokenSecret)
	} else {
		app.logger.Info("custom token sign-in disabled, set EMULATOR_CUSTOM_TOKEN_SECRET to enable")
	}

	app.oobService = &service.OobService{
		Store:   app.db,
		Tokens:  app.tokenService,
		CodeTTL: app.cfg.OobCodeTTL,
		Metrics: metrics,
	}

	app.sweeper = &service.Sweeper{
		Store:    app.db,
		Logger:   app.logger,
		Interval: app.cfg.HousekeepingInterval,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		BuildVersion,
		app.db,
		app.registry,
		app.logger,
	)

	router.APIKeys = app.cfg.APIKeys
	router.AccountService = app.accountService
	router.TokenService = app.tokenService
	router.OobService = app.oobService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
