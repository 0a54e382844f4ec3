package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/procknow/internal/config"
	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/deck/demo"
	"github.com/phrazzld/procknow/internal/platform/jsonfile"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/platform/sqlstore"
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/session"
	"github.com/phrazzld/procknow/internal/store"
)

// logFileName is the log written inside the data directory while the
// terminal UI owns the screen.
const logFileName = "procknow.log"

// application holds the shared dependencies of every command.
type application struct {
	config *config.Config
	logger *slog.Logger

	store    store.ProgressStore
	sqlStore *sqlstore.Store // nil for the JSON backend
	catalog  *deck.Catalog
	study    *service.StudyService

	closers []io.Closer
}

// appOptions tunes how an application is assembled for a command.
type appOptions struct {
	// autoMigrate applies pending migrations when a SQL backend is opened.
	autoMigrate bool
	// tui sends logs to a file so they do not corrupt the terminal UI.
	tui bool
	// logOut receives logs when no log file applies.
	logOut io.Writer
}

// loadAppConfig loads the configuration for a command.
func loadAppConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newApplication wires the store, the catalog and the study service
// described by cfg.
func newApplication(ctx context.Context, cfg *config.Config, opts appOptions) (*application, error) {
	app := &application{config: cfg}

	out, err := app.logSink(opts)
	if err != nil {
		return nil, err
	}
	app.logger, err = logger.Setup(cfg.Log, out)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	app.logger.Debug("configuration loaded",
		"backend", cfg.Store.Backend,
		"store_dir", cfg.Store.Dir,
		"decks_dir", cfg.Decks.Dir,
		"weak_threshold", cfg.Session.WeakThreshold,
		"wrong_log_size", cfg.Session.WrongLogSize)

	if err := app.openStore(ctx, opts.autoMigrate); err != nil {
		app.cleanup()
		return nil, err
	}

	if err := app.buildCatalog(); err != nil {
		app.cleanup()
		return nil, err
	}

	tracker := service.NewProgressTracker(app.store, cfg.Session.WrongLogSize, app.logger)
	app.study = service.NewStudyService(
		app.catalog,
		app.store,
		tracker,
		session.Options{WeakThreshold: cfg.Session.WeakThreshold},
		app.logger,
	)

	app.logger.Info("application initialized", "folders", len(app.catalog.Folders()))
	return app, nil
}

// logSink picks where log lines go: the configured file, the data directory
// for the terminal UI, or opts.logOut.
func (app *application) logSink(opts appOptions) (io.Writer, error) {
	path := app.config.Log.File
	if path == "" && opts.tui {
		if err := os.MkdirAll(app.config.Store.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		path = filepath.Join(app.config.Store.Dir, logFileName)
	}
	if path == "" {
		if opts.logOut == nil {
			return os.Stderr, nil
		}
		return opts.logOut, nil
	}

	f, err := logger.OpenFile(path)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, f)
	return f, nil
}

func (app *application) openStore(ctx context.Context, autoMigrate bool) error {
	cfg := app.config.Store
	switch cfg.Backend {
	case config.BackendJSON:
		app.store = jsonfile.New(cfg.Dir, app.logger)
		return nil
	case config.BackendSQLite, config.BackendPostgres:
		if cfg.Backend == config.BackendSQLite {
			if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		s, err := sqlstore.Open(ctx, cfg.Backend, cfg.DataSource(), app.logger)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, s)
		if autoMigrate {
			if err := s.Migrate(ctx, sqlstore.MigrateUp); err != nil {
				return err
			}
		}
		app.store = s
		app.sqlStore = s
		return nil
	default:
		return fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

func (app *application) buildCatalog() error {
	app.catalog = deck.NewCatalog(deck.NewClockSeeder(), app.logger)
	if err := demo.Register(app.catalog); err != nil {
		return fmt.Errorf("failed to register demo topics: %w", err)
	}

	if dir := app.config.Decks.Dir; dir != "" {
		n, err := deck.LoadDir(app.catalog, dir, app.logger)
		if err != nil {
			return fmt.Errorf("failed to load decks from %s: %w", dir, err)
		}
		app.logger.Info("static decks loaded", "dir", dir, "topics", n)
	}
	return nil
}

// cleanup releases open files and connections in reverse order.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil && app.logger != nil {
			app.logger.Error("error closing resource", "error", err)
		}
	}
	app.closers = nil
}
