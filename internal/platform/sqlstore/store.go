package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/redact"
	"github.com/phrazzld/procknow/internal/store"
)

// Verify interface compliance at compile time
var _ store.ProgressStore = (*Store)(nil)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type dialect struct {
	driver string
	goose  string
}

var dialects = map[string]dialect{
	BackendSQLite:   {driver: "sqlite3", goose: "sqlite3"},
	BackendPostgres: {driver: "pgx", goose: "postgres"},
}

// Store persists progress rows in the card_progress table.
type Store struct {
	db      *sqlx.DB
	dialect dialect
	logger  *slog.Logger
}

// progressRow is the card_progress row layout.
type progressRow struct {
	CardKey  string `db:"card_key"`
	Correct  int    `db:"correct"`
	Wrong    int    `db:"wrong"`
	WrongLog string `db:"wrong_log"`
}

// Open connects to the backend's database and verifies the connection.
func Open(ctx context.Context, backend, dsn string, logger *slog.Logger) (*Store, error) {
	d, ok := dialects[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported sql backend %q", backend)
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if backend == BackendSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", redact.DSN(dsn), MapError(err))
	}

	return newStore(db, d, logger), nil
}

// New wraps an existing connection. backend selects the SQL dialect.
func New(db *sqlx.DB, backend string, logger *slog.Logger) (*Store, error) {
	if db == nil {
		panic("db cannot be nil")
	}
	d, ok := dialects[backend]
	if !ok {
		return nil, fmt.Errorf("unsupported sql backend %q", backend)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return newStore(db, d, logger), nil
}

func newStore(db *sqlx.DB, d dialect, logger *slog.Logger) *Store {
	return &Store{
		db:      db,
		dialect: d,
		logger:  logger.With(slog.String("component", "sql_progress_store"), slog.String("driver", d.driver)),
	}
}

// DB exposes the underlying connection.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements store.ProgressStore. Query failures are logged and yield
// an empty mapping; a row with an unreadable wrong log keeps its counters.
func (s *Store) Load(ctx context.Context, folder string) domain.ProgressMap {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateFolder(folder); err != nil {
		log.Warn("refusing to load progress", slog.String("folder", folder), slog.String("error", err.Error()))
		return domain.ProgressMap{}
	}

	var rows []progressRow
	query := s.db.Rebind(`SELECT card_key, correct, wrong, wrong_log FROM card_progress WHERE folder = ? ORDER BY card_key`)
	if err := s.db.SelectContext(ctx, &rows, query, folder); err != nil {
		log.Warn("failed to load progress, starting empty",
			slog.String("folder", folder),
			slog.String("error", redact.Error(MapError(err))))
		return domain.ProgressMap{}
	}

	progress := make(domain.ProgressMap, len(rows))
	for _, row := range rows {
		rec := domain.ProgressRecord{Correct: row.Correct, Wrong: row.Wrong, WrongLog: []string{}}
		if err := json.Unmarshal([]byte(row.WrongLog), &rec.WrongLog); err != nil || rec.WrongLog == nil {
			if err != nil {
				log.Warn("corrupt wrong log, dropping it",
					slog.String("folder", folder),
					slog.String("card_key", row.CardKey),
					slog.String("error", err.Error()))
			}
			rec.WrongLog = []string{}
		}
		progress[row.CardKey] = rec
	}

	log.Debug("loaded progress", slog.String("folder", folder), slog.Int("records", len(progress)))
	return progress
}

// Save implements store.ProgressStore by replacing the folder's rows in a
// single transaction.
func (s *Store) Save(ctx context.Context, folder string, progress domain.ProgressMap) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateFolder(folder); err != nil {
		return store.NewStoreError(store.EntityProgress, "save", "invalid folder", err)
	}
	if err := store.ValidateProgress(progress); err != nil {
		return store.NewStoreError(store.EntityProgress, "save", "invalid progress", err)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return replaceFolder(ctx, tx, folder, progress)
	})
	if err != nil {
		log.Error("failed to save progress",
			slog.String("folder", folder),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError(store.EntityProgress, "save", "failed to write progress rows", MapError(err))
	}

	log.Debug("saved progress", slog.String("folder", folder), slog.Int("records", len(progress)))
	return nil
}

func replaceFolder(ctx context.Context, tx store.DBTX, folder string, progress domain.ProgressMap) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM card_progress WHERE folder = ?`), folder); err != nil {
		return fmt.Errorf("failed to clear folder: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO card_progress (folder, card_key, correct, wrong, wrong_log, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	now := time.Now().UTC()
	for key, rec := range progress {
		wrongLog := rec.WrongLog
		if wrongLog == nil {
			wrongLog = []string{}
		}
		encoded, err := json.Marshal(wrongLog)
		if err != nil {
			return fmt.Errorf("failed to encode wrong log for %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, insert, folder, key, rec.Correct, rec.Wrong, string(encoded), now); err != nil {
			return fmt.Errorf("failed to insert %s: %w", key, err)
		}
	}
	return nil
}
