// Package jsonfile implements store.ProgressStore with one JSON document
// per folder, named progress_<folder>.json inside a data directory.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/store"
)

// Verify interface compliance at compile time
var _ store.ProgressStore = (*Store)(nil)

// Store keeps progress documents in a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string, logger *slog.Logger) *Store {
	if dir == "" {
		panic("progress directory cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:    dir,
		logger: logger.With(slog.String("component", "json_progress_store")),
	}
}

// Path returns the document path of a folder.
func (s *Store) Path(folder string) string {
	return filepath.Join(s.dir, "progress_"+folder+".json")
}

// Load implements store.ProgressStore. Missing files are expected for new
// folders; unreadable or corrupt files are logged and treated as empty.
func (s *Store) Load(ctx context.Context, folder string) domain.ProgressMap {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateFolder(folder); err != nil {
		log.Warn("refusing to load progress", slog.String("folder", folder), slog.String("error", err.Error()))
		return domain.ProgressMap{}
	}

	data, err := os.ReadFile(s.Path(folder))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("no saved progress", slog.String("folder", folder))
		} else {
			log.Warn("failed to read progress file, starting empty",
				slog.String("folder", folder),
				slog.String("error", err.Error()))
		}
		return domain.ProgressMap{}
	}

	var progress domain.ProgressMap
	if err := json.Unmarshal(data, &progress); err != nil {
		log.Warn("corrupt progress file, starting empty",
			slog.String("folder", folder),
			slog.String("error", err.Error()))
		return domain.ProgressMap{}
	}
	if progress == nil {
		progress = domain.ProgressMap{}
	}
	for key, rec := range progress {
		if rec.WrongLog == nil {
			rec.WrongLog = []string{}
			progress[key] = rec
		}
	}

	log.Debug("loaded progress", slog.String("folder", folder), slog.Int("records", len(progress)))
	return progress
}

// Save implements store.ProgressStore. The document is written to a
// temporary file in the same directory and renamed over the old one, so a
// crash leaves either the previous or the new document.
func (s *Store) Save(ctx context.Context, folder string, progress domain.ProgressMap) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateFolder(folder); err != nil {
		return store.NewStoreError(store.EntityProgress, "save", "invalid folder", err)
	}
	if err := store.ValidateProgress(progress); err != nil {
		return store.NewStoreError(store.EntityProgress, "save", "invalid progress", err)
	}
	if progress == nil {
		progress = domain.ProgressMap{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(progress); err != nil {
		return store.NewStoreError(store.EntityProgress, "save", "failed to encode progress", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return store.NewStoreError(store.EntityProgress, "save", "failed to create data directory",
			fmt.Errorf("%w: %w", store.ErrUnavailable, err))
	}
	if err := writeAtomic(s.Path(folder), buf.Bytes()); err != nil {
		log.Error("failed to save progress",
			slog.String("folder", folder),
			slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityProgress, "save", "failed to write progress file",
			fmt.Errorf("%w: %w", store.ErrUnavailable, err))
	}

	log.Debug("saved progress", slog.String("folder", folder), slog.Int("records", len(progress)))
	return nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
