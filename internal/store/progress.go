package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/procknow/internal/domain"
)

// EntityProgress names progress records in StoreError values.
const EntityProgress = "progress"

// ProgressStore persists one ProgressMap per folder.
type ProgressStore interface {
	// Load returns the folder's persisted mapping. A missing, unreadable or
	// corrupt mapping yields an empty map; implementations log the cause
	// instead of returning it.
	Load(ctx context.Context, folder string) domain.ProgressMap

	// Save replaces the folder's mapping with progress.
	Save(ctx context.Context, folder string, progress domain.ProgressMap) error
}

// ValidateFolder rejects folder names that cannot safely name a file or a
// row group.
func ValidateFolder(folder string) error {
	switch {
	case strings.TrimSpace(folder) == "":
		return fmt.Errorf("%w: empty folder name", ErrInvalidEntity)
	case strings.ContainsAny(folder, `/\`+"\x00"), folder == ".", folder == "..":
		return fmt.Errorf("%w: folder %q", ErrInvalidEntity, folder)
	}
	return nil
}

// ValidateProgress checks every record of a mapping before it is saved.
func ValidateProgress(progress domain.ProgressMap) error {
	for key, rec := range progress {
		if key == "" {
			return fmt.Errorf("%w: empty card key", ErrInvalidEntity)
		}
		if err := rec.Validate(0); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidEntity, key, err)
		}
	}
	return nil
}
