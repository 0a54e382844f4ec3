package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/store"
)

// ProgressTracker applies committed verdicts to progress mappings.
type ProgressTracker struct {
	store  store.ProgressStore
	keep   int
	logger *slog.Logger
}

// NewProgressTracker creates a tracker that retains the last keep wrong
// answers per card. A non-positive keep uses domain.DefaultWrongLogSize.
func NewProgressTracker(progressStore store.ProgressStore, keep int, logger *slog.Logger) *ProgressTracker {
	if progressStore == nil {
		panic("progress store cannot be nil")
	}
	if keep <= 0 {
		keep = domain.DefaultWrongLogSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressTracker{
		store:  progressStore,
		keep:   keep,
		logger: logger.With(slog.String("component", "progress_tracker")),
	}
}

// RecordResult increments the card's counter in m and persists the whole
// folder mapping. On failure a non-nil answer joins the card's wrong log.
// m is the live mapping of the card's folder; it is only changed after the
// save succeeded, so a failed write leaves progress as it was.
func (t *ProgressTracker) RecordResult(
	ctx context.Context,
	card domain.Card,
	m domain.ProgressMap,
	success bool,
	answer *string,
) error {
	log := logger.FromContextOrDefault(ctx, t.logger)

	if m == nil {
		return NewServiceError("record_result", "progress mapping is nil", domain.ErrValidation)
	}

	folder := card.Folder()
	key := card.QualifiedID()

	next := m.Clone()
	next[key] = m[key].WithResult(success, answer, t.keep)

	if err := t.store.Save(ctx, folder, next); err != nil {
		log.Error("failed to save progress",
			slog.String("folder", folder),
			slog.String("card", key),
			slog.String("error", err.Error()))
		return NewServiceError("record_result", "failed to save progress", err)
	}

	m[key] = next[key]
	log.Debug("result recorded",
		slog.String("card", key),
		slog.Bool("success", success),
		slog.Int("correct", next[key].Correct),
		slog.Int("wrong", next[key].Wrong))
	return nil
}
