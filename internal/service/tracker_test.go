package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/jsonfile"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func trackedCard(name string) domain.Card {
	return domain.Card{
		Name:       name,
		Question:   "q",
		DataType:   domain.DataTypeString,
		Answer:     "a",
		Comparison: domain.ComparisonExact,
		Topic:      "algebra.linear",
	}
}

func strPtr(s string) *string { return &s }

func newFileTracker(t *testing.T) (*ProgressTracker, *jsonfile.Store) {
	t.Helper()
	l, _ := logger.GetTestLogger(t)
	fs := jsonfile.New(t.TempDir(), l)
	return NewProgressTracker(fs, domain.DefaultWrongLogSize, l), fs
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()
	card := trackedCard("slope")

	t.Run("first failure creates record", func(t *testing.T) {
		tracker, fs := newFileTracker(t)
		m := domain.ProgressMap{}

		require.NoError(t, tracker.RecordResult(ctx, card, m, false, strPtr("3")))

		want := domain.ProgressRecord{Correct: 0, Wrong: 1, WrongLog: []string{"3"}}
		assert.Equal(t, want, m["algebra.linear.slope"])
		assert.Equal(t, want, fs.Load(ctx, "algebra")["algebra.linear.slope"])
	})

	t.Run("success leaves wrong log alone", func(t *testing.T) {
		tracker, _ := newFileTracker(t)
		m := domain.ProgressMap{"algebra.linear.slope": {Correct: 1, Wrong: 1, WrongLog: []string{"x"}}}

		require.NoError(t, tracker.RecordResult(ctx, card, m, true, strPtr("a")))

		assert.Equal(t, domain.ProgressRecord{Correct: 2, Wrong: 1, WrongLog: []string{"x"}}, m["algebra.linear.slope"])
	})

	t.Run("failure without answer only counts", func(t *testing.T) {
		tracker, _ := newFileTracker(t)
		m := domain.ProgressMap{}

		require.NoError(t, tracker.RecordResult(ctx, card, m, false, nil))

		assert.Equal(t, 1, m["algebra.linear.slope"].Wrong)
		assert.Empty(t, m["algebra.linear.slope"].WrongLog)
	})

	t.Run("wrong log keeps the most recent answers", func(t *testing.T) {
		tracker, fs := newFileTracker(t)
		m := domain.ProgressMap{}

		for i := 1; i <= 7; i++ {
			require.NoError(t, tracker.RecordResult(ctx, card, m, false, strPtr(fmt.Sprint(i))))
		}

		rec := fs.Load(ctx, "algebra")["algebra.linear.slope"]
		assert.Equal(t, 7, rec.Wrong)
		assert.Equal(t, []string{"3", "4", "5", "6", "7"}, rec.WrongLog)
	})

	t.Run("other records are saved too", func(t *testing.T) {
		tracker, fs := newFileTracker(t)
		m := domain.ProgressMap{"algebra.linear.intercept": {Correct: 4, WrongLog: []string{}}}

		require.NoError(t, tracker.RecordResult(ctx, card, m, true, nil))

		saved := fs.Load(ctx, "algebra")
		assert.Len(t, saved, 2)
		assert.Equal(t, 4, saved["algebra.linear.intercept"].Correct)
	})

	t.Run("custom retention", func(t *testing.T) {
		l, _ := logger.GetTestLogger(t)
		tracker := NewProgressTracker(jsonfile.New(t.TempDir(), l), 2, l)
		m := domain.ProgressMap{}

		for _, a := range []string{"x", "y", "z"} {
			require.NoError(t, tracker.RecordResult(ctx, card, m, false, strPtr(a)))
		}

		assert.Equal(t, []string{"y", "z"}, m["algebra.linear.slope"].WrongLog)
	})

	t.Run("nil mapping", func(t *testing.T) {
		tracker, _ := newFileTracker(t)

		err := tracker.RecordResult(ctx, card, nil, true, nil)

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestRecordResultSaveFailureKeepsProgress(t *testing.T) {
	ctx := context.Background()
	l, logs := logger.GetTestLogger(t)
	ms := &MockProgressStore{}
	writeErr := store.NewStoreError(store.EntityProgress, "save", "write failed", store.ErrUnavailable)
	ms.On("Save", mock.Anything, "algebra", mock.AnythingOfType("domain.ProgressMap")).Return(writeErr)

	tracker := NewProgressTracker(ms, 5, l)
	original := domain.ProgressRecord{Correct: 1, WrongLog: []string{}}
	m := domain.ProgressMap{"algebra.linear.slope": original}

	err := tracker.RecordResult(ctx, trackedCard("slope"), m, false, strPtr("bad"))

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	var svcErr *ServiceError
	assert.True(t, errors.As(err, &svcErr))
	assert.Equal(t, original, m["algebra.linear.slope"])
	logger.AssertLogContains(t, logs, "failed to save progress")
	ms.AssertExpectations(t)
}

func TestRecordResultSavesWholeFolder(t *testing.T) {
	ctx := context.Background()
	ms := &MockProgressStore{}
	ms.On("Save", mock.Anything, "algebra", mock.MatchedBy(func(p domain.ProgressMap) bool {
		return len(p) == 2 && p["algebra.linear.slope"].Correct == 1
	})).Return(nil).Once()

	tracker := NewProgressTracker(ms, 0, nil)
	m := domain.ProgressMap{"algebra.quadratic.root": {Wrong: 2, WrongLog: []string{"1", "2"}}}

	require.NoError(t, tracker.RecordResult(ctx, trackedCard("slope"), m, true, nil))
	ms.AssertExpectations(t)
}

func TestNewProgressTrackerPanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() { NewProgressTracker(nil, 5, nil) })
}
