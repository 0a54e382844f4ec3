package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/session"
	"github.com/phrazzld/procknow/internal/store"
)

// StartResult is returned when a topic is loaded.
type StartResult struct {
	SessionID   string       `json:"session_id"`
	View        session.View `json:"view"`
	Performance []StatsRow   `json:"performance"`
}

// StudyService owns the single study session of the process and the live
// progress mapping of the folder being studied. It is not safe for
// concurrent use; presentations serialize access.
type StudyService struct {
	catalog *deck.Catalog
	store   store.ProgressStore
	tracker *ProgressTracker
	opts    session.Options
	logger  *slog.Logger

	sessionID uuid.UUID
	topic     string
	progress  domain.ProgressMap
	sess      *session.Session
}

// NewStudyService creates a StudyService with no active session.
func NewStudyService(
	catalog *deck.Catalog,
	progressStore store.ProgressStore,
	tracker *ProgressTracker,
	opts session.Options,
	logger *slog.Logger,
) *StudyService {
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if progressStore == nil {
		panic("progress store cannot be nil")
	}
	if tracker == nil {
		panic("progress tracker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyService{
		catalog: catalog,
		store:   progressStore,
		tracker: tracker,
		opts:    opts,
		logger:  logger.With(slog.String("component", "study_service")),
	}
}

// Folders lists the folders that can be studied.
func (s *StudyService) Folders() []string {
	return s.catalog.Folders()
}

// Topics lists the topics of a folder.
func (s *StudyService) Topics(folder string) ([]string, error) {
	return s.catalog.Topics(folder)
}

// Stats computes the statistics table of a folder from its persisted
// mapping.
func (s *StudyService) Stats(ctx context.Context, folder string, sortKey SortKey, desc bool) (FolderStats, error) {
	if _, err := s.catalog.Topics(folder); err != nil {
		return FolderStats{}, err
	}
	return ComputeFolderStats(folder, s.store.Load(ctx, folder), sortKey, desc), nil
}

// Start draws every card of topicID and begins a new session over them,
// replacing any previous one. With weakOnly set, only cards whose recorded
// accuracy is below the weak threshold are studied.
func (s *StudyService) Start(ctx context.Context, topicID string, weakOnly bool) (StartResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	drawn, err := s.catalog.Draw(ctx, topicID)
	if err != nil {
		return StartResult{}, err
	}

	folder := domain.FolderOf(topicID)
	progress := s.store.Load(ctx, folder)

	recorder := session.RecorderFunc(func(ctx context.Context, card domain.Card, success bool, answer *string) error {
		return s.tracker.RecordResult(ctx, card, progress, success, answer)
	})
	sess := session.New(s.catalog, recorder, s.catalog.Seeder(), s.opts, s.logger)
	sess.LoadTopic(topicID, drawn, weakOnly, progress)
	if err := sess.NextCard(); err != nil {
		return StartResult{}, NewServiceError("start", "failed to show first card", err)
	}

	s.sessionID = uuid.New()
	s.topic = topicID
	s.progress = progress
	s.sess = sess

	log.Info("study session started",
		slog.String("session_id", s.sessionID.String()),
		slog.String("topic", topicID),
		slog.Bool("weak_only", weakOnly))

	return StartResult{
		SessionID:   s.sessionID.String(),
		View:        sess.View(),
		Performance: TopicPerformance(topicID, progress),
	}, nil
}

// SessionID returns the identifier of the active session, or "".
func (s *StudyService) SessionID() string {
	if s.sess == nil {
		return ""
	}
	return s.sessionID.String()
}

// View returns the active session's presentation snapshot.
func (s *StudyService) View() (session.View, error) {
	sess, err := s.active()
	if err != nil {
		return session.View{}, err
	}
	return sess.View(), nil
}

// Performance returns the active topic's statistics rows, including the
// results recorded during the session.
func (s *StudyService) Performance() ([]StatsRow, error) {
	if _, err := s.active(); err != nil {
		return nil, err
	}
	return TopicPerformance(s.topic, s.progress), nil
}

// Hint reveals the current card's hint.
func (s *StudyService) Hint() (session.View, error) {
	sess, err := s.active()
	if err != nil {
		return session.View{}, err
	}
	if _, err := sess.RevealHint(); err != nil {
		return session.View{}, err
	}
	return sess.View(), nil
}

// Answer submits the learner's answer and returns the view carrying the
// proposed verdict.
func (s *StudyService) Answer(input string) (session.View, error) {
	sess, err := s.active()
	if err != nil {
		return session.View{}, err
	}
	if _, err := sess.SubmitAnswer(input); err != nil {
		return session.View{}, err
	}
	return sess.View(), nil
}

// Verdict accepts or overrides the proposed verdict, records it and moves
// to the next card.
func (s *StudyService) Verdict(ctx context.Context, accepted bool) (session.View, error) {
	sess, err := s.active()
	if err != nil {
		return session.View{}, err
	}
	if err := sess.ResolveVerdict(ctx, accepted); err != nil {
		return session.View{}, err
	}
	return sess.View(), nil
}

func (s *StudyService) active() (*session.Session, error) {
	if s.sess == nil {
		return nil, ErrNoSession
	}
	return s.sess, nil
}
