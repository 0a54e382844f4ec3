package api

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/phrazzld/procknow/internal/api/shared"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/session"
)

// StudyHandler handles study-related HTTP requests. The study service is
// single-learner and not safe for concurrent use, so every request holds
// the handler's mutex.
type StudyHandler struct {
	mu      sync.Mutex
	service *service.StudyService
	logger  *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(svc *service.StudyService, logger *slog.Logger) *StudyHandler {
	if svc == nil {
		panic("study service cannot be nil for StudyHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		service: svc,
		logger:  logger.With(slog.String("component", "study_handler")),
	}
}

// ListFolders handles GET /api/folders.
func (h *StudyHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	shared.RespondWithJSON(w, r, http.StatusOK, FoldersResponse{Folders: h.service.Folders()})
}

// ListTopics handles GET /api/folders/{folder}/topics.
func (h *StudyHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	folder, err := getPathParam(r, "folder")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	topics, err := h.service.Topics(folder)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list topics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TopicsResponse{Folder: folder, Topics: topics})
}

// FolderStats handles GET /api/folders/{folder}/stats?sort=&asc=.
func (h *StudyHandler) FolderStats(w http.ResponseWriter, r *http.Request) {
	folder, err := getPathParam(r, "folder")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	sortKey, desc, err := parseStatsQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	stats, err := h.service.Stats(r.Context(), folder, sortKey, desc)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// StartSession handles POST /api/session. It loads a topic and shows the
// first card, replacing any running session.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	topicID := domain.TopicID(req.Folder, req.Topic)
	result, err := h.service.Start(r.Context(), topicID, req.WeakOnly)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	log.Debug("session started",
		slog.String("session_id", result.SessionID),
		slog.String("topic", topicID))
	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{
		SessionID:   result.SessionID,
		View:        result.View,
		Performance: result.Performance,
	})
}

// GetSession handles GET /api/session.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.respondWithView(w, r)(h.service.View())
}

// RevealHint handles POST /api/session/hint.
func (h *StudyHandler) RevealHint(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.respondWithView(w, r)(h.service.Hint())
}

// SubmitAnswer handles POST /api/session/answer.
func (h *StudyHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.respondWithView(w, r)(h.service.Answer(*req.Answer))
}

// ResolveVerdict handles POST /api/session/verdict. A storage failure
// leaves the verdict pending so the request can be repeated.
func (h *StudyHandler) ResolveVerdict(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req VerdictRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.respondWithView(w, r)(h.service.Verdict(r.Context(), *req.Accepted))
}

// respondWithView returns a function writing a service result: the view
// on success, the mapped error otherwise. The caller holds h.mu.
func (h *StudyHandler) respondWithView(w http.ResponseWriter, r *http.Request) func(session.View, error) {
	return func(view session.View, err error) {
		if err != nil {
			HandleAPIError(w, r, err, "Failed to update session")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
			SessionID: h.service.SessionID(),
			View:      view,
		})
	}
}
