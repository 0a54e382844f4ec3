package api

import (
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/session"
)

// StartSessionRequest defines the payload for starting a study session.
type StartSessionRequest struct {
	Folder   string `json:"folder"    validate:"required,max=128,excludes=."`
	Topic    string `json:"topic"     validate:"required,max=256"`
	WeakOnly bool   `json:"weak_only"`
}

// AnswerRequest defines the payload for submitting an answer. An empty
// answer is allowed; a missing one is not.
type AnswerRequest struct {
	Answer *string `json:"answer" validate:"required,max=4096"`
}

// VerdictRequest defines the payload for accepting or overriding the
// proposed verdict.
type VerdictRequest struct {
	Accepted *bool `json:"accepted" validate:"required"`
}

// FoldersResponse lists the folders that can be studied.
type FoldersResponse struct {
	Folders []string `json:"folders"`
}

// TopicsResponse lists the topics of a folder.
type TopicsResponse struct {
	Folder string   `json:"folder"`
	Topics []string `json:"topics"`
}

// SessionResponse carries the state of the study session.
type SessionResponse struct {
	SessionID string       `json:"session_id"`
	View      session.View `json:"view"`

	// Performance lists the topic's recorded results; only set when a
	// session starts.
	Performance []service.StatsRow `json:"performance,omitempty"`
}
