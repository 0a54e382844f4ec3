package session

import "github.com/phrazzld/procknow/internal/domain"

// View is a presentation snapshot of a Session. Presentations render it
// and enable their controls from its signals; they never read session
// internals.
type View struct {
	State State  `json:"state"`
	Topic string `json:"topic"`

	// Card content; empty when no card is shown.
	CardID   string          `json:"card_id,omitempty"`
	Question string          `json:"question,omitempty"`
	DataType domain.DataType `json:"data_type,omitempty"`

	// Hint is set once the hint has been revealed.
	Hint          string `json:"hint,omitempty"`
	HintAvailable bool   `json:"hint_available"`

	// AnswerEnabled is true while the learner may submit an answer.
	AnswerEnabled bool `json:"answer_enabled"`
	// VerdictActionsEnabled is true while accept/override is possible.
	VerdictActionsEnabled bool `json:"verdict_actions_enabled"`

	Remaining   int `json:"remaining"`
	RepeatIndex int `json:"repeat_index,omitempty"`
	RepeatTotal int `json:"repeat_total,omitempty"`

	// Set after submission.
	ProposedVerdict *bool  `json:"proposed_verdict,omitempty"`
	Input           string `json:"input,omitempty"`
	ExpectedAnswer  string `json:"expected_answer,omitempty"`
}

// View returns the current presentation snapshot.
func (s *Session) View() View {
	v := View{
		State:     s.state,
		Topic:     s.topic,
		Remaining: len(s.due),
	}
	if s.current == nil {
		return v
	}

	card := s.current.Card
	v.CardID = card.QualifiedID()
	v.Question = card.Question
	v.DataType = card.DataType
	v.RepeatIndex = s.repeatCounter
	v.RepeatTotal = max(s.repeatTarget, 1)

	if s.hintPeeked {
		v.Hint = card.Hint
	}
	v.HintAvailable = s.state == CardShown && card.HasHint() && !s.hintPeeked
	v.AnswerEnabled = s.state == CardShown

	if s.state == AwaitingVerdict {
		proposed := s.proposed
		v.ProposedVerdict = &proposed
		v.Input = s.input
		v.ExpectedAnswer = card.StringAnswer()
		v.VerdictActionsEnabled = true
	}
	return v
}
