package session

import (
	"context"
	"log/slog"

	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/domain/verify"
	"github.com/phrazzld/procknow/internal/platform/logger"
)

// Recorder commits a final verdict. answer is the learner's input; it is
// kept in the failure log only when success is false.
type Recorder interface {
	Record(ctx context.Context, card domain.Card, success bool, answer *string) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, card domain.Card, success bool, answer *string) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, card domain.Card, success bool, answer *string) error {
	return f(ctx, card, success, answer)
}

// Regenerator produces a fresh instance of a drawn card. *deck.Catalog
// implements it.
type Regenerator interface {
	Regenerate(d deck.Drawn) (domain.Card, error)
}

// Options tune a Session.
type Options struct {
	// WeakThreshold is the accuracy below which a card counts as weak.
	WeakThreshold float64
}

// Session is one learner's pass over a topic.
type Session struct {
	regen    Regenerator
	recorder Recorder
	seeder   deck.Seeder
	opts     Options
	logger   *slog.Logger

	state   State
	topic   string
	due     []deck.Drawn
	current *deck.Drawn

	repeatCounter int
	repeatTarget  int

	hintPeeked bool
	proposed   bool
	input      string
}

// New creates an idle session.
func New(regen Regenerator, recorder Recorder, seeder deck.Seeder, opts Options, logger *slog.Logger) *Session {
	if regen == nil {
		panic("regenerator cannot be nil")
	}
	if recorder == nil {
		panic("recorder cannot be nil")
	}
	if seeder == nil {
		panic("seeder cannot be nil")
	}
	if opts.WeakThreshold <= 0 {
		opts.WeakThreshold = domain.DefaultWeakThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		regen:    regen,
		recorder: recorder,
		seeder:   seeder,
		opts:     opts,
		logger:   logger.With(slog.String("component", "session")),
		state:    Idle,
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Topic returns the loaded topic identifier.
func (s *Session) Topic() string {
	return s.topic
}

// Remaining is the number of cards still in the due stack.
func (s *Session) Remaining() int {
	return len(s.due)
}

// Current returns the card on screen, if any.
func (s *Session) Current() (domain.Card, bool) {
	if s.current == nil {
		return domain.Card{}, false
	}
	return s.current.Card, true
}

// LoadTopic replaces the due stack with a shuffled copy of cards. With
// weakOnly set, only cards whose record in snapshot has an accuracy below
// the weak threshold are kept; cards without a record are left out. The
// filter is evaluated once, here.
func (s *Session) LoadTopic(topic string, cards []deck.Drawn, weakOnly bool, snapshot domain.ProgressMap) {
	due := make([]deck.Drawn, len(cards))
	copy(due, cards)
	s.shuffle(due)

	if weakOnly {
		weak := due[:0]
		for _, d := range due {
			if snapshot.IsWeak(d.Card.QualifiedID(), s.opts.WeakThreshold) {
				weak = append(weak, d)
			}
		}
		due = weak
		s.shuffle(due)
	}

	s.topic = topic
	s.due = due
	s.current = nil
	s.repeatCounter, s.repeatTarget = 0, 0
	s.clearAnswer()

	if len(due) == 0 {
		s.state = Completed
	} else {
		s.state = TopicLoaded
	}

	s.logger.Info("topic loaded",
		slog.String("topic", topic),
		slog.Int("drawn", len(cards)),
		slog.Int("due", len(due)),
		slog.Bool("weak_only", weakOnly))
}

func (s *Session) shuffle(cards []deck.Drawn) {
	r := s.seeder.Rand()
	r.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// NextCard advances to the next presentation. While the current card's
// repeat cycle is active it regenerates the card; otherwise it pops the
// next card from the due stack, or completes the session when it is empty.
func (s *Session) NextCard() error {
	switch s.state {
	case Idle:
		return ErrNoTopic
	case AwaitingVerdict:
		return ErrVerdictPending
	case Completed:
		return nil
	}

	if s.current != nil && s.repeatCounter < s.repeatTarget {
		s.regenerate()
		s.repeatCounter++
		s.clearAnswer()
		s.state = CardShown
		return nil
	}

	s.repeatCounter, s.repeatTarget = 0, 0
	s.clearAnswer()

	if len(s.due) == 0 {
		s.current = nil
		s.state = Completed
		s.logger.Info("session completed", slog.String("topic", s.topic))
		return nil
	}

	last := len(s.due) - 1
	next := s.due[last]
	s.due = s.due[:last]

	s.current = &next
	s.repeatTarget = next.Card.Repeat
	s.repeatCounter = 1
	s.state = CardShown
	return nil
}

// regenerate replaces the current card with a fresh instance from its
// generator. On failure the existing instance is shown again.
func (s *Session) regenerate() {
	prev := s.current.Card
	card, err := s.regen.Regenerate(*s.current)
	if err != nil {
		s.logger.Warn("regeneration failed, reusing card",
			slog.String("card", prev.QualifiedID()),
			slog.String("error", err.Error()))
		return
	}
	if card.Name != prev.Name {
		s.logger.Warn("card name changed between repeats",
			slog.String("previous", prev.QualifiedID()),
			slog.String("current", card.QualifiedID()))
	}
	s.current.Card = card
}

// RevealHint returns the current card's hint and marks it as revealed. A
// hint can be revealed once per presentation and only before submitting.
func (s *Session) RevealHint() (string, error) {
	if s.current == nil {
		return "", ErrNoCurrentCard
	}
	if s.state != CardShown || s.hintPeeked || !s.current.Card.HasHint() {
		return "", ErrHintUnavailable
	}
	s.hintPeeked = true
	return s.current.Card.Hint, nil
}

// SubmitAnswer verifies input against the current card and waits for the
// learner's verdict. It returns the proposed verdict.
func (s *Session) SubmitAnswer(input string) (bool, error) {
	if s.state == AwaitingVerdict {
		return false, ErrVerdictPending
	}
	if s.current == nil || s.state != CardShown {
		return false, ErrNoCurrentCard
	}

	s.proposed = verify.Verify(input, s.current.Card)
	s.input = input
	s.state = AwaitingVerdict
	return s.proposed, nil
}

// ResolveVerdict commits the proposed verdict when accepted, or its
// negation when overridden, and advances to the next card. If the recorder
// fails the session stays in AwaitingVerdict so the action can be retried.
func (s *Session) ResolveVerdict(ctx context.Context, accepted bool) error {
	if s.state != AwaitingVerdict {
		return ErrNoVerdictPending
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	outcome := s.proposed
	if !accepted {
		outcome = !outcome
	}

	card := s.current.Card
	input := s.input
	if err := s.recorder.Record(ctx, card, outcome, &input); err != nil {
		log.Error("failed to record verdict",
			slog.String("card", card.QualifiedID()),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("verdict recorded",
		slog.String("card", card.QualifiedID()),
		slog.Bool("proposed", s.proposed),
		slog.Bool("accepted", accepted),
		slog.Bool("success", outcome))

	s.state = CardShown
	return s.NextCard()
}

func (s *Session) clearAnswer() {
	s.hintPeeked = false
	s.proposed = false
	s.input = ""
}
