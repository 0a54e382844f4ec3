package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/phrazzld/procknow/internal/domain"
)

// ErrGeneratorPanic is returned by Produce when a generator panics.
var ErrGeneratorPanic = errors.New("generator panicked")

// Generator produces one card record per call. Generators only fill in the
// card content; the topic binding is attached by the catalog.
type Generator interface {
	// ID is a stable name for the generator, unique within its topic.
	ID() string
	// Generate draws a new card using r as its only source of randomness.
	Generate(r *rand.Rand) (domain.Card, error)
}

// GenerateFunc is the signature of a plain generator function.
type GenerateFunc func(r *rand.Rand) (domain.Card, error)

type funcGenerator struct {
	id string
	fn GenerateFunc
}

func (g funcGenerator) ID() string { return g.id }

func (g funcGenerator) Generate(r *rand.Rand) (domain.Card, error) { return g.fn(r) }

// NewGenerator wraps fn as a Generator with the given id.
func NewGenerator(id string, fn GenerateFunc) Generator {
	if fn == nil {
		panic("generator function cannot be nil")
	}
	return funcGenerator{id: id, fn: fn}
}

// Drawn is a card together with the handle of the generator that produced it.
type Drawn struct {
	Card   domain.Card
	Source Generator
}

// Produce runs gen with r, binds the result to topic and validates it.
// Errors returned or raised by the generator come back as errors; Produce
// itself never panics.
func Produce(gen Generator, topic string, r *rand.Rand) (card domain.Card, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			card = domain.Card{}
			err = fmt.Errorf("%w: %s: %v", ErrGeneratorPanic, gen.ID(), rec)
		}
	}()

	card, err = gen.Generate(r)
	if err != nil {
		return domain.Card{}, fmt.Errorf("generator %s: %w", gen.ID(), err)
	}
	card.Topic = topic
	if err := card.Validate(); err != nil {
		return domain.Card{}, fmt.Errorf("generator %s produced an invalid card: %w", gen.ID(), err)
	}
	return card, nil
}
