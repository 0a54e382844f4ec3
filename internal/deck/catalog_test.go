package deck_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCard(name string) deck.Generator {
	return deck.NewGenerator(name, func(*rand.Rand) (domain.Card, error) {
		return domain.Card{
			Name:       name,
			Question:   "question " + name,
			DataType:   domain.DataTypeString,
			Answer:     name,
			Comparison: domain.ComparisonExact,
		}, nil
	})
}

func newCatalog(t *testing.T) (*deck.Catalog, *logger.TestLogBuffer) {
	t.Helper()
	l, buf := logger.GetTestLogger(t)
	return deck.NewCatalog(deck.NewFixedSeeder(42), l), buf
}

func TestFoldersAndTopicsAreSorted(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.Register("zeta", "b", fixedCard("x")))
	require.NoError(t, c.Register("alpha", "z", fixedCard("x")))
	require.NoError(t, c.Register("alpha", "a", fixedCard("x")))

	assert.Equal(t, []string{"alpha", "zeta"}, c.Folders())
	topics, err := c.Topics("alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, topics)

	_, err = c.Topics("missing")
	assert.ErrorIs(t, err, deck.ErrUnknownFolder)
}

func TestRegisterRejectsReservedAndMalformedNames(t *testing.T) {
	c, _ := newCatalog(t)

	assert.ErrorIs(t, c.Register("__pycache__", "t", fixedCard("x")), deck.ErrInvalidName)
	assert.ErrorIs(t, c.Register("math", "__init__", fixedCard("x")), deck.ErrInvalidName)
	assert.ErrorIs(t, c.Register("", "t"), deck.ErrInvalidName)
	assert.ErrorIs(t, c.Register("a.b", "t"), deck.ErrInvalidName)
	assert.Empty(t, c.Folders())
}

func TestDrawBindsTopicAndHandle(t *testing.T) {
	c, _ := newCatalog(t)
	a, b := fixedCard("a"), fixedCard("b")
	require.NoError(t, c.Register("math", "basics", a, b))

	drawn, err := c.Draw(context.Background(), "math.basics")

	require.NoError(t, err)
	require.Len(t, drawn, 2)
	assert.Equal(t, "math.basics", drawn[0].Card.Topic)
	assert.Equal(t, "math.basics.a", drawn[0].Card.QualifiedID())
	assert.Equal(t, "math", drawn[0].Card.Folder())
	assert.Equal(t, "a", drawn[0].Source.ID())
	assert.Equal(t, "b", drawn[1].Source.ID())
}

func TestDrawUnknownTopic(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.Register("math", "basics", fixedCard("a")))

	_, err := c.Draw(context.Background(), "math.advanced")
	assert.ErrorIs(t, err, deck.ErrUnknownTopic)

	_, err = c.Draw(context.Background(), "physics.basics")
	assert.ErrorIs(t, err, deck.ErrUnknownFolder)

	_, err = c.Draw(context.Background(), "nodot")
	assert.ErrorIs(t, err, deck.ErrUnknownTopic)
}

func TestDrawSkipsBrokenGenerators(t *testing.T) {
	c, buf := newCatalog(t)

	failing := deck.NewGenerator("failing", func(*rand.Rand) (domain.Card, error) {
		return domain.Card{}, errors.New("no data")
	})
	panicking := deck.NewGenerator("panicking", func(*rand.Rand) (domain.Card, error) {
		panic("division by zero")
	})
	incomplete := deck.NewGenerator("incomplete", func(*rand.Rand) (domain.Card, error) {
		return domain.Card{Name: "incomplete", Question: "q", DataType: domain.DataTypeString, Answer: "a"}, nil
	})
	badType := deck.NewGenerator("bad_type", func(*rand.Rand) (domain.Card, error) {
		return domain.Card{Name: "bad", Question: "q", DataType: "complex", Answer: 1, Comparison: "exact"}, nil
	})

	require.NoError(t, c.Register("math", "mixed", failing, fixedCard("good"), panicking, incomplete, badType))

	drawn, err := c.Draw(context.Background(), "math.mixed")

	require.NoError(t, err)
	require.Len(t, drawn, 1)
	assert.Equal(t, "good", drawn[0].Card.Name)
	logger.AssertLogContains(t, buf, "skipping card generator")
	logger.AssertLogContains(t, buf, "panicking")
	logger.AssertLogContains(t, buf, "incomplete")
}

func TestDrawEmptyTopic(t *testing.T) {
	c, _ := newCatalog(t)
	require.NoError(t, c.Register("math", "empty"))

	drawn, err := c.Draw(context.Background(), "math.empty")

	require.NoError(t, err)
	assert.Empty(t, drawn)
}

func TestRegenerateUsesHandle(t *testing.T) {
	c, _ := newCatalog(t)
	calls := 0
	gen := deck.NewGenerator("counter", func(r *rand.Rand) (domain.Card, error) {
		calls++
		return domain.Card{
			Name: "counter", Question: "q", DataType: domain.DataTypeInt,
			Answer: r.IntN(1000), Comparison: "exact",
		}, nil
	})
	require.NoError(t, c.Register("math", "regen", gen))

	drawn, err := c.Draw(context.Background(), "math.regen")
	require.NoError(t, err)
	require.Len(t, drawn, 1)

	card, err := c.Regenerate(drawn[0])
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "math.regen", card.Topic)

	_, err = c.Regenerate(deck.Drawn{Card: card})
	assert.Error(t, err)
}

func TestProduceRecoversPanics(t *testing.T) {
	gen := deck.NewGenerator("boom", func(*rand.Rand) (domain.Card, error) {
		var m map[string]int
		m["x"] = 1
		return domain.Card{}, nil
	})

	_, err := deck.Produce(gen, "math.t", deck.NewFixedSeeder(1).Rand())

	assert.ErrorIs(t, err, deck.ErrGeneratorPanic)
}

func TestProduceReportsValidation(t *testing.T) {
	gen := deck.NewGenerator("no_name", func(*rand.Rand) (domain.Card, error) {
		return domain.Card{Question: "q", DataType: domain.DataTypeString, Answer: "a", Comparison: "exact"}, nil
	})

	_, err := deck.Produce(gen, "math.t", deck.NewFixedSeeder(1).Rand())

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}
