package demo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/deck/demo"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/domain/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *deck.Catalog {
	t.Helper()
	c := deck.NewCatalog(deck.NewFixedSeeder(7), nil)
	require.NoError(t, demo.Register(c))
	return c
}

func TestRegisterListsDemoTopics(t *testing.T) {
	c := newCatalog(t)

	assert.Equal(t, []string{demo.Folder}, c.Folders())
	topics, err := c.Topics(demo.Folder)
	require.NoError(t, err)
	assert.Equal(t, []string{"arithmetic", "llm_practice", "personal_growth"}, topics)
}

func TestEveryDemoCardIsValidAndSelfConsistent(t *testing.T) {
	c := newCatalog(t)
	topics, err := c.Topics(demo.Folder)
	require.NoError(t, err)

	for _, topic := range topics {
		id := domain.TopicID(demo.Folder, topic)
		gens, err := c.Generators(id)
		require.NoError(t, err)

		// Many draws per topic so every random branch is exercised.
		for i := 0; i < 50; i++ {
			drawn, err := c.Draw(context.Background(), id)
			require.NoError(t, err)
			require.Len(t, drawn, len(gens), "no generator of %s should be skipped", id)

			for _, d := range drawn {
				require.NoError(t, d.Card.Validate())
				assert.Equal(t, id, d.Card.Topic)
				assert.True(t, verify.Verify(d.Card.StringAnswer(), d.Card),
					"the expected answer of %s must verify", d.Card.QualifiedID())
			}
		}
	}
}

func TestArithmeticCoversDataTypes(t *testing.T) {
	c := newCatalog(t)
	drawn, err := c.Draw(context.Background(), "demo.arithmetic")
	require.NoError(t, err)

	types := map[domain.DataType]bool{}
	repeats := map[string]int{}
	for _, d := range drawn {
		types[d.Card.DataType] = true
		repeats[d.Source.ID()] = d.Card.Repeat
	}
	assert.True(t, types[domain.DataTypeString])
	assert.True(t, types[domain.DataTypeInt])
	assert.True(t, types[domain.DataTypeFloat])
	assert.Equal(t, 2, repeats["gcd_equivalence"])
	assert.Equal(t, 3, repeats["pythagoras_length"])
}

func TestSubtractionAnswerMatchesQuestion(t *testing.T) {
	gen := demo.Arithmetic()[1]
	seeder := deck.NewFixedSeeder(99)

	for i := 0; i < 20; i++ {
		card, err := deck.Produce(gen, "demo.arithmetic", seeder.Rand())
		require.NoError(t, err)

		var a, b int
		_, err = fmt.Sscanf(card.Name, "sub_%d_%d", &a, &b)
		require.NoError(t, err)
		assert.Equal(t, a-b, card.Answer)
		assert.GreaterOrEqual(t, a, 5)
		assert.LessOrEqual(t, b, 4)
	}
}

func TestPersonalGrowthRepeatsThreeTimes(t *testing.T) {
	gens := demo.PersonalGrowth()
	require.Len(t, gens, 1)

	card, err := deck.Produce(gens[0], "demo.personal_growth", deck.NewFixedSeeder(1).Rand())
	require.NoError(t, err)
	assert.Equal(t, 3, card.Repeat)
	assert.Contains(t, []any{"yes", "no"}, card.Answer)
	assert.True(t, strings.HasPrefix(card.Question, "Situation:"))
}

func TestLLMPracticePromptMentionsConstructs(t *testing.T) {
	for _, gen := range demo.LLMPractice() {
		card, err := deck.Produce(gen, "demo.llm_practice", deck.NewFixedSeeder(3).Rand())
		require.NoError(t, err)
		assert.Contains(t, card.Question, "requires* using the following constructs")
		assert.Equal(t, "yes", card.Answer)
	}
}
