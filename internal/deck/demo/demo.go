// Package demo provides built-in topics so a fresh install has something to
// study: arithmetic drills, a personal-growth decision drill and
// self-assessed programming practice with an LLM.
package demo

import (
	"github.com/phrazzld/procknow/internal/deck"
)

// Folder is the catalog folder holding the demo topics.
const Folder = "demo"

// Topic names
const (
	TopicArithmetic     = "arithmetic"
	TopicPersonalGrowth = "personal_growth"
	TopicLLMPractice    = "llm_practice"
)

// Register adds every demo topic to the catalog.
func Register(c *deck.Catalog) error {
	topics := map[string][]deck.Generator{
		TopicArithmetic:     Arithmetic(),
		TopicPersonalGrowth: PersonalGrowth(),
		TopicLLMPractice:    LLMPractice(),
	}
	for topic, gens := range topics {
		if err := c.Register(Folder, topic, gens...); err != nil {
			return err
		}
	}
	return nil
}
