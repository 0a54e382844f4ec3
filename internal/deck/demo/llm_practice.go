package demo

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
)

var constructs = []string{
	"numbers", "strings", "lists", "dictionaries", "sets",
	"for-loops", "while-loops", "if-else", "functions", "recursion",
	"classes", "exceptions", "list comprehensions", "file I/O",
	"sorting", "lambda expressions",
}

const promptRule = "----------------------------------------\n"

// llmLevel describes one self-assessed practice card. The learner answers
// "yes" when they solved the exercise, so "yes" is the expected answer.
type llmLevel struct {
	name        string
	language    string
	minK, maxK  int
	constraints []string
	intro       string
	outro       string
	hint        string
}

var llmLevels = []llmLevel{
	{
		name:     "llm_practice_basic",
		language: "beginner-friendly Python",
		minK:     2, maxK: 3,
		constraints: []string{
			"The exercise should be suitable for a beginner,",
			"should be solvable in under 20 lines of code,",
			"and should involve some clear input and output.",
		},
		intro: "Put the following prompt into a large language model.\n" +
			"Then try to solve the programming exercise it returns without asking it for the solution.\n\n" +
			"When you come back here, answer:\n" +
			"- 'yes' if you solved it completely on your own,\n" +
			"- 'no' if you did not fully solve it.\n\n",
		hint: "Be honest. This log is for you. 'No' is not failure, it is training data.",
	},
	{
		name:     "llm_practice_intermediate",
		language: "intermediate-level Python",
		minK:     3, maxK: 4,
		constraints: []string{
			"The exercise should take about 20-40 minutes to solve,",
			"should require breaking the problem down into smaller functions,",
			"and should include at least one non-trivial edge case.",
		},
		intro: "Use a large language model to generate and then solve a programming problem.\n\n" +
			"Steps:\n" +
			"1. Copy the prompt below into an LLM.\n" +
			"2. Read the exercise it returns.\n" +
			"3. Solve it on your own in your editor or REPL.\n" +
			"4. Only if you are stuck, you may ask the LLM for hints (not the full solution).\n\n" +
			"Back here, answer:\n" +
			"- 'yes' if you ended up with a working solution you understand,\n" +
			"- 'no' otherwise.\n\n",
		outro: "Also: briefly describe the real-world scenario this exercise could come from.\n",
		hint:  "Focus on the constructs mentioned. If you struggled, 'no' is useful feedback.",
	},
	{
		name:     "llm_practice_advanced",
		language: "more advanced Python",
		minK:     4, maxK: 5,
		constraints: []string{
			"The problem should have two parts (A and B),",
			"where B builds on A and adds one extra requirement.",
			"The exercise should mention time complexity considerations.",
		},
		intro: "Advanced self-training with an LLM.\n\n" +
			"1. Copy the prompt below into a large language model.\n" +
			"2. Let it generate the two-part programming challenge.\n" +
			"3. Solve Part A and Part B on your own.\n" +
			"4. Optionally, ask the LLM to review your solution afterwards.\n\n" +
			"When you return, answer:\n" +
			"- 'yes' if you solved both parts and understand your solution,\n" +
			"- 'no' if you did not fully solve them or needed the LLM to write key parts.\n\n",
		hint: "If you only solved Part A, be strict with yourself and answer 'no'.",
	},
}

// LLMPractice returns the generators of demo.llm_practice.
func LLMPractice() []deck.Generator {
	gens := make([]deck.Generator, 0, len(llmLevels))
	for _, level := range llmLevels {
		gens = append(gens, deck.NewGenerator(level.name, level.generate))
	}
	return gens
}

func (l llmLevel) generate(r *rand.Rand) (domain.Card, error) {
	picked := pickConstructs(r, l.minK, l.maxK)
	prompt := fmt.Sprintf(
		"Give me a %s programming exercise that *requires* using the following constructs: %s. %s "+
			"Do not provide the solution, only the problem statement.",
		l.language, strings.Join(picked, ", "), strings.Join(l.constraints, " "))

	return domain.Card{
		Name:       l.name,
		Question:   l.intro + "Prompt to send to the LLM:\n" + promptRule + prompt + "\n" + l.outro + promptRule,
		DataType:   domain.DataTypeString,
		Answer:     "yes",
		Comparison: domain.ComparisonExact,
		Repeat:     3,
		Hint:       l.hint,
	}, nil
}

// pickConstructs samples between lo and hi distinct constructs.
func pickConstructs(r *rand.Rand, lo, hi int) []string {
	k := between(r, lo, hi)
	out := make([]string, 0, k)
	for _, i := range r.Perm(len(constructs))[:k] {
		out = append(out, constructs[i])
	}
	return out
}
