package demo

import (
	"math/rand/v2"

	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
)

type situation struct {
	text string
	want bool
}

var situations = []situation{
	{"A colleague asks you to stay two extra hours today. Your rule: on workdays you only say yes if it supports your own priorities.", false},
	{"A friend invites you to a long spontaneous phone call. Your rule: on weekdays, conserve energy unless you initiated the contact.", false},
	{"Someone asks you for a quick favor that aligns with your current goals and costs almost no time.", true},
	{"A team member wants you to lead a task you enjoy, and it fits your development plan.", true},
	{"A distant acquaintance invites you to an event you don't care about, and you already feel tired.", false},
	{"A close friend asks for help with something you value and have time for.", true},
	{"Your inbox shows a request for a task that is not your responsibility and derails your focus.", false},
	{"Someone asks you to join a project that strongly aligns with your long-term goals.", true},
}

// PersonalGrowth returns the generator of demo.personal_growth: one yes/no
// card shown three times, each time with a freshly drawn situation.
func PersonalGrowth() []deck.Generator {
	return []deck.Generator{deck.NewGenerator("personal_yes_no", personalYesNo)}
}

func personalYesNo(r *rand.Rand) (domain.Card, error) {
	s := situations[r.IntN(len(situations))]
	answer := "no"
	if s.want {
		answer = "yes"
	}
	return domain.Card{
		Name:       "personal_yes_no",
		Question:   "Situation:\n\n" + s.text + "\n\nGiven your rule: what is the correct response?",
		DataType:   domain.DataTypeString,
		Answer:     answer,
		Comparison: domain.ComparisonExact,
		Repeat:     3,
		Hint:       "Follow the stated personal rule, not the social pressure.",
	}, nil
}
