// Package verify decides whether a learner's free-text answer matches a
// card's expected answer. Verification is pure and never fails: input that
// cannot be parsed for the card's data type is simply incorrect.
package verify

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/phrazzld/procknow/internal/domain"
)

// Verify compares input with the card's answer under the card's data type
// and comparison mode.
func Verify(input string, card domain.Card) bool {
	switch card.DataType {
	case domain.DataTypeFloat:
		return verifyFloat(input, card)
	case domain.DataTypeInt:
		return verifyInt(input, card)
	default:
		return Normalize(input) == Normalize(card.StringAnswer())
	}
}

func verifyFloat(input string, card domain.Card) bool {
	got, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(got) {
		return false
	}
	want, ok := card.FloatAnswer()
	if !ok {
		return false
	}
	cmp, err := domain.ParseComparison(card.Comparison)
	if err != nil {
		return false
	}
	// exact on a float card has tolerance 0
	return math.Abs(got-want) <= cmp.Tolerance
}

func verifyInt(input string, card domain.Card) bool {
	got, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return false
	}
	want, ok := card.IntAnswer()
	return ok && got == want
}

// Normalize lower-cases s and removes every whitespace rune, so "  Y e S "
// and "yes" compare equal.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
