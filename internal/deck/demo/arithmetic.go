package demo

import (
	"fmt"
	"math/rand/v2"

	"github.com/phrazzld/procknow/internal/deck"
	"github.com/phrazzld/procknow/internal/domain"
)

// Arithmetic returns the generators of demo.arithmetic. Together they cover
// every data type, tolerance comparison, hints and repeats.
func Arithmetic() []deck.Generator {
	return []deck.Generator{
		deck.NewGenerator("addition_commutativity", additionCommutativity),
		deck.NewGenerator("subtraction_simple", subtractionSimple),
		deck.NewGenerator("circle_area", circleArea),
		deck.NewGenerator("gcd_equivalence", gcdEquivalence),
		deck.NewGenerator("definition_even", definitionEven),
		deck.NewGenerator("pythagoras_length", pythagorasLength),
	}
}

// between returns a uniform integer in [lo, hi].
func between(r *rand.Rand, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

func additionCommutativity(r *rand.Rand) (domain.Card, error) {
	a, b := between(r, 1, 9), between(r, 1, 9)
	return domain.Card{
		Name:       fmt.Sprintf("add_comm_%d_%d", a, b),
		Question:   fmt.Sprintf("Compute $ %d + %d $ and $ %d + %d $. Are they equal?", a, b, b, a),
		DataType:   domain.DataTypeString,
		Answer:     "yes",
		Comparison: domain.ComparisonExact,
		Hint:       "Addition is commutative: order does not change the result.",
	}, nil
}

func subtractionSimple(r *rand.Rand) (domain.Card, error) {
	a, b := between(r, 5, 15), between(r, 1, 4)
	return domain.Card{
		Name:       fmt.Sprintf("sub_%d_%d", a, b),
		Question:   fmt.Sprintf("What is $ %d - %d $? (integer answer)", a, b),
		DataType:   domain.DataTypeInt,
		Answer:     a - b,
		Comparison: domain.ComparisonExact,
	}, nil
}

func circleArea(r *rand.Rand) (domain.Card, error) {
	radius := between(r, 1, 5)
	return domain.Card{
		Name:       fmt.Sprintf("circle_area_r%d", radius),
		Question:   fmt.Sprintf("Given radius $r=%d$, compute the area of the circle. Use $\\pi \\approx 3.14$.", radius),
		DataType:   domain.DataTypeFloat,
		Answer:     3.14 * float64(radius*radius),
		Comparison: "tol=0.1",
		Hint:       "Use formula $A = \\pi r^2$.",
	}, nil
}

func gcdEquivalence(*rand.Rand) (domain.Card, error) {
	return domain.Card{
		Name: "gcd_equiv",
		Question: "Which of the following equivalences hold for the greatest common divisor?\n" +
			"1. $\\text{gcd}(a,b) = \\text{gcd}(b,a)$\n" +
			"2. $\\text{gcd}(a,b) = \\text{gcd}(-a,b)$\n" +
			"3. $\\text{gcd}(a,b) = \\text{gcd}(a-b,b)$\n" +
			"Answer all numbers that hold, separated by commas.",
		DataType:   domain.DataTypeString,
		Answer:     "1,2,3",
		Comparison: domain.ComparisonExact,
		Repeat:     2,
		Hint:       "GCD is symmetric and stable under subtraction.",
	}, nil
}

func definitionEven(*rand.Rand) (domain.Card, error) {
	return domain.Card{
		Name:       "def_even",
		Question:   "Define what it means for an integer $n$ to be even.",
		DataType:   domain.DataTypeString,
		Answer:     "n is divisible by 2",
		Comparison: domain.ComparisonExact,
	}, nil
}

func pythagorasLength(*rand.Rand) (domain.Card, error) {
	return domain.Card{
		Name:       "pythagoras_3_4",
		Question:   "Find the hypotenuse length $c$ when $a=3$ and $b=4$ using $c=\\sqrt{a^2+b^2}$.",
		DataType:   domain.DataTypeFloat,
		Answer:     5.0,
		Comparison: "tol=0.01",
		Repeat:     3,
		Hint:       "Apply Pythagoras' theorem.",
	}, nil
}
