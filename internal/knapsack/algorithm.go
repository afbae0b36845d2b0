package knapsack

import (
	"fmt"
	"strings"
)

// Algorithm names a loading strategy.
type Algorithm string

const (
	BruteForce           Algorithm = "brute-force"
	Backtracking         Algorithm = "backtracking"
	DynamicProgramming   Algorithm = "dp"
	DynamicProgramming1D Algorithm = "dp-1d"
	Greedy               Algorithm = "greedy"
	// IntegerProgramming is served by an external solver process, not by this package.
	IntegerProgramming Algorithm = "ilp"
)

var labels = map[Algorithm]string{
	BruteForce:           "Brute-Force",
	Backtracking:         "Backtracking",
	DynamicProgramming:   "Dynamic Programming",
	DynamicProgramming1D: "Dynamic Programming 1D",
	Greedy:               "Greedy",
	IntegerProgramming:   "ILP",
}

// Algorithms lists every strategy in menu order.
func Algorithms() []Algorithm {
	return []Algorithm{BruteForce, Backtracking, DynamicProgramming, DynamicProgramming1D, Greedy, IntegerProgramming}
}

// ParseAlgorithm accepts an algorithm name or its display label, case-insensitively.
func ParseAlgorithm(raw string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, alg := range Algorithms() {
		if name == string(alg) || name == strings.ToLower(labels[alg]) {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, raw)
}

// Label returns the display name used in reports.
func (a Algorithm) Label() string {
	if label, ok := labels[a]; ok {
		return label
	}
	return string(a)
}

// Exact reports whether the strategy always returns an optimal selection.
func (a Algorithm) Exact() bool {
	return a != Greedy && a.Valid()
}

// Exponential reports whether the running time grows with 2^n.
func (a Algorithm) Exponential() bool {
	return a == BruteForce || a == Backtracking
}

// Valid reports whether a names a known strategy.
func (a Algorithm) Valid() bool {
	_, ok := labels[a]
	return ok
}

// New returns the in-process solver for alg.
func New(alg Algorithm) (Solver, error) {
	switch alg {
	case BruteForce:
		return NewBruteForce(), nil
	case Backtracking:
		return NewBacktracking(), nil
	case DynamicProgramming:
		return NewDynamicProgramming(), nil
	case DynamicProgramming1D:
		return NewDynamicProgramming1D(), nil
	case Greedy:
		return NewGreedy(), nil
	default:
		return nil, fmt.Errorf("%w: %q has no in-process solver", ErrUnknownAlgorithm, alg)
	}
}
