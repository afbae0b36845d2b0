package knapsack

import (
	"slices"
	"sort"
)

type greedy struct{}

// NewGreedy creates a Solver that ranks pallets by weight-to-profit ratio and
// loads them in that order while they fit. It is not guaranteed optimal.
func NewGreedy() Solver {
	return &greedy{}
}

func (g *greedy) Solve(pallets []Pallet, capacity int) (Solution, error) {
	if err := checkCapacity(capacity); err != nil {
		return Solution{}, err
	}

	ranked := slices.Clone(pallets)
	sort.Slice(ranked, func(i, j int) bool {
		return ranksBefore(ranked[i], ranked[j])
	})

	result := Solution{Pallets: []int{}}
	for _, p := range ranked {
		if result.Weight+p.Weight > capacity {
			continue
		}
		result.Weight += p.Weight
		result.Profit += p.Profit
		result.Pallets = append(result.Pallets, p.ID)
	}
	sort.Ints(result.Pallets)

	return result, nil
}

// ranksBefore orders pallets by ascending weight/profit, compared by
// cross-multiplication, then by descending id. Zero-profit pallets have an
// infinite ratio and rank after every profitable pallet.
func ranksBefore(a, b Pallet) bool {
	switch {
	case a.Profit == 0 && b.Profit != 0:
		return false
	case a.Profit != 0 && b.Profit == 0:
		return true
	case a.Profit != 0:
		lhs := int64(a.Weight) * int64(b.Profit)
		rhs := int64(b.Weight) * int64(a.Profit)
		if lhs != rhs {
			return lhs < rhs
		}
	}
	return a.ID > b.ID
}
