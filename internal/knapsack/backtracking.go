package knapsack

import "slices"

type backtracking struct {
	better Ordering
}

// NewBacktracking creates a Solver that walks exclude/include decisions in
// catalog order and abandons a branch once it exceeds the capacity.
func NewBacktracking() Solver {
	return &backtracking{better: Better}
}

func (b *backtracking) Solve(pallets []Pallet, capacity int) (Solution, error) {
	if err := checkCapacity(capacity); err != nil {
		return Solution{}, err
	}

	s := &search{
		pallets:  pallets,
		capacity: capacity,
		better:   b.better,
		current:  make([]int, 0, len(pallets)),
	}
	s.visit(0, 0, 0)

	return s.best.normalized(), nil
}

type search struct {
	pallets  []Pallet
	capacity int
	better   Ordering

	current []int
	best    Solution
}

func (s *search) visit(index, weight, profit int) {
	if weight > s.capacity {
		return
	}
	if index == len(s.pallets) {
		if profit < s.best.Profit {
			return
		}
		candidate := Solution{Profit: profit, Weight: weight, Pallets: slices.Clone(s.current)}
		if s.better(candidate, s.best) {
			s.best = candidate
		}
		return
	}

	s.visit(index+1, weight, profit)

	p := s.pallets[index]
	s.current = append(s.current, p.ID)
	s.visit(index+1, weight+p.Weight, profit+p.Profit)
	s.current = s.current[:len(s.current)-1]
}
