package knapsack

import (
	"fmt"
	"slices"
)

// Pallet is a unit of cargo with a caller-assigned identifier.
type Pallet struct {
	ID     int `json:"id" yaml:"id"`
	Weight int `json:"weight" yaml:"weight"`
	Profit int `json:"profit" yaml:"profit"`
}

// Solution is a feasible selection of pallets.
// Pallets holds the selected ids in the order the producing strategy reports
// them; use SortedPallets to compare selections.
type Solution struct {
	Profit  int
	Weight  int
	Pallets []int
}

// Size returns the number of selected pallets.
func (s Solution) Size() int {
	return len(s.Pallets)
}

// SortedPallets returns a copy of the selected ids in ascending order.
func (s Solution) SortedPallets() []int {
	out := make([]int, len(s.Pallets))
	copy(out, s.Pallets)
	slices.Sort(out)
	return out
}

// with returns a new solution extending s by p. The receiver is never modified.
func (s Solution) with(p Pallet) Solution {
	ids := make([]int, len(s.Pallets), len(s.Pallets)+1)
	copy(ids, s.Pallets)
	return Solution{
		Profit:  s.Profit + p.Profit,
		Weight:  s.Weight + p.Weight,
		Pallets: append(ids, p.ID),
	}
}

func (s Solution) normalized() Solution {
	if s.Pallets == nil {
		s.Pallets = []int{}
	}
	return s
}

// Solver describes the behaviour required from a loading strategy.
type Solver interface {
	Solve(pallets []Pallet, capacity int) (Solution, error)
}

func checkCapacity(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return nil
}

// fits reports whether p can be placed in a DP cell of the given capacity.
// Negative weights are never placed so the table index stays in range.
func fits(p Pallet, capacity int) bool {
	return p.Weight >= 0 && p.Weight <= capacity
}
