package knapsack

import (
	"fmt"
	"math/bits"
)

// maxEnumerable is the largest catalog whose subsets fit a uint64 counter.
const maxEnumerable = 62

type bruteForce struct {
	better Ordering
}

// NewBruteForce creates a Solver that evaluates all 2^n subsets.
func NewBruteForce() Solver {
	return &bruteForce{better: Better}
}

func (b *bruteForce) Solve(pallets []Pallet, capacity int) (Solution, error) {
	if err := checkCapacity(capacity); err != nil {
		return Solution{}, err
	}
	n := len(pallets)
	if n > maxEnumerable {
		return Solution{}, fmt.Errorf("%w: %d pallets, at most %d", ErrCatalogTooLarge, n, maxEnumerable)
	}

	best := Solution{}
	subsets := uint64(1) << n
	for mask := uint64(0); mask < subsets; mask++ {
		weight, profit := 0, 0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				weight += pallets[i].Weight
				profit += pallets[i].Profit
			}
		}
		// the ordering never prefers less profit, skip building the id list
		if weight > capacity || profit < best.Profit {
			continue
		}

		candidate := Solution{
			Profit:  profit,
			Weight:  weight,
			Pallets: make([]int, 0, bits.OnesCount64(mask)),
		}
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				candidate.Pallets = append(candidate.Pallets, pallets[i].ID)
			}
		}
		if b.better(candidate, best) {
			best = candidate
		}
	}

	return best.normalized(), nil
}
