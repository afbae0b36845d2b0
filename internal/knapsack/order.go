package knapsack

import "slices"

// Ordering reports whether a ranks strictly above b.
type Ordering func(a, b Solution) bool

// Better is the tie-break ordering shared by the exact strategies.
// a ranks above b when it has more profit; on equal profit, when it has fewer
// pallets; on equal size, when its ids sorted ascending are lexicographically
// smaller than b's.
func Better(a, b Solution) bool {
	if a.Profit != b.Profit {
		return a.Profit > b.Profit
	}
	if len(a.Pallets) != len(b.Pallets) {
		return len(a.Pallets) < len(b.Pallets)
	}
	return slices.Compare(a.SortedPallets(), b.SortedPallets()) < 0
}
