package knapsack

type dynamicProgramming struct {
	better Ordering
}

// NewDynamicProgramming creates a Solver that fills the full
// (pallets+1) x (capacity+1) table of best candidates.
// Memory grows with n*capacity and every cell keeps its own id list.
func NewDynamicProgramming() Solver {
	return &dynamicProgramming{better: Better}
}

func (d *dynamicProgramming) Solve(pallets []Pallet, capacity int) (Solution, error) {
	if err := checkCapacity(capacity); err != nil {
		return Solution{}, err
	}

	n := len(pallets)
	table := make([][]Solution, n+1)
	table[0] = make([]Solution, capacity+1)

	for i := 1; i <= n; i++ {
		p := pallets[i-1]
		prev := table[i-1]
		row := make([]Solution, capacity+1)
		for j := 0; j <= capacity; j++ {
			// an unchanged cell shares the id list of the row above
			row[j] = prev[j]
			if !fits(p, j) {
				continue
			}
			if take := prev[j-p.Weight].with(p); d.better(take, row[j]) {
				row[j] = take
			}
		}
		table[i] = row
	}

	return table[n][capacity].normalized(), nil
}

type dynamicProgramming1D struct {
	better Ordering
}

// NewDynamicProgramming1D creates a Solver that keeps a single row indexed by
// capacity. Each pallet updates the row from capacity down to its weight so it
// contributes at most once to any cell.
func NewDynamicProgramming1D() Solver {
	return &dynamicProgramming1D{better: Better}
}

func (d *dynamicProgramming1D) Solve(pallets []Pallet, capacity int) (Solution, error) {
	if err := checkCapacity(capacity); err != nil {
		return Solution{}, err
	}

	row := make([]Solution, capacity+1)
	for _, p := range pallets {
		if !fits(p, capacity) {
			continue
		}
		for j := capacity; j >= p.Weight; j-- {
			if take := row[j-p.Weight].with(p); d.better(take, row[j]) {
				row[j] = take
			}
		}
	}

	// Scan every cell rather than reading row[capacity]: equal-profit
	// candidates at lower capacities may win the tie-break.
	best := Solution{}
	for _, cell := range row {
		if d.better(cell, best) {
			best = cell
		}
	}

	return best.normalized(), nil
}
