package knapsack

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// randomInstance builds a catalog with shuffled, non-contiguous ids and small
// weights/profits so that ties are frequent.
func randomInstance(r *rand.Rand, n int) ([]Pallet, int) {
	ids := r.Perm(n * 3)[:n]
	pallets := make([]Pallet, n)
	total := 0
	for i := range pallets {
		pallets[i] = Pallet{ID: ids[i] + 1, Weight: r.Intn(12), Profit: r.Intn(10)}
		total += pallets[i].Weight
	}
	return pallets, r.Intn(total + 2)
}

func TestExactStrategiesAgree(t *testing.T) {
	r := rand.New(rand.NewSource(20240611))

	for iter := 0; iter < 300; iter++ {
		pallets, capacity := randomInstance(r, r.Intn(13))

		want, err := NewBruteForce().Solve(pallets, capacity)
		require.NoError(t, err)

		for alg, solver := range exactSolvers() {
			got, err := solver.Solve(pallets, capacity)
			require.NoError(t, err, "%s", alg)
			require.Equal(t, want.Profit, got.Profit, "%s profit on %v cap %d", alg, pallets, capacity)
			require.Equal(t, want.Weight, got.Weight, "%s weight on %v cap %d", alg, pallets, capacity)
			require.Equal(t, want.SortedPallets(), got.SortedPallets(), "%s selection on %v cap %d", alg, pallets, capacity)
		}
	}
}

func TestBacktrackingMatchesBruteForceOnTwentyPallets(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	pallets, capacity := randomInstance(r, 20)

	want, err := NewBruteForce().Solve(pallets, capacity)
	require.NoError(t, err)
	got, err := NewBacktracking().Solve(pallets, capacity)
	require.NoError(t, err)

	require.Equal(t, want.Profit, got.Profit)
	require.Equal(t, want.Pallets, got.Pallets, "both report ids in catalog order")
}

func TestSelectionIsFeasible(t *testing.T) {
	r := rand.New(rand.NewSource(99))

	for iter := 0; iter < 100; iter++ {
		pallets, capacity := randomInstance(r, 1+r.Intn(10))
		byID := make(map[int]Pallet, len(pallets))
		for _, p := range pallets {
			byID[p.ID] = p
		}

		for alg, solver := range allSolvers() {
			got, err := solver.Solve(pallets, capacity)
			require.NoError(t, err)

			weight, profit := 0, 0
			seen := make(map[int]bool)
			for _, id := range got.Pallets {
				p, ok := byID[id]
				require.True(t, ok, "%s selected unknown pallet %d", alg, id)
				require.False(t, seen[id], "%s selected pallet %d twice", alg, id)
				seen[id] = true
				weight += p.Weight
				profit += p.Profit
			}
			require.LessOrEqual(t, weight, capacity, "%s", alg)
			require.Equal(t, profit, got.Profit, "%s", alg)
			require.Equal(t, weight, got.Weight, "%s", alg)
		}
	}
}

func TestGreedyNeverBeatsExact(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for iter := 0; iter < 200; iter++ {
		pallets, capacity := randomInstance(r, r.Intn(12))

		exact, err := NewDynamicProgramming1D().Solve(pallets, capacity)
		require.NoError(t, err)
		approx, err := NewGreedy().Solve(pallets, capacity)
		require.NoError(t, err)

		require.LessOrEqual(t, approx.Profit, exact.Profit)
	}
}

func TestGreedyIsOptimalForUniformPallets(t *testing.T) {
	pallets := make([]Pallet, 8)
	for i := range pallets {
		pallets[i] = Pallet{ID: i + 1, Weight: 3, Profit: 6}
	}

	for _, capacity := range []int{0, 2, 3, 10, 24, 30} {
		exact, err := NewBruteForce().Solve(pallets, capacity)
		require.NoError(t, err)
		approx, err := NewGreedy().Solve(pallets, capacity)
		require.NoError(t, err)

		require.Equal(t, exact.Profit, approx.Profit, "capacity %d", capacity)
	}
}

func TestOneDimensionalRowScanMatchesTable(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for iter := 0; iter < 100; iter++ {
		pallets, capacity := randomInstance(r, r.Intn(15))

		table, err := NewDynamicProgramming().Solve(pallets, capacity)
		require.NoError(t, err)
		row, err := NewDynamicProgramming1D().Solve(pallets, capacity)
		require.NoError(t, err)

		require.Equal(t, table.Profit, row.Profit)
		require.Equal(t, table.SortedPallets(), row.SortedPallets())
	}
}
