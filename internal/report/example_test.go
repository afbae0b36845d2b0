package report_test

import (
	"os"

	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/report"
)

func ExampleWrite() {
	pallets := []knapsack.Pallet{
		{ID: 1, Weight: 10, Profit: 60},
		{ID: 2, Weight: 20, Profit: 100},
		{ID: 3, Weight: 30, Profit: 120},
	}

	exact, _ := knapsack.NewDynamicProgramming().Solve(pallets, 50)
	_ = report.Write(os.Stdout, knapsack.DynamicProgramming, exact)

	approx, _ := knapsack.NewGreedy().Solve(pallets, 50)
	_ = report.Write(os.Stdout, knapsack.Greedy, approx)

	// Output:
	// [Dynamic Programming] Max Profit: 220
	// Selected Pallets: 2 3
	// [Greedy] Max Profit: 160
	// Selected Pallets: 1 2
}

func ExampleWrite_empty() {
	sol, _ := knapsack.NewBruteForce().Solve([]knapsack.Pallet{{ID: 4, Weight: 5, Profit: 1}}, 0)
	_ = report.Write(os.Stdout, knapsack.BruteForce, sol)

	// Output:
	// [Brute-Force] Max Profit: 0
	// Selected Pallets:
}
