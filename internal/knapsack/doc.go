// Package knapsack solves the 0/1 pallet loading problem: choose the subset of
// pallets with the highest total profit whose total weight fits a truck's
// capacity.
//
// Five strategies are provided. Brute force, backtracking and both dynamic
// programming engines are exact and rank candidates with Better, so they
// return the same selection for the same input. Greedy is a heuristic with its
// own ranking and may return less profit than the exact strategies.
//
// Every strategy is a pure function of the pallets and the capacity.
package knapsack
