// Package ilp delegates pallet selection to an external integer programming
// solver.
//
// The instance is written as a truck file and a pallet file in a temporary
// directory and the configured command is run with both paths appended to its
// arguments. The command must print lines of the form
//
//	Status: Optimal
//	Total Profit: 220
//	Total Weight: 50
//	Selected Pallets: [2, 3]
//
// Selected ids are reported in ascending order.
package ilp
