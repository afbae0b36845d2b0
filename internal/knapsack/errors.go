package knapsack

import "errors"

var (
	// ErrInvalidCapacity is returned when the truck capacity is negative.
	ErrInvalidCapacity = errors.New("capacity must be a non-negative integer")
	// ErrCatalogTooLarge is returned when brute force is asked to enumerate more subsets than a bitmask can hold.
	ErrCatalogTooLarge = errors.New("too many pallets to enumerate every subset")
	// ErrUnknownAlgorithm is returned for algorithm names that have no solver.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
