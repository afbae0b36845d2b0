package dataset

import "errors"

var (
	// ErrMalformed is returned when a file does not follow the expected layout.
	ErrMalformed = errors.New("malformed dataset file")
	// ErrDuplicateID is returned when two pallets share an id.
	ErrDuplicateID = errors.New("duplicate pallet id")
	// ErrNegativeValue is returned for negative capacity, weight or profit.
	ErrNegativeValue = errors.New("negative value in dataset")
)
