package ilp

import "errors"

var (
	// ErrSolverNotConfigured is returned when no solver command is set.
	ErrSolverNotConfigured = errors.New("ilp solver command is not configured")
	// ErrMalformedOutput is returned when the solver output cannot be understood.
	ErrMalformedOutput = errors.New("malformed ilp solver output")
	// ErrNotOptimal is returned when the solver reports a status other than Optimal.
	ErrNotOptimal = errors.New("ilp solver did not reach an optimal solution")
)
