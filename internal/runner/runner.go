// Package runner executes loading strategies on datasets, measures how long
// each run takes and records the outcome.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/ilp"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/results"
)

const (
	// DefaultMaxExhaustivePallets bounds brute force and backtracking unless overridden.
	DefaultMaxExhaustivePallets = 25
	// DefaultMaxTableCells bounds the table the dynamic programming strategies allocate.
	DefaultMaxTableCells = 5_000_000
)

var (
	// ErrTooManyPallets is returned when an exponential strategy is asked to run on a catalog above the limit.
	ErrTooManyPallets = errors.New("too many pallets for an exhaustive algorithm")
	// ErrTableTooLarge is returned when a dynamic programming table for the
	// requested capacity would exceed the configured number of cells.
	ErrTableTooLarge = errors.New("capacity too large for a dynamic programming table")
	// ErrUnavailable is returned for strategies that are known but not set up, such as ILP without a command.
	ErrUnavailable = errors.New("algorithm is not available")
)

// Runner resolves algorithms to solvers and times them.
type Runner struct {
	solvers       map[knapsack.Algorithm]knapsack.Solver
	ilp           *ilp.Solver
	recorder      results.Recorder
	logger        *zap.Logger
	clock         func() time.Time
	newID         func() string
	maxExhaustive int
	maxCells      int
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder stores every successful run in rec.
func WithRecorder(rec results.Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithIntegerProgramming enables the external ILP strategy.
func WithIntegerProgramming(s *ilp.Solver) Option {
	return func(r *Runner) {
		r.ilp = s
	}
}

// WithMaxExhaustivePallets overrides the catalog size limit for brute force and backtracking.
// Zero or a negative value disables the limit.
func WithMaxExhaustivePallets(n int) Option {
	return func(r *Runner) {
		r.maxExhaustive = n
	}
}

// WithMaxTableCells caps the cells a dynamic programming table may hold: one
// row of capacity+1 cells per pallet plus one for dp, a single row for dp-1d.
// Zero or a negative value disables the limit.
func WithMaxTableCells(n int) Option {
	return func(r *Runner) {
		r.maxCells = n
	}
}

// WithClock overrides the time source used for record timestamps, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// WithIDGenerator overrides run id generation, primarily for tests.
func WithIDGenerator(gen func() string) Option {
	return func(r *Runner) {
		r.newID = gen
	}
}

// New creates a Runner with every in-process strategy registered.
func New(logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		solvers:       make(map[knapsack.Algorithm]knapsack.Solver),
		logger:        logger,
		clock:         func() time.Time { return time.Now().UTC() },
		newID:         func() string { return uuid.NewString() },
		maxExhaustive: DefaultMaxExhaustivePallets,
		maxCells:      DefaultMaxTableCells,
	}
	for _, alg := range knapsack.Algorithms() {
		if solver, err := knapsack.New(alg); err == nil {
			r.solvers[alg] = solver
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available lists the algorithms this Runner can execute, in menu order.
func (r *Runner) Available() []knapsack.Algorithm {
	out := make([]knapsack.Algorithm, 0, len(knapsack.Algorithms()))
	for _, alg := range knapsack.Algorithms() {
		if r.available(alg) {
			out = append(out, alg)
		}
	}
	return out
}

func (r *Runner) available(alg knapsack.Algorithm) bool {
	if alg == knapsack.IntegerProgramming {
		return r.ilp != nil && r.ilp.Configured()
	}
	_, ok := r.solvers[alg]
	return ok
}

// Run solves ds with alg and records the outcome.
func (r *Runner) Run(ctx context.Context, alg knapsack.Algorithm, ds dataset.Dataset) (results.Record, error) {
	if !alg.Valid() {
		return results.Record{}, fmt.Errorf("%w: %q", knapsack.ErrUnknownAlgorithm, alg)
	}
	if !r.available(alg) {
		return results.Record{}, fmt.Errorf("%w: %s", ErrUnavailable, alg)
	}
	if alg.Exponential() && r.maxExhaustive > 0 && len(ds.Pallets) > r.maxExhaustive {
		return results.Record{}, fmt.Errorf("%w: %s on %d pallets, limit %d", ErrTooManyPallets, alg, len(ds.Pallets), r.maxExhaustive)
	}
	if r.tableTooLarge(alg, ds) {
		return results.Record{}, fmt.Errorf("%w: %s with capacity %d and %d pallets, limit %d cells", ErrTableTooLarge, alg, ds.Capacity, len(ds.Pallets), r.maxCells)
	}
	if err := ctx.Err(); err != nil {
		return results.Record{}, err
	}

	start := time.Now()
	sol, err := r.solve(ctx, alg, ds)
	elapsed := time.Since(start)
	if err != nil {
		return results.Record{}, fmt.Errorf("%s: %w", alg, err)
	}

	rec := results.Record{
		RunID:     r.newID(),
		Timestamp: r.clock(),
		Dataset:   ds.Name,
		Algorithm: alg,
		Pallets:   len(ds.Pallets),
		Capacity:  ds.Capacity,
		Profit:    sol.Profit,
		Weight:    sol.Weight,
		Elapsed:   elapsed,
		Selected:  sol.Pallets,
		Instance:  ds.Fingerprint(),
	}

	r.logger.Info("run completed",
		zap.String("run_id", rec.RunID),
		zap.String("algorithm", string(alg)),
		zap.String("dataset", ds.Name),
		zap.Int("pallets", rec.Pallets),
		zap.Int("profit", rec.Profit),
		zap.Duration("duration", elapsed),
	)

	if r.recorder != nil {
		if err := r.recorder.Record(rec); err != nil {
			r.logger.Warn("failed to record run", zap.String("run_id", rec.RunID), zap.Error(err))
		}
	}
	return rec, nil
}

// tableTooLarge reports whether rows*(capacity+1) exceeds the cell limit
// without computing the product.
func (r *Runner) tableTooLarge(alg knapsack.Algorithm, ds dataset.Dataset) bool {
	if r.maxCells <= 0 {
		return false
	}
	var rows int
	switch alg {
	case knapsack.DynamicProgramming:
		rows = len(ds.Pallets) + 1
	case knapsack.DynamicProgramming1D:
		rows = 1
	default:
		return false
	}
	if ds.Capacity >= r.maxCells {
		return true
	}
	return ds.Capacity+1 > r.maxCells/rows
}

func (r *Runner) solve(ctx context.Context, alg knapsack.Algorithm, ds dataset.Dataset) (knapsack.Solution, error) {
	if alg == knapsack.IntegerProgramming {
		return r.ilp.SolveContext(ctx, ds.Pallets, ds.Capacity)
	}
	return r.solvers[alg].Solve(ds.Pallets, ds.Capacity)
}

// Comparison holds the runs of every available algorithm on one dataset.
type Comparison struct {
	Records []results.Record `json:"records"`
	// Skipped maps algorithms that did not run to the reason.
	Skipped map[knapsack.Algorithm]string `json:"skipped,omitempty"`
}

// Compare runs every available algorithm on ds in menu order. Algorithms that
// cannot run on ds are reported in Skipped; any other failure aborts.
func (r *Runner) Compare(ctx context.Context, ds dataset.Dataset) (Comparison, error) {
	cmp := Comparison{Records: []results.Record{}, Skipped: map[knapsack.Algorithm]string{}}
	for _, alg := range r.Available() {
		rec, err := r.Run(ctx, alg, ds)
		switch {
		case errors.Is(err, ErrTooManyPallets), errors.Is(err, knapsack.ErrCatalogTooLarge), errors.Is(err, ErrTableTooLarge):
			cmp.Skipped[alg] = err.Error()
		case err != nil:
			return Comparison{}, err
		default:
			cmp.Records = append(cmp.Records, rec)
		}
	}
	return cmp, nil
}
