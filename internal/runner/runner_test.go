package runner

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/ilp"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/results"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func sample() dataset.Dataset {
	return dataset.Dataset{
		Name:     "sample",
		Capacity: 50,
		Pallets: []knapsack.Pallet{
			{ID: 1, Weight: 10, Profit: 60},
			{ID: 2, Weight: 20, Profit: 100},
			{ID: 3, Weight: 30, Profit: 120},
		},
	}
}

func newTestRunner(t *testing.T, opts ...Option) (*Runner, *results.MemoryLog) {
	t.Helper()

	log := results.NewMemoryLog()
	base := []Option{
		WithRecorder(log),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "run-1" }),
	}
	return New(zaptest.NewLogger(t), append(base, opts...)...), log
}

func TestRunRecordsOutcome(t *testing.T) {
	t.Parallel()

	r, log := newTestRunner(t)

	rec, err := r.Run(context.Background(), knapsack.DynamicProgramming, sample())
	require.NoError(t, err)
	require.Equal(t, "run-1", rec.RunID)
	require.Equal(t, fixedNow, rec.Timestamp)
	require.Equal(t, "sample", rec.Dataset)
	require.Equal(t, 3, rec.Pallets)
	require.Equal(t, 50, rec.Capacity)
	require.Equal(t, 220, rec.Profit)
	require.Equal(t, 50, rec.Weight)
	require.Equal(t, []int{2, 3}, rec.Selected)
	require.Equal(t, sample().Fingerprint(), rec.Instance)
	require.GreaterOrEqual(t, rec.Elapsed, time.Duration(0))

	stored, err := log.Records()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, rec.Profit, stored[0].Profit)
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	r, log := newTestRunner(t, WithMaxExhaustivePallets(2))
	ctx := context.Background()

	_, err := r.Run(ctx, "simplex", sample())
	require.ErrorIs(t, err, knapsack.ErrUnknownAlgorithm)

	_, err = r.Run(ctx, knapsack.IntegerProgramming, sample())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = r.Run(ctx, knapsack.BruteForce, sample())
	require.ErrorIs(t, err, ErrTooManyPallets)

	bad := sample()
	bad.Capacity = -1
	_, err = r.Run(ctx, knapsack.Greedy, bad)
	require.ErrorIs(t, err, knapsack.ErrInvalidCapacity)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Run(cancelled, knapsack.Greedy, sample())
	require.ErrorIs(t, err, context.Canceled)

	stored, _ := log.Records()
	require.Empty(t, stored)
}

func TestUnlimitedExhaustive(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t, WithMaxExhaustivePallets(0))
	_, err := r.Run(context.Background(), knapsack.Backtracking, sample())
	require.NoError(t, err)
}

func TestRunRejectsOversizedTables(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		alg      knapsack.Algorithm
		limit    int
		capacity int
		profit   int
		wantErr  error
	}{
		{name: "dp at max int capacity", alg: knapsack.DynamicProgramming, capacity: math.MaxInt, wantErr: ErrTableTooLarge},
		{name: "dp-1d at max int capacity", alg: knapsack.DynamicProgramming1D, capacity: math.MaxInt, wantErr: ErrTableTooLarge},
		{name: "dp-1d just under max int", alg: knapsack.DynamicProgramming1D, capacity: math.MaxInt - 1, wantErr: ErrTableTooLarge},
		{name: "dp exactly at limit", alg: knapsack.DynamicProgramming, limit: 4 * 51, capacity: 50, profit: 220},
		{name: "dp one cell over", alg: knapsack.DynamicProgramming, limit: 4*51 - 1, capacity: 50, wantErr: ErrTableTooLarge},
		{name: "dp-1d exactly at limit", alg: knapsack.DynamicProgramming1D, limit: 51, capacity: 50, profit: 220},
		{name: "dp-1d one cell over", alg: knapsack.DynamicProgramming1D, limit: 50, capacity: 50, wantErr: ErrTableTooLarge},
		{name: "greedy ignores the limit", alg: knapsack.Greedy, capacity: math.MaxInt, profit: 280},
		{name: "backtracking ignores the limit", alg: knapsack.Backtracking, capacity: math.MaxInt, profit: 280},
		{name: "limit disabled", alg: knapsack.DynamicProgramming1D, limit: -1, capacity: 1 << 16, profit: 280},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var opts []Option
			if tc.limit != 0 {
				opts = append(opts, WithMaxTableCells(tc.limit))
			}
			r, log := newTestRunner(t, opts...)

			ds := sample()
			ds.Capacity = tc.capacity
			rec, err := r.Run(context.Background(), tc.alg, ds)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				stored, _ := log.Records()
				require.Empty(t, stored)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.profit, rec.Profit)
		})
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(results.Record) error { return errors.New("disk full") }

func TestRecorderFailureKeepsResult(t *testing.T) {
	t.Parallel()

	r := New(zaptest.NewLogger(t), WithRecorder(failingRecorder{}))
	rec, err := r.Run(context.Background(), knapsack.Greedy, sample())
	require.NoError(t, err)
	require.Equal(t, 160, rec.Profit)
	require.NotEmpty(t, rec.RunID)
}

func TestAvailable(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t)
	require.Equal(t, []knapsack.Algorithm{
		knapsack.BruteForce, knapsack.Backtracking, knapsack.DynamicProgramming,
		knapsack.DynamicProgramming1D, knapsack.Greedy,
	}, r.Available())

	withILP, _ := newTestRunner(t, WithIntegerProgramming(ilp.New(ilp.Config{Command: "solver"}, nil)))
	require.Contains(t, withILP.Available(), knapsack.IntegerProgramming)

	unconfigured, _ := newTestRunner(t, WithIntegerProgramming(ilp.New(ilp.Config{}, nil)))
	require.NotContains(t, unconfigured.Available(), knapsack.IntegerProgramming)
}

func TestCompare(t *testing.T) {
	t.Parallel()

	r, log := newTestRunner(t)
	cmp, err := r.Compare(context.Background(), sample())
	require.NoError(t, err)
	require.Len(t, cmp.Records, 5)
	require.Empty(t, cmp.Skipped)

	for _, rec := range cmp.Records {
		if rec.Algorithm.Exact() {
			require.Equal(t, 220, rec.Profit, "%s", rec.Algorithm)
		} else {
			require.Equal(t, 160, rec.Profit)
		}
	}

	stored, _ := log.Records()
	require.Len(t, stored, 5)
	summary := results.Summarize(stored)
	require.NotNil(t, summary.WorstGreedy)
}

func TestCompareSkipsExhaustiveOverLimit(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t, WithMaxExhaustivePallets(1))
	cmp, err := r.Compare(context.Background(), sample())
	require.NoError(t, err)
	require.Len(t, cmp.Records, 3)
	require.Contains(t, cmp.Skipped, knapsack.BruteForce)
	require.Contains(t, cmp.Skipped, knapsack.Backtracking)

	bad := sample()
	bad.Capacity = -5
	_, err = r.Compare(context.Background(), bad)
	require.ErrorIs(t, err, knapsack.ErrInvalidCapacity)
}

func TestCompareSkipsOversizedTables(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t)
	ds := sample()
	ds.Capacity = math.MaxInt

	cmp, err := r.Compare(context.Background(), ds)
	require.NoError(t, err)
	require.Contains(t, cmp.Skipped, knapsack.DynamicProgramming)
	require.Contains(t, cmp.Skipped, knapsack.DynamicProgramming1D)
	require.Len(t, cmp.Records, 3)
	for _, rec := range cmp.Records {
		require.Equal(t, 280, rec.Profit, "%s", rec.Algorithm)
	}
}
