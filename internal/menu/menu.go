// Package menu implements the interactive terminal front end: load a dataset
// from its two CSV files, pick an algorithm, print the result.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/report"
	"github.com/eugenenazirov/truck-loader/internal/runner"
)

const title = "==== Pallet Packing Optimization Tool ===="

// choices maps menu numbers to algorithms.
var choices = []struct {
	alg   knapsack.Algorithm
	label string
}{
	{knapsack.BruteForce, "Regular Brute-Force approach"},
	{knapsack.Backtracking, "Brute-Force with backtracking"},
	{knapsack.DynamicProgramming, "Dynamic Programming approach"},
	{knapsack.DynamicProgramming1D, "Dynamic Programming approach (1-D table)"},
	{knapsack.Greedy, "Greedy approach"},
	{knapsack.IntegerProgramming, "Linear Integer Programming approach"},
}

// Menu reads whitespace separated answers from in and writes prompts to out.
type Menu struct {
	in      *bufio.Scanner
	out     io.Writer
	loader  *dataset.Loader
	runner  *runner.Runner
	dataDir string
	logger  *zap.Logger
}

// New creates a Menu. Relative file names are resolved against dataDir.
func New(in io.Reader, out io.Writer, loader *dataset.Loader, r *runner.Runner, dataDir string, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Menu{
		in:      scanner,
		out:     out,
		loader:  loader,
		runner:  r,
		dataDir: dataDir,
		logger:  logger,
	}
}

// Run loops until the user exits, the input ends or ctx is cancelled.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printf("%s\n1. Load dataset\n2. Exit\nChoose an option: ", title)
		option, ok := m.next()
		if !ok {
			return m.in.Err()
		}

		switch option {
		case "1":
			if err := m.loadAndRun(ctx); err != nil {
				return err
			}
		case "2":
			m.printf("Exiting program.\n")
			return nil
		default:
			m.printf("Invalid option. Try again.\n")
		}
	}
}

func (m *Menu) loadAndRun(ctx context.Context) error {
	m.printf("Enter truck file (e.g., TruckAndPallets_01.csv): ")
	truckFile, ok := m.next()
	if !ok {
		return m.in.Err()
	}
	m.printf("Enter pallet file (e.g., Pallets_01.csv): ")
	palletFile, ok := m.next()
	if !ok {
		return m.in.Err()
	}

	truckPath, palletPath := m.resolve(truckFile), m.resolve(palletFile)
	ds, err := m.loader.Load(dataset.NameFor(truckFile), truckPath, palletPath)
	if err != nil {
		m.logger.Warn("failed to load dataset", zap.String("truck", truckPath), zap.String("pallets", palletPath), zap.Error(err))
		m.printf("Error loading dataset files.\n")
		return nil
	}
	m.printf("Loaded %d pallets, truck capacity %d.\n", len(ds.Pallets), ds.Capacity)

	m.printf("\nChoose an algorithm to run:\n")
	for i, c := range choices {
		m.printf("%d. %s\n", i+1, c.label)
	}
	m.printf("Enter option: ")
	answer, ok := m.next()
	if !ok {
		return m.in.Err()
	}

	alg, valid := choose(answer)
	if !valid {
		m.printf("Invalid option.\n")
		return nil
	}

	rec, err := m.runner.Run(ctx, alg, ds)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case err != nil:
		m.printf("Error: %v\n", err)
		return nil
	}
	if err := report.WriteRecord(m.out, rec); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	m.printf("\n")
	return nil
}

func (m *Menu) next() (string, bool) {
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) resolve(name string) string {
	if filepath.IsAbs(name) || m.dataDir == "" {
		return name
	}
	return filepath.Join(m.dataDir, name)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func choose(answer string) (knapsack.Algorithm, bool) {
	for i, c := range choices {
		if answer == fmt.Sprint(i+1) {
			return c.alg, true
		}
	}
	return "", false
}
