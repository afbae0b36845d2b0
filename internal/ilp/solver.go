package ilp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
)

const defaultTimeout = 10 * time.Minute

// Config describes how to launch the external solver.
type Config struct {
	Command string
	Args    []string
	Timeout time.Duration
}

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Solver runs an external integer programming process.
type Solver struct {
	cfg    Config
	logger *zap.Logger
	run    commandRunner
}

// New creates a Solver. A zero Timeout means ten minutes.
func New(cfg Config, logger *zap.Logger) *Solver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{cfg: cfg, logger: logger, run: execCommand}
}

// Configured reports whether a solver command is set.
func (s *Solver) Configured() bool {
	return strings.TrimSpace(s.cfg.Command) != ""
}

// Solve implements knapsack.Solver.
func (s *Solver) Solve(pallets []knapsack.Pallet, capacity int) (knapsack.Solution, error) {
	return s.SolveContext(context.Background(), pallets, capacity)
}

// SolveContext runs the solver, bounded by ctx and the configured timeout.
func (s *Solver) SolveContext(ctx context.Context, pallets []knapsack.Pallet, capacity int) (knapsack.Solution, error) {
	if capacity < 0 {
		return knapsack.Solution{}, fmt.Errorf("%w: got %d", knapsack.ErrInvalidCapacity, capacity)
	}
	if !s.Configured() {
		return knapsack.Solution{}, ErrSolverNotConfigured
	}

	dir, err := os.MkdirTemp("", "truckload-ilp-")
	if err != nil {
		return knapsack.Solution{}, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	truckPath := filepath.Join(dir, "TP.csv")
	palletPath := filepath.Join(dir, "P.csv")
	if err := writeInstance(truckPath, palletPath, pallets, capacity); err != nil {
		return knapsack.Solution{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	args := append(append([]string{}, s.cfg.Args...), truckPath, palletPath)
	start := time.Now()
	data, err := s.run(ctx, s.cfg.Command, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return knapsack.Solution{}, fmt.Errorf("ilp solver: %w", ctxErr)
	}
	if err != nil {
		return knapsack.Solution{}, fmt.Errorf("ilp solver: %w", err)
	}
	s.logger.Debug("ilp solver finished", zap.String("command", s.cfg.Command), zap.Duration("duration", time.Since(start)))

	out, err := ParseOutput(data)
	if err != nil {
		return knapsack.Solution{}, err
	}
	return reconcile(out, pallets, capacity)
}

// reconcile checks the reported selection against the catalog.
func reconcile(out Output, pallets []knapsack.Pallet, capacity int) (knapsack.Solution, error) {
	byID := make(map[int]knapsack.Pallet, len(pallets))
	for _, p := range pallets {
		byID[p.ID] = p
	}

	sol := knapsack.Solution{Pallets: out.Selected}
	for _, id := range out.Selected {
		p, ok := byID[id]
		if !ok {
			return knapsack.Solution{}, fmt.Errorf("%w: unknown pallet %d", ErrMalformedOutput, id)
		}
		sol.Profit += p.Profit
		sol.Weight += p.Weight
	}

	if sol.Profit != out.Profit {
		return knapsack.Solution{}, fmt.Errorf("%w: reported profit %d, selection is worth %d", ErrMalformedOutput, out.Profit, sol.Profit)
	}
	if out.hasWeight && sol.Weight != out.Weight {
		return knapsack.Solution{}, fmt.Errorf("%w: reported weight %d, selection weighs %d", ErrMalformedOutput, out.Weight, sol.Weight)
	}
	if sol.Weight > capacity {
		return knapsack.Solution{}, fmt.Errorf("%w: selection weighs %d over capacity %d", ErrMalformedOutput, sol.Weight, capacity)
	}
	return sol, nil
}

func writeInstance(truckPath, palletPath string, pallets []knapsack.Pallet, capacity int) error {
	var truck, list bytes.Buffer
	if err := dataset.WriteTruck(&truck, dataset.Truck{Capacity: capacity, Pallets: len(pallets)}); err != nil {
		return fmt.Errorf("encode truck file: %w", err)
	}
	if err := dataset.WritePallets(&list, pallets); err != nil {
		return fmt.Errorf("encode pallet file: %w", err)
	}
	if err := os.WriteFile(truckPath, truck.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write truck file: %w", err)
	}
	if err := os.WriteFile(palletPath, list.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write pallet file: %w", err)
	}
	return nil
}

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s%s", err, strings.TrimSpace(stderr.String()), tail(out))
		}
		return nil, err
	}
	return out, nil
}

// tail appends the last line of stdout, where solver scripts tend to print their errors.
func tail(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return " " + last
	}
	return ""
}
