package menu

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/results"
	"github.com/eugenenazirov/truck-loader/internal/runner"
)

func writeDataset(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	truck := "Capacity,Pallets\n50,3\n"
	pallets := "Pallet,Weight,Profit\n1,10,60\n2,20,100\n3,30,120\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TruckAndPallets_01.csv"), []byte(truck), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Pallets_01.csv"), []byte(pallets), 0o600))
	return dir
}

func runMenu(t *testing.T, dir, input string) (string, *results.MemoryLog) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	log := results.NewMemoryLog()
	r := runner.New(logger, runner.WithRecorder(log))
	var out bytes.Buffer
	m := New(strings.NewReader(input), &out, dataset.NewLoader(logger), r, dir, logger)
	require.NoError(t, m.Run(context.Background()))
	return out.String(), log
}

func TestMenuRunsAlgorithm(t *testing.T) {
	t.Parallel()

	dir := writeDataset(t)
	out, log := runMenu(t, dir, "1 TruckAndPallets_01.csv Pallets_01.csv 3 2")

	require.Contains(t, out, "==== Pallet Packing Optimization Tool ====")
	require.Contains(t, out, "Loaded 3 pallets, truck capacity 50.")
	require.Contains(t, out, "6. Linear Integer Programming approach")
	require.Contains(t, out, "[Dynamic Programming] Max Profit: 220\nSelected Pallets: 2 3\n")
	require.Contains(t, out, "Total Weight: 50/50\n")
	require.True(t, strings.HasSuffix(out, "Exiting program.\n"))

	stored, err := log.Records()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "01", stored[0].Dataset, "named like the preloaded copy of the same files")
}

func TestMenuGreedy(t *testing.T) {
	t.Parallel()

	dir := writeDataset(t)
	out, _ := runMenu(t, dir, "1 TruckAndPallets_01.csv Pallets_01.csv 5 2")
	require.Contains(t, out, "[Greedy] Max Profit: 160\nSelected Pallets: 1 2\n")
}

func TestMenuInvalidInput(t *testing.T) {
	t.Parallel()

	dir := writeDataset(t)
	out, log := runMenu(t, dir, "9 1 TruckAndPallets_01.csv Pallets_01.csv 7 1 missing.csv Pallets_01.csv 2")

	require.Contains(t, out, "Invalid option. Try again.\n")
	require.Contains(t, out, "Invalid option.\n")
	require.Contains(t, out, "Error loading dataset files.\n")
	require.Contains(t, out, "Exiting program.\n")

	stored, _ := log.Records()
	require.Empty(t, stored)
}

func TestMenuUnavailableAlgorithm(t *testing.T) {
	t.Parallel()

	dir := writeDataset(t)
	out, _ := runMenu(t, dir, "1 TruckAndPallets_01.csv Pallets_01.csv 6 2")
	require.Contains(t, out, "Error: algorithm is not available: ilp\n")
}

func TestMenuStopsAtEndOfInput(t *testing.T) {
	t.Parallel()

	out, _ := runMenu(t, "", "")
	require.Equal(t, "==== Pallet Packing Optimization Tool ====\n1. Load dataset\n2. Exit\nChoose an option: ", out)
}

func TestMenuCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := zaptest.NewLogger(t)
	m := New(strings.NewReader("2"), &bytes.Buffer{}, dataset.NewLoader(logger), runner.New(logger), "", logger)
	require.ErrorIs(t, m.Run(ctx), context.Canceled)
}
