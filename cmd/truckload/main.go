package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/truck-loader/internal/application"
	"github.com/eugenenazirov/truck-loader/internal/config"
	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/logging"
	"github.com/eugenenazirov/truck-loader/internal/menu"
	"github.com/eugenenazirov/truck-loader/internal/report"
	"github.com/eugenenazirov/truck-loader/internal/results"
)

var signalNotify = signal.Notify

// datasetFlags selects a dataset either from the store or from a pair of CSV files.
type datasetFlags struct {
	name    *string
	truck   *string
	pallets *string
}

func registerDatasetFlags(cmd *kingpin.CmdClause) datasetFlags {
	return datasetFlags{
		name:    cmd.Flag("dataset", "Name of a preloaded dataset").Short('d').Default("sample").String(),
		truck:   cmd.Flag("truck", "Truck CSV file (requires --pallets)").String(),
		pallets: cmd.Flag("pallets", "Pallet CSV file (requires --truck)").String(),
	}
}

func main() {
	kingpinApp := kingpin.New("truckload", "Truck Loader - picks the most profitable pallets that fit in a truck")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	logLevel := kingpinApp.Flag("log-level", "Minimum log level (debug, info, warn, error)").String()
	dataDir := kingpinApp.Flag("data-dir", "Directory holding TruckAndPallets_NN.csv / Pallets_NN.csv pairs").String()
	resultsFile := kingpinApp.Flag("results-file", "CSV file runs are appended to").String()
	maxExhaustive := kingpinApp.Flag("max-exhaustive-pallets", "Largest catalog brute force and backtracking accept (0 for no limit)").Default("-1").Int()
	maxDPCells := kingpinApp.Flag("max-dp-cells", "Largest table dp and dp-1d may allocate, in cells (0 for no limit)").Default("-1").Int()
	ilpCommand := kingpinApp.Flag("ilp-command", "External ILP solver executable").String()
	ilpTimeout := kingpinApp.Flag("ilp-timeout", "Time limit for one ILP solver run").Default("0s").Duration()

	serveCmd := kingpinApp.Command("serve", "Run the HTTP API").Default()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	solveCmd := kingpinApp.Command("solve", "Run one algorithm on a dataset")
	algorithmFlag := solveCmd.Flag("algorithm", "Algorithm to run").Short('a').Default(string(knapsack.DynamicProgramming)).Enum(algorithmNames()...)
	solveData := registerDatasetFlags(solveCmd)

	compareCmd := kingpinApp.Command("compare", "Run every available algorithm on a dataset")
	compareData := registerDatasetFlags(compareCmd)

	menuCmd := kingpinApp.Command("menu", "Interactive terminal menu")
	accuracyCmd := kingpinApp.Command("accuracy", "Summarize recorded runs as a percentage of the optimum")

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}
	if *dataDir != "" {
		overrides.DataDir = dataDir
	}
	if *resultsFile != "" {
		overrides.ResultsFile = resultsFile
	}
	if *maxExhaustive >= 0 {
		overrides.MaxExhaustivePallets = maxExhaustive
	}
	if *maxDPCells >= 0 {
		overrides.MaxDPCells = maxDPCells
	}
	if *ilpCommand != "" {
		overrides.ILPCommand = ilpCommand
	}
	if *ilpTimeout > 0 {
		overrides.ILPTimeout = ilpTimeout
	}
	if *port != "" {
		overrides.Port = port
	}
	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}
	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	level := *logLevel
	if level == "" && command != serveCmd.FullCommand() {
		level = "warn"
	}
	logger, err := logging.New(level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if command == serveCmd.FullCommand() {
		if err := app.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}
		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case solveCmd.FullCommand():
		err = runSolve(ctx, app, os.Stdout, knapsack.Algorithm(*algorithmFlag), solveData)
	case compareCmd.FullCommand():
		err = runCompare(ctx, app, os.Stdout, compareData)
	case menuCmd.FullCommand():
		err = menu.New(os.Stdin, os.Stdout, app.Loader(), app.Runner(), app.DataDir(), logger).Run(ctx)
	case accuracyCmd.FullCommand():
		err = runAccuracy(app.History(), os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "truckload: %v\n", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func runSolve(ctx context.Context, app *application.App, out io.Writer, alg knapsack.Algorithm, flags datasetFlags) error {
	ds, err := selectDataset(app, flags)
	if err != nil {
		return err
	}
	rec, err := app.Runner().Run(ctx, alg, ds)
	if err != nil {
		return err
	}
	return report.WriteRecord(out, rec)
}

func runCompare(ctx context.Context, app *application.App, out io.Writer, flags datasetFlags) error {
	ds, err := selectDataset(app, flags)
	if err != nil {
		return err
	}
	cmp, err := app.Runner().Compare(ctx, ds)
	if err != nil {
		return err
	}
	if err := report.WriteComparison(out, cmp.Records); err != nil {
		return err
	}
	for _, alg := range knapsack.Algorithms() {
		if reason, ok := cmp.Skipped[alg]; ok {
			fmt.Fprintf(out, "skipped %s: %s\n", alg.Label(), reason)
		}
	}
	return nil
}

func runAccuracy(history results.Log, out io.Writer) error {
	records, err := history.Records()
	if err != nil {
		return err
	}
	return report.WriteAccuracy(out, results.Summarize(records))
}

func selectDataset(app *application.App, flags datasetFlags) (dataset.Dataset, error) {
	truck, pallets := deref(flags.truck), deref(flags.pallets)
	if truck == "" && pallets == "" {
		return app.Storage().GetDataset(deref(flags.name))
	}
	if truck == "" || pallets == "" {
		return dataset.Dataset{}, errors.New("--truck and --pallets must be given together")
	}
	return app.Loader().Load(dataset.NameFor(truck), truck, pallets)
}

func algorithmNames() []string {
	names := make([]string, 0, len(knapsack.Algorithms()))
	for _, alg := range knapsack.Algorithms() {
		names = append(names, string(alg))
	}
	return names
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
