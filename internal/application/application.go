package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/truck-loader/internal/api"
	"github.com/eugenenazirov/truck-loader/internal/config"
	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/ilp"
	"github.com/eugenenazirov/truck-loader/internal/results"
	"github.com/eugenenazirov/truck-loader/internal/runner"
	"github.com/eugenenazirov/truck-loader/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	loader  *dataset.Loader
	history results.Log
	runner  *runner.Runner
	handler *api.Handler
	router  http.Handler
	dataDir string
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := storage.NewMemoryStorage()
	loader := dataset.NewLoader(logger)

	dataDir := locateDataDir(cfg.DataDir, logger)
	if dataDir != "" {
		if err := preload(store, loader, dataDir, logger); err != nil {
			return nil, fmt.Errorf("failed to load datasets: %w", err)
		}
	}

	var history results.Log = results.NewMemoryLog()
	if cfg.ResultsFile != "" {
		history = results.NewFileLog(cfg.ResultsFile)
	}

	solver := ilp.New(ilp.Config{
		Command: cfg.ILP.Command,
		Args:    cfg.ILP.Args,
		Timeout: cfg.ILP.Timeout,
	}, logger)

	run := runner.New(logger,
		runner.WithRecorder(history),
		runner.WithIntegerProgramming(solver),
		runner.WithMaxExhaustivePallets(cfg.MaxExhaustivePallets),
		runner.WithMaxTableCells(cfg.MaxDPCells),
	)

	handler := api.NewHandler(run, store, api.WithHistory(history))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage: store,
		loader:  loader,
		history: history,
		runner:  run,
		handler: handler,
		router:  apiRouter,
		dataDir: dataDir,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler mounts the API under /api/ and answers the bare root with a short index.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "truckload: pallet loading optimizer")
		fmt.Fprintln(w, "GET  /api/health")
		fmt.Fprintln(w, "GET  /api/algorithms")
		fmt.Fprintln(w, "GET  /api/datasets")
		fmt.Fprintln(w, "POST /api/solve")
		fmt.Fprintln(w, "POST /api/compare")
		fmt.Fprintln(w, "GET  /api/results/accuracy")
	}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Runner returns the strategy runner shared by the HTTP API and the CLI.
func (a *App) Runner() *runner.Runner {
	return a.runner
}

// Storage returns the dataset store.
func (a *App) Storage() storage.Storage {
	return a.storage
}

// Loader returns the CSV dataset loader.
func (a *App) Loader() *dataset.Loader {
	return a.loader
}

// History returns the results log runs are recorded to.
func (a *App) History() results.Log {
	return a.history
}

// DataDir returns the resolved dataset directory, or "" when none was found.
func (a *App) DataDir() string {
	return a.dataDir
}

// preload stores every dataset found in dir.
func preload(store storage.Storage, loader *dataset.Loader, dir string, logger *zap.Logger) error {
	datasets, err := loader.LoadDir(dir)
	if err != nil {
		return err
	}
	for _, ds := range datasets {
		if err := store.PutDataset(ds); err != nil {
			logger.Warn("skipping dataset", zap.String("dataset", ds.Name), zap.Error(err))
			continue
		}
	}
	logger.Info("datasets loaded", zap.String("dir", dir), zap.Int("count", len(datasets)))
	return nil
}

// locateDataDir resolves a relative data directory against the project tree.
// A missing directory is not an error: the server still has the sample dataset.
func locateDataDir(dir string, logger *zap.Logger) string {
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		logger.Info("data directory not found", zap.String("dir", dir))
		return ""
	}

	path, err := resolveProjectPath(dir)
	if err != nil {
		logger.Info("data directory not found", zap.String("dir", dir))
		return ""
	}
	return path
}

// resolveProjectPath locates a file or directory relative to the project root by walking up the directory tree.
func resolveProjectPath(relative string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, relative)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("unable to locate %s", relative)
}
