package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort                 = "8080"
	defaultDataDir              = "data"
	defaultResultsFile          = "results.csv"
	defaultMaxExhaustivePallets = 25
	defaultMaxDPCells           = 5_000_000
	defaultILPTimeout           = 10 * time.Minute
	defaultRateLimitRPS         = 25.0
	defaultRateLimitBurst       = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	DataDir              string
	ResultsFile          string
	MaxExhaustivePallets int
	MaxDPCells           int
	ILP                  ILPConfig
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// ILPConfig describes the external integer programming solver. An empty
// Command leaves the strategy disabled.
type ILPConfig struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	DataDir              string        `yaml:"data_dir"`
	ResultsFile          string        `yaml:"results_file"`
	MaxExhaustivePallets *int          `yaml:"max_exhaustive_pallets"`
	MaxDPCells           *int          `yaml:"max_dp_cells"`
	ILP                  yamlILP       `yaml:"ilp"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlILP represents the ilp section in YAML.
type yamlILP struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Timeout string   `yaml:"timeout"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile           string
	Port                 *string
	DataDir              *string
	ResultsFile          *string
	MaxExhaustivePallets *int
	MaxDPCells           *int
	ILPCommand           *string
	ILPTimeout           *time.Duration
	RateLimitRPS         *float64
	RateLimitBurst       *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables (lowest precedence after defaults)
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		DataDir:              defaultDataDir,
		ResultsFile:          defaultResultsFile,
		MaxExhaustivePallets: defaultMaxExhaustivePallets,
		MaxDPCells:           defaultMaxDPCells,
		ILP:                  ILPConfig{Timeout: defaultILPTimeout},
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Minute,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct. Keys that
// are absent from the file leave the current value untouched.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}
	if yamlCfg.DataDir != "" {
		cfg.DataDir = yamlCfg.DataDir
	}
	if yamlCfg.ResultsFile != "" {
		cfg.ResultsFile = yamlCfg.ResultsFile
	}
	if yamlCfg.MaxExhaustivePallets != nil {
		cfg.MaxExhaustivePallets = *yamlCfg.MaxExhaustivePallets
	}
	if yamlCfg.MaxDPCells != nil {
		cfg.MaxDPCells = *yamlCfg.MaxDPCells
	}

	if yamlCfg.ILP.Command != "" {
		cfg.ILP.Command = yamlCfg.ILP.Command
	}
	if len(yamlCfg.ILP.Args) > 0 {
		cfg.ILP.Args = yamlCfg.ILP.Args
	}

	durations := []struct {
		key    string
		raw    string
		target *time.Duration
	}{
		{"ilp.timeout", yamlCfg.ILP.Timeout, &cfg.ILP.Timeout},
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		value, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.target = value
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
	return nil
}

// applyEnvConfig applies environment variable configuration. Unparseable
// values are ignored.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}
	if dir := strings.TrimSpace(os.Getenv("DATA_DIR")); dir != "" {
		cfg.DataDir = dir
	}
	if file := strings.TrimSpace(os.Getenv("RESULTS_FILE")); file != "" {
		cfg.ResultsFile = file
	}

	if limit := strings.TrimSpace(os.Getenv("MAX_EXHAUSTIVE_PALLETS")); limit != "" {
		if value, err := strconv.Atoi(limit); err == nil && value >= 0 {
			cfg.MaxExhaustivePallets = value
		}
	}
	if cells := strings.TrimSpace(os.Getenv("MAX_DP_CELLS")); cells != "" {
		if value, err := strconv.Atoi(cells); err == nil && value >= 0 {
			cfg.MaxDPCells = value
		}
	}

	if command := strings.TrimSpace(os.Getenv("ILP_COMMAND")); command != "" {
		cfg.ILP.Command = command
	}
	if args := strings.TrimSpace(os.Getenv("ILP_ARGS")); args != "" {
		cfg.ILP.Args = strings.Fields(args)
	}
	if timeout := strings.TrimSpace(os.Getenv("ILP_TIMEOUT")); timeout != "" {
		if value, err := time.ParseDuration(timeout); err == nil && value > 0 {
			cfg.ILP.Timeout = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}
	if overrides.DataDir != nil && *overrides.DataDir != "" {
		cfg.DataDir = *overrides.DataDir
	}
	if overrides.ResultsFile != nil && *overrides.ResultsFile != "" {
		cfg.ResultsFile = *overrides.ResultsFile
	}
	if overrides.MaxExhaustivePallets != nil && *overrides.MaxExhaustivePallets >= 0 {
		cfg.MaxExhaustivePallets = *overrides.MaxExhaustivePallets
	}
	if overrides.MaxDPCells != nil && *overrides.MaxDPCells >= 0 {
		cfg.MaxDPCells = *overrides.MaxDPCells
	}
	if overrides.ILPCommand != nil && *overrides.ILPCommand != "" {
		cfg.ILP.Command = *overrides.ILPCommand
	}
	if overrides.ILPTimeout != nil && *overrides.ILPTimeout > 0 {
		cfg.ILP.Timeout = *overrides.ILPTimeout
	}
	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}
	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if cfg.MaxExhaustivePallets < 0 {
		return fmt.Errorf("max_exhaustive_pallets must be >= 0")
	}
	if cfg.MaxDPCells < 0 {
		return fmt.Errorf("max_dp_cells must be >= 0")
	}
	if cfg.ILP.Timeout <= 0 {
		return fmt.Errorf("ilp.timeout must be positive")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}
