package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const DefaultEnvFile = ".env"

// Environment overrides, applied after the YAML file.
const (
	EnvLogLevel = "QP_LOG_LEVEL"
	EnvOutput   = "QP_OUTPUT"
	EnvSteps    = "QP_STEPS"
	EnvPaths    = "QP_PATHS"
	EnvSeed     = "QP_SEED"
	EnvWorkers  = "QP_WORKERS"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the defaults the command line falls back to when a flag is
// not given.
type Config struct {
	LogLevel string `yaml:"log_level"`
	Output   string `yaml:"output"`

	// Pricing defaults
	Steps   int    `yaml:"steps"`
	Paths   int    `yaml:"paths"`
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`

	Rate           float64 `yaml:"rate"`
	Dividend       float64 `yaml:"dividend"`
	PeriodsPerYear float64 `yaml:"periods_per_year"`
	QuantileMethod string  `yaml:"quantile_method"`
}

func Default() *Config {
	return &Config{
		LogLevel:       "info",
		Output:         OutputTable,
		Steps:          500,
		Paths:          100000,
		Seed:           1,
		PeriodsPerYear: 252,
		QuantileMethod: "linear",
	}
}

// Load builds the configuration from the defaults, the dotenv file at envFile
// (skipped when missing), the optional YAML file at path and finally the QP_*
// environment variables.
func Load(envFile, path string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		log.WithField("path", path).Debug("loaded config file")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}

	ints := map[string]*int{EnvSteps: &c.Steps, EnvPaths: &c.Paths, EnvWorkers: &c.Workers}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}

	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
		}
		c.Seed = n
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	c.Output = strings.ToLower(c.Output)
	if c.Output != OutputTable && c.Output != OutputJSON {
		return fmt.Errorf("invalid output format %q, want %s or %s", c.Output, OutputTable, OutputJSON)
	}
	if c.Steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", c.Steps)
	}
	if c.Paths < 2 {
		return fmt.Errorf("paths must be at least 2, got %d", c.Paths)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if !(c.PeriodsPerYear > 0) {
		return fmt.Errorf("periods_per_year must be positive, got %v", c.PeriodsPerYear)
	}
	return nil
}

// SetupLogging applies the configured level to the standard logrus logger.
func (c *Config) SetupLogging() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)
	return nil
}
