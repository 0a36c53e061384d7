package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultEnvFile), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: json\nsteps: 1000\nrate: 0.04\nquantile_method: lower\n"), 0o644))
	t.Setenv(EnvSteps, "2000")
	t.Setenv(EnvSeed, "42")

	cfg, err := Load(filepath.Join(dir, DefaultEnvFile), path)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Output)
	assert.Equal(t, 2000, cfg.Steps)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 0.04, cfg.Rate)
	assert.Equal(t, "lower", cfg.QuantileMethod)
	assert.Equal(t, 100000, cfg.Paths)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), DefaultEnvFile)
	require.NoError(t, os.WriteFile(envFile, []byte(EnvLogLevel+"=debug\n"), 0o644))
	// restored on cleanup; godotenv never overrides a variable that is set
	t.Setenv(EnvLogLevel, "")
	require.NoError(t, os.Unsetenv(EnvLogLevel))

	cfg, err := Load(envFile, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, DefaultEnvFile)

	_, err := Load(envFile, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("steps: [1, 2"), 0o644))
	_, err = Load(envFile, bad)
	assert.Error(t, err)

	t.Setenv(EnvPaths, "many")
	_, err = Load(envFile, "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"output", func(c *Config) { c.Output = "xml" }},
		{"steps", func(c *Config) { c.Steps = 0 }},
		{"paths", func(c *Config) { c.Paths = 0 }},
		{"single path", func(c *Config) { c.Paths = 1 }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"periods", func(c *Config) { c.PeriodsPerYear = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Output = "JSON"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, OutputJSON, cfg.Output)
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	cfg := Default()
	cfg.LogLevel = "warn"
	require.NoError(t, cfg.SetupLogging())
	assert.Equal(t, log.WarnLevel, log.GetLevel())
}
