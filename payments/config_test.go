//go:build unit

package payments

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENV_NAME", "LOG_LEVEL", "LEDGER_WORKERS", "LEDGER_SEQUENTIAL", "OTEL_LIBRARY_NAME", "TRACEPARENT", "TRACESTATE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "production", cfg.EnvName)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
	assert.False(t, cfg.Sequential)
	assert.Equal(t, "payment-engine", cfg.OTelLibraryName)
	assert.Empty(t, cfg.LogLevel)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV_NAME", "Development")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LEDGER_WORKERS", "3")
	t.Setenv("LEDGER_SEQUENTIAL", "true")
	t.Setenv("OTEL_LIBRARY_NAME", "ledger-test")
	t.Setenv("TRACEPARENT", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Config{
		EnvName:         "development",
		LogLevel:        "debug",
		Workers:         3,
		Sequential:      true,
		OTelLibraryName: "ledger-test",
		TraceParent:     "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	}, cfg)
}

func TestLoadConfig_NonPositiveWorkersFallsBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LEDGER_WORKERS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Workers)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LEDGER_SEQUENTIAL", "sometimes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LEDGER_SEQUENTIAL")
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		contains string
	}{
		{name: "unknown environment", key: "ENV_NAME", value: "moon", contains: "ENV_NAME must be one of"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "verbose", contains: "LOG_LEVEL must be one of"},
		{name: "library name too long", key: "OTEL_LIBRARY_NAME", value: strings.Repeat("x", 256), contains: "OTEL_LIBRARY_NAME must be at most 255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Workers = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.OTelLibraryName = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_LIBRARY_NAME is required")
}
