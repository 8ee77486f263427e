//go:build unit

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackghost1987/payment-engine/payments"
	"github.com/blackghost1987/payment-engine/payments/log"
)

const sampleInput = `type, client, tx, amount
deposit, 1, 1, 1.0
deposit, 2, 2, 2.0
deposit, 1, 3, 2.0
withdrawal, 1, 4, 1.5
withdrawal, 2, 5, 3.0
dispute, 2, 2,
chargeback, 2, 2,
deposit, 2, 6, 10
`

const sampleOutput = "client,available,held,total,locked\n" +
	"1,1.5000,0.0000,1.5000,false\n" +
	"2,0.0000,0.0000,0.0000,true\n"

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENV_NAME", "LOG_LEVEL", "LEDGER_WORKERS", "LEDGER_SEQUENTIAL", "OTEL_LIBRARY_NAME", "TRACEPARENT", "TRACESTATE",
	} {
		t.Setenv(key, "")
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestParseFlags(t *testing.T) {
	cfg := payments.Config{Workers: 8}

	tests := []struct {
		name     string
		args     []string
		expected options
	}{
		{name: "input only", args: []string{"in.csv"}, expected: options{workers: 8, input: "in.csv"}},
		{name: "short flags", args: []string{"-v", "-s", "-w", "2", "in.csv"}, expected: options{verbose: true, sequential: true, workers: 2, input: "in.csv"}},
		{name: "long flags", args: []string{"--verbose", "--sequential", "in.csv"}, expected: options{verbose: true, sequential: true, workers: 8, input: "in.csv"}},
		{name: "flags after input", args: []string{"in.csv", "-v"}, expected: options{verbose: true, workers: 8, input: "in.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer

			opts, err := parseFlags(tt.args, cfg, &stderr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestParseFlags_ConfigDefaults(t *testing.T) {
	var stderr bytes.Buffer

	opts, err := parseFlags([]string{"in.csv"}, payments.Config{Workers: 3, Sequential: true}, &stderr)
	require.NoError(t, err)
	assert.True(t, opts.sequential)
	assert.Equal(t, 3, opts.workers)
}

func TestParseFlags_Errors(t *testing.T) {
	var stderr bytes.Buffer

	_, err := parseFlags(nil, payments.Config{}, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: payment-engine")

	_, err = parseFlags([]string{"a.csv", "b.csv"}, payments.Config{}, &stderr)
	assert.Error(t, err)

	_, err = parseFlags([]string{"--unknown", "a.csv"}, payments.Config{}, &stderr)
	assert.Error(t, err)
}

func TestRun_Success(t *testing.T) {
	clearEnv(t)

	for _, args := range [][]string{{"-s"}, {"-w", "4"}} {
		var stdout, stderr bytes.Buffer

		code := run(context.Background(), append(args, writeInput(t, sampleInput)), &stdout, &stderr)

		assert.Equal(t, exitOK, code, stderr.String())
		assert.Equal(t, sampleOutput, stdout.String())
	}
}

func TestRun_ExitCodes(t *testing.T) {
	clearEnv(t)

	t.Run("usage", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		assert.Equal(t, exitUsage, run(context.Background(), nil, &stdout, &stderr))
		assert.Empty(t, stdout.String())
	})

	t.Run("help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		assert.Equal(t, exitOK, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	})

	t.Run("open failure", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		missing := filepath.Join(t.TempDir(), "missing.csv")
		assert.Equal(t, exitOpenFailed, run(context.Background(), []string{missing}, &stdout, &stderr))
		assert.Empty(t, stdout.String())
	})

	t.Run("parse failure", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		path := writeInput(t, "type,client,tx,amount\ndeposit,x,1,1\n")
		assert.Equal(t, exitParseFailed, run(context.Background(), []string{path}, &stdout, &stderr))
		assert.Empty(t, stdout.String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := writeInput(t, "type,client,tx,amount\n")
		assert.Equal(t, exitParseFailed, run(ctx, []string{path}, &stdout, &stderr))
	})

	t.Run("write failure", func(t *testing.T) {
		var stderr bytes.Buffer

		path := writeInput(t, sampleInput)
		assert.Equal(t, exitWriteFailed, run(context.Background(), []string{path}, failingWriter{}, &stderr))
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("LEDGER_WORKERS", "lots")

		var stdout, stderr bytes.Buffer

		assert.Equal(t, exitUsage, run(context.Background(), []string{"in.csv"}, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "LEDGER_WORKERS")
	})

	t.Run("unknown environment", func(t *testing.T) {
		t.Setenv("ENV_NAME", "moon")

		var stdout, stderr bytes.Buffer

		assert.Equal(t, exitUsage, run(context.Background(), []string{"in.csv"}, &stdout, &stderr))
		assert.Contains(t, stderr.String(), "ENV_NAME")
	})
}

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestNewLogger(t *testing.T) {
	var stderr bytes.Buffer

	cfg := payments.DefaultConfig()

	logger := newLogger(cfg, false, &stderr)
	assert.True(t, logger.Enabled(log.LevelError))
	assert.False(t, logger.Enabled(log.LevelInfo))

	logger = newLogger(cfg, true, &stderr)
	assert.True(t, logger.Enabled(log.LevelDebug))

	cfg.LogLevel = "warn"
	logger = newLogger(cfg, false, &stderr)
	assert.True(t, logger.Enabled(log.LevelWarn))
	assert.False(t, logger.Enabled(log.LevelInfo))
}

func TestNewLogger_FallsBackOnInvalidEnvironment(t *testing.T) {
	var stderr bytes.Buffer

	cfg := payments.DefaultConfig()
	cfg.EnvName = "moon"

	logger := newLogger(cfg, false, &stderr)

	_, ok := logger.(*log.GoLogger)
	assert.True(t, ok)
}
