package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command in-process and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Flags keep their values between runs
	t.Cleanup(func() {
		logLevel = ""
		configPath = ""
		servePort = 0
		migrateSeed = true
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	output, err := executeCommand(t, "routes")
	require.NoError(t, err)

	assert.Contains(t, output, "ROUTE TABLE")
	assert.Contains(t, output, "/farmer-input")
	assert.Contains(t, output, "Dashboard")
}

func TestRoutesCommand_RejectsArgs(t *testing.T) {
	_, err := executeCommand(t, "routes", "extra")
	assert.Error(t, err)
}

func TestStatsCommand_Fixtures(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	output, err := executeCommand(t, "stats")
	require.NoError(t, err)

	assert.Contains(t, output, "FARMERS")
	assert.Contains(t, output, "Total:    5")
	assert.Contains(t, output, "PROOFS")
	assert.Contains(t, output, "Total:    4")
	assert.Contains(t, output, "PROOF HISTORY")
	assert.Contains(t, output, "ABC123")
}

func TestMigrateCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := executeCommand(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrimrv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o644))

	_, err := executeCommand(t, "stats", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := executeCommand(t, "stats", "--log-level", "chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}
