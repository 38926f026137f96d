package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhsu/dataferry/internal/cli"
	"github.com/mwhsu/dataferry/internal/config"
	"github.com/mwhsu/dataferry/internal/frame"
)

// setupCLITest isolates the test from the real home directory and any
// dataferry environment variables set in the developer's shell.
func setupCLITest(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATAFERRY_WORKSPACE", "")
	t.Setenv("DATAFERRY_MODE", "")
	t.Setenv("DATAFERRY_LOG_LEVEL", "")
	t.Setenv("DATAFERRY_BQ_PROJECT", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Version(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}

func TestRootCmd_InvalidMode(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "--mode", "bogus", "config", "show")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidMode)
}

func TestRootCmd_MissingExplicitConfigFile(t *testing.T) {
	setupCLITest(t)

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := execute(t, "--config", missing, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestConfigInit_CreatesFileAndWorkspace(t *testing.T) {
	setupCLITest(t)

	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.yaml")
	workspace := filepath.Join(tmp, "ws")

	out, err := execute(t, "--config", configPath, "--workspace", workspace, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at "+configPath)

	_, statErr := os.Stat(configPath)
	require.NoError(t, statErr)

	for _, dir := range []string{"data", "models", filepath.Join("src", "queries")} {
		info, dirErr := os.Stat(filepath.Join(workspace, dir))
		require.NoError(t, dirErr, "workspace directory %s should exist", dir)
		assert.True(t, info.IsDir())
	}

	// A second init without --force refuses to overwrite.
	_, err = execute(t, "--config", configPath, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "--config", configPath, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow_PrintsEffectiveConfig(t *testing.T) {
	setupCLITest(t)
	t.Setenv("DATAFERRY_BQ_PROJECT", "acme-analytics")

	out, err := execute(t, "--workspace", "/srv/ferry", "--mode", "train", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "root: /srv/ferry")
	assert.Contains(t, out, "mode: train")
	assert.Contains(t, out, "project: acme-analytics")
	assert.Contains(t, out, "batch_size: 20000")
}

func TestSheetPush_RequiresFlags(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "sheet", "push")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestSheetPush_RejectsBadBatchSize(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t,
		"sheet", "push",
		"--spreadsheet", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"--worksheet", "scores",
		"--batch-size", "-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size")
}

func TestSheetPush_UnknownColumnRejectedLocally(t *testing.T) {
	setupCLITest(t)
	workspace := t.TempDir()
	dataDir := filepath.Join(workspace, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "scores.csv"), []byte("id,score\n1,90\n"), 0o600))

	_, err := execute(t,
		"--workspace", workspace,
		"sheet", "push",
		"--spreadsheet", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"--worksheet", "scores",
		"--source", "scores.csv",
		"--columns", "id,bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, frame.ErrColumnUnknown)
	assert.Contains(t, err.Error(), "bogus")
}

func TestGcsPut_RequiresExactlyOneSource(t *testing.T) {
	setupCLITest(t)

	_, err := execute(t, "gcs", "put", "--bucket", "b", "--file", "a.bin", "--dir", "models")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --file or --dir")

	_, err = execute(t, "gcs", "put", "--bucket", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --file or --dir")
}
