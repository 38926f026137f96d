package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhsu/dataferry/internal/cli"
)

// runCLI executes the root command against an isolated home and workspace.
func runCLI(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("DATAFERRY_WORKSPACE", "")
	t.Setenv("DATAFERRY_MODE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	var buf bytes.Buffer
	cmd := cli.NewRootCmd("integration")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// TestWorkspaceLifecycle walks the config lifecycle end to end: init a fresh
// workspace, read back the effective configuration, and pick up environment
// overrides on a later run.
func TestWorkspaceLifecycle(t *testing.T) {
	home := t.TempDir()
	workspace := filepath.Join(home, "ferry")

	out, err := runCLI(t, home, "--workspace", workspace, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized")

	configPath := filepath.Join(home, ".dataferry", "config.yaml")
	assert.FileExists(t, configPath)
	assert.DirExists(t, filepath.Join(workspace, "data"))
	assert.DirExists(t, filepath.Join(workspace, "src", "queries"))

	// The saved workspace root survives a fresh invocation.
	out, err = runCLI(t, home, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "root: "+workspace)
	assert.Contains(t, out, "mode: local")

	// Environment overrides beat the file on the next run.
	t.Setenv("DATAFERRY_MODE", "inference")
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("integration")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"config", "show"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "mode: inference")
}

// TestSheetPushValidation confirms user errors surface before any remote
// call is attempted.
func TestSheetPushValidation(t *testing.T) {
	home := t.TempDir()

	_, err := runCLI(t, home,
		"sheet", "push",
		"--spreadsheet", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms",
		"--worksheet", "scores",
		"--batch-size", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch size")
}

// TestModeValidation rejects unknown workspace modes before running any
// subcommand logic.
func TestModeValidation(t *testing.T) {
	home := t.TempDir()

	_, err := runCLI(t, home, "--mode", "production", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")

	_, err = runCLI(t, home, "--mode", "train", "config", "show")
	require.NoError(t, err)
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	home := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoFileExists(t, filepath.Join(cwd, ".env"))

	_, err = runCLI(t, home, "config", "show")
	require.NoError(t, err)
}
