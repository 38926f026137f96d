package cli_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhsu/dataferry/internal/frame"
)

// writeScoresCSV creates a 10-row fixture in the workspace data directory.
func writeScoresCSV(t *testing.T, workspace string) string {
	t.Helper()

	dataDir := filepath.Join(workspace, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o750))

	csv := "id,score\n"
	for i := 1; i <= 10; i++ {
		csv += fmt.Sprintf("%d,%d\n", i, i*10)
	}
	path := filepath.Join(dataDir, "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	return path
}

func TestDataSplit_WritesDisjointReplications(t *testing.T) {
	setupCLITest(t)
	workspace := t.TempDir()
	writeScoresCSV(t, workspace)

	out, err := execute(t,
		"--workspace", workspace,
		"data", "split",
		"--source", "scores.csv",
		"--replications", "2",
		"--test-ratio", "0.3")
	require.NoError(t, err)
	assert.Contains(t, out, "Split 1: 7 train rows")
	assert.Contains(t, out, "3 test rows")
	assert.Contains(t, out, "Seed: 42")

	dataDir := filepath.Join(workspace, "data")
	for i := 1; i <= 2; i++ {
		train, readErr := frame.ReadCSVFile(filepath.Join(dataDir, fmt.Sprintf("scores_train_%d.csv", i)))
		require.NoError(t, readErr)
		test, readErr := frame.ReadCSVFile(filepath.Join(dataDir, fmt.Sprintf("scores_test_%d.csv", i)))
		require.NoError(t, readErr)

		assert.Equal(t, 7, train.NumRows())
		assert.Equal(t, 3, test.NumRows())
		assert.Equal(t, []string{"id", "score"}, train.Header())

		// Train and test must partition the source rows exactly.
		seen := map[string]bool{}
		for _, row := range train.Rows() {
			seen[row[0]] = true
		}
		for _, row := range test.Rows() {
			assert.False(t, seen[row[0]], "row %s appears in both train and test", row[0])
			seen[row[0]] = true
		}
		assert.Len(t, seen, 10)
	}
}

func TestDataSplit_DeterministicForSeed(t *testing.T) {
	setupCLITest(t)
	workspace := t.TempDir()
	writeScoresCSV(t, workspace)

	args := []string{"--workspace", workspace, "data", "split", "--source", "scores.csv"}

	_, err := execute(t, args...)
	require.NoError(t, err)
	trainPath := filepath.Join(workspace, "data", "scores_train_1.csv")
	first, err := os.ReadFile(trainPath)
	require.NoError(t, err)

	_, err = execute(t, args...)
	require.NoError(t, err)
	second, err := os.ReadFile(trainPath)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestDataSplit_MissingSource(t *testing.T) {
	setupCLITest(t)
	workspace := t.TempDir()

	_, err := execute(t, "--workspace", workspace, "data", "split", "--source", "nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source file not found")
}

func TestDataSplit_RejectsBadRatio(t *testing.T) {
	setupCLITest(t)
	workspace := t.TempDir()
	writeScoresCSV(t, workspace)

	_, err := execute(t, "--workspace", workspace,
		"data", "split", "--source", "scores.csv", "--test-ratio", "1.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test ratio")
}
