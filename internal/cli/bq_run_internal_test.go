package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhsu/dataferry/internal/artifact"
	"github.com/mwhsu/dataferry/internal/bq"
	"github.com/mwhsu/dataferry/internal/config"
	"github.com/mwhsu/dataferry/internal/frame"
	"github.com/mwhsu/dataferry/internal/sheets"
)

func resultTable(t *testing.T) *frame.Table {
	t.Helper()
	table, err := frame.NewWithRows(
		[]string{"month", "total"},
		[][]string{{"2026-07", "1234.5"}, {"2026-08", "42"}})
	require.NoError(t, err)
	return table
}

func TestCacheResult_DisabledStoreWritesNothing(t *testing.T) {
	dir := t.TempDir()
	store, err := bq.NewFileStore(dir, false, time.Hour)
	require.NoError(t, err)
	require.False(t, store.Enabled())

	cacheResult(context.Background(), store, "somekey", resultTable(t))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCacheResult_EnabledStorePersists(t *testing.T) {
	dir := t.TempDir()
	store, err := bq.NewFileStore(dir, true, time.Hour)
	require.NoError(t, err)
	require.True(t, store.Enabled())

	cacheResult(context.Background(), store, "somekey", resultTable(t))

	got, err := store.Get("somekey")
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumRows())
}

func TestWriteResult_PrettyStdout(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	layout := config.NewLayout(t.TempDir(), config.ModeLocal)

	err := writeResult(cmd, layout, resultTable(t), bqRunParams{pretty: true}, artifact.CodecJSON)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "2026-07,\"1,234.50\"")
	assert.Contains(t, buf.String(), "2026-08,42.00")
}

func TestWriteResult_SaveKeepsRawCells(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	root := t.TempDir()
	layout := config.NewLayout(root, config.ModeLocal)

	err := writeResult(cmd, layout, resultTable(t),
		bqRunParams{save: "out.csv", pretty: true}, artifact.CodecJSON)
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(layout.DataDir(), "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "2026-07,1234.5\n")
}

func TestLoadColumnSubset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,score\n1,ada,90\n2,bob,85\n"), 0o600))

	t.Run("narrows to requested columns", func(t *testing.T) {
		table, err := loadColumnSubset(path, []string{"id", "score"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "score"}, table.Header())
		assert.Equal(t, []string{"1", "90"}, table.Rows()[0])
	})

	t.Run("exclude only", func(t *testing.T) {
		table, err := loadColumnSubset(path, nil, []string{"name"})
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "score"}, table.Header())
	})

	t.Run("empty source path", func(t *testing.T) {
		_, err := loadColumnSubset("", []string{"id"}, nil)
		assert.ErrorIs(t, err, sheets.ErrMissingInput)
	})

	t.Run("missing source file", func(t *testing.T) {
		_, err := loadColumnSubset(filepath.Join(dir, "nope.csv"), []string{"id"}, nil)
		assert.ErrorIs(t, err, sheets.ErrSourceNotFound)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := loadColumnSubset(path, []string{"bogus"}, nil)
		assert.ErrorIs(t, err, frame.ErrColumnUnknown)
	})
}
