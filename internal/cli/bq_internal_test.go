package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhsu/dataferry/internal/config"
)

func TestResolveSQL(t *testing.T) {
	root := t.TempDir()
	layout := config.NewLayout(root, config.ModeLocal)

	queriesDir := layout.QueriesDir()
	require.NoError(t, os.MkdirAll(queriesDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(queriesDir, "revenue.sql"),
		[]byte("SELECT month, total FROM revenue"),
		0o600))

	t.Run("inline sql wins", func(t *testing.T) {
		sql, err := resolveSQL(layout, "SELECT 1", "")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", sql)
	})

	t.Run("file is resolved against the queries directory", func(t *testing.T) {
		sql, err := resolveSQL(layout, "", "revenue.sql")
		require.NoError(t, err)
		assert.Equal(t, "SELECT month, total FROM revenue", sql)
	})

	t.Run("absolute file path passes through", func(t *testing.T) {
		abs := filepath.Join(queriesDir, "revenue.sql")
		sql, err := resolveSQL(layout, "", abs)
		require.NoError(t, err)
		assert.Contains(t, sql, "FROM revenue")
	})

	t.Run("both flags rejected", func(t *testing.T) {
		_, err := resolveSQL(layout, "SELECT 1", "revenue.sql")
		assert.ErrorContains(t, err, "mutually exclusive")
	})

	t.Run("neither flag rejected", func(t *testing.T) {
		_, err := resolveSQL(layout, "", "")
		assert.ErrorContains(t, err, "required")
	})

	t.Run("missing file reported", func(t *testing.T) {
		_, err := resolveSQL(layout, "", "nope.sql")
		assert.ErrorContains(t, err, "nope.sql")
	})
}
