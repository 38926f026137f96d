package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout derives the well-known workspace directories from a root and a
// mode. Only the data directory is mode-sensitive; everything else is a
// fixed child of the root.
type Layout struct {
	root string
	mode Mode
}

// NewLayout builds a Layout for the given workspace root and mode.
func NewLayout(root string, mode Mode) Layout {
	return Layout{root: root, mode: mode}
}

// Root returns the workspace root directory.
func (l Layout) Root() string { return l.root }

// Mode returns the mode the layout was resolved with.
func (l Layout) Mode() Mode { return l.mode }

// DataDir returns the active data directory for the layout's mode.
func (l Layout) DataDir() string {
	return filepath.Join(l.root, "data", l.mode.dataSubdir())
}

// ModelsDir returns the directory persisted model artifacts live in.
func (l Layout) ModelsDir() string {
	return filepath.Join(l.root, "models")
}

// QueriesDir returns the directory SQL scripts are read from.
func (l Layout) QueriesDir() string {
	return filepath.Join(l.root, "src", "queries")
}

// ServiceAccountDir returns the directory holding service account keys.
func (l Layout) ServiceAccountDir() string {
	return filepath.Join(l.root, "sa")
}

// RunsDir returns the experiment tracking directory.
func (l Layout) RunsDir() string {
	return filepath.Join(l.root, "mlruns")
}

// LogDir returns the log directory. Logs live under data/ regardless of
// mode so CI and local runs share one log location.
func (l Layout) LogDir() string {
	return filepath.Join(l.root, "data", "log")
}

// ResolveData joins a caller-supplied relative path onto the data
// directory. Absolute paths are passed through untouched.
func (l Layout) ResolveData(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(l.DataDir(), rel)
}

// ResolveQuery joins a caller-supplied relative path onto the queries
// directory. Absolute paths are passed through untouched.
func (l Layout) ResolveQuery(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(l.QueriesDir(), rel)
}

// EnsureDirs creates the full workspace directory tree.
func (l Layout) EnsureDirs() error {
	dirs := []string{
		l.DataDir(),
		l.ModelsDir(),
		l.QueriesDir(),
		l.ServiceAccountDir(),
		l.RunsDir(),
		l.LogDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating workspace directory %s: %w", dir, err)
		}
	}
	return nil
}
