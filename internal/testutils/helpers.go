package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// ScriptRepo initializes a Loam repository in a temp dir holding the given
// script documents, keyed by file name (e.g. "intro.md").
func ScriptRepo(t *testing.T, docs map[string]string, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(dir, opts...)
	require.NoError(t, err, "init scripts repo")

	WriteScripts(t, dir, docs)
	return dir, repo
}

// WriteScripts writes script documents into dir.
func WriteScripts(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644), name)
	}
}
