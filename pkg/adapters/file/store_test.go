package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/quill/pkg/adapters/file"
	"github.com/aretw0/quill/pkg/domain"
	contract "github.com/aretw0/quill/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	contract.RunPresetStoreContract(t, file.New(t.TempDir()))
}

func TestStore_Files(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "presets")
	store := file.New(dir)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys, "a missing directory lists nothing")

	require.NoError(t, store.Save(ctx, "abc", []domain.Segment{{Text: "hi"}}))
	data, err := os.ReadFile(filepath.Join(dir, "abc.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"hi"}]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")

	require.NoError(t, store.Delete(ctx, "never-saved"))
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := file.New(t.TempDir())

	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		assert.ErrorIs(t, store.Save(ctx, key, nil), file.ErrInvalidKey, key)
		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, file.ErrInvalidKey, key)
	}
}

func TestStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPresetNotFound)
}
