package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/quill/pkg/domain"
	"github.com/aretw0/quill/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPresetStoreContract verifies that a PresetStore implementation adheres to
// the interface contract.
func RunPresetStoreContract(t *testing.T, store ports.PresetStore) {
	t.Helper()

	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000")

	segments := []domain.Segment{
		{Text: "Hello "},
		{Text: "World", Effects: []domain.EffectSpec{
			{Name: "wobble", Params: map[string]any{"amplitude": 4.0}},
			{Name: "trigger"},
		}},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, segments))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
		assert.Equal(t, "Hello ", loaded[0].Text)
		assert.Empty(t, loaded[0].Effects)
		assert.Equal(t, "World", loaded[1].Text)
		require.Len(t, loaded[1].Effects, 2)
		assert.Equal(t, "wobble", loaded[1].Effects[0].Name)
		assert.EqualValues(t, 4, loaded[1].Effects[0].Params["amplitude"])
		assert.Equal(t, "trigger", loaded[1].Effects[1].Name)
	})

	t.Run("Loaded segments are a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, segments))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded[0].Text = "mutated"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Hello ", again[0].Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrPresetNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, segments))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrPresetNotFound)
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Save(ctx, k1, segments))
		require.NoError(t, store.Save(ctx, k2, segments))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunScriptLoaderContract verifies a ScriptLoader against scripts the caller
// has already stored in its backend.
func RunScriptLoaderContract(t *testing.T, loader ports.ScriptLoader, want []domain.Script) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load", func(t *testing.T) {
		for _, w := range want {
			got, err := loader.Load(ctx, w.ID)
			require.NoError(t, err, w.ID)
			assert.Equal(t, w.Parts, got.Parts, w.ID)
			assert.Equal(t, w.Mode, got.Mode, w.ID)
		}
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := loader.Load(ctx, "non-existent-script")
		assert.ErrorIs(t, err, domain.ErrScriptNotFound)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := loader.List(ctx)
		require.NoError(t, err)
		for _, w := range want {
			assert.Contains(t, ids, w.ID)
		}
	})
}
