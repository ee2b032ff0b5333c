package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-migrate/internal/domain/config"
)

func TestLocalConfigStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *LocalConfigStoreAdapter {
		return NewLocalConfigStoreAdapter(&config.RuntimeConfig{DataDir: filepath.Join(t.TempDir(), ".treb")})
	}

	t.Run("missing file loads empty", func(t *testing.T) {
		store := newStore(t)
		assert.False(t, store.Exists())

		overrides, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, overrides.Network)
	})

	t.Run("save creates the data directory", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "sepolia"}))
		assert.True(t, store.Exists())
		assert.Equal(t, "config.local.json", filepath.Base(store.GetPath()))

		overrides, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sepolia", overrides.Network)

		entries, err := os.ReadDir(filepath.Dir(store.GetPath()))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp files must not be left behind")
	})

	t.Run("empty overrides remove the file", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, &config.LocalConfig{Network: "sepolia"}))
		require.NoError(t, store.Save(ctx, &config.LocalConfig{}))
		assert.False(t, store.Exists())

		require.NoError(t, store.Save(ctx, &config.LocalConfig{}), "removing twice is not an error")
	})

	t.Run("hand edited network is normalized", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(store.GetPath()), 0755))
		require.NoError(t, os.WriteFile(store.GetPath(), []byte(`{"network": " Sepolia "}`), 0644))

		overrides, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "sepolia", overrides.Network)
	})

	t.Run("corrupt file", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(store.GetPath()), 0755))
		require.NoError(t, os.WriteFile(store.GetPath(), []byte("{"), 0644))

		_, err := store.Load(ctx)
		assert.ErrorContains(t, err, "failed to parse")
	})
}
