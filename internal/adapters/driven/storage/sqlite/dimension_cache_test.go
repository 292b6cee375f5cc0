package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbgm/internal/core/domain"
)

func TestDimensionCache_PutAndGet(t *testing.T) {
	cache := setupTestStore(t).DimensionCache()

	_, ok := cache.Get("/pictures/a.png|100|2048")
	assert.False(t, ok)

	require.NoError(t, cache.Put("/pictures/a.png|100|2048", domain.Size{W: 1920, H: 1080}))

	size, ok := cache.Get("/pictures/a.png|100|2048")
	assert.True(t, ok)
	assert.Equal(t, domain.Size{W: 1920, H: 1080}, size)
}

func TestDimensionCache_PutReplaces(t *testing.T) {
	cache := setupTestStore(t).DimensionCache()

	require.NoError(t, cache.Put("fp", domain.Size{W: 1, H: 1}))
	require.NoError(t, cache.Put("fp", domain.Size{W: 4000, H: 3000}))

	size, ok := cache.Get("fp")
	assert.True(t, ok)
	assert.Equal(t, domain.Size{W: 4000, H: 3000}, size)
}

func TestDimensionCache_PutRejectsEmptySize(t *testing.T) {
	cache := setupTestStore(t).DimensionCache()

	err := cache.Put("fp", domain.Size{W: 0, H: 10})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, ok := cache.Get("fp")
	assert.False(t, ok)
}

func TestDimensionCache_Forget(t *testing.T) {
	cache := setupTestStore(t).DimensionCache()
	require.NoError(t, cache.Put("fp", domain.Size{W: 10, H: 10}))

	require.NoError(t, cache.Forget("fp"))
	require.NoError(t, cache.Forget("never-stored"))

	_, ok := cache.Get("fp")
	assert.False(t, ok)
}

func TestDimensionCache_ClosedStoreMisses(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	cache := store.DimensionCache()
	require.NoError(t, cache.Put("fp", domain.Size{W: 10, H: 10}))
	require.NoError(t, store.Close())

	_, ok := cache.Get("fp")

	assert.False(t, ok)
	assert.Error(t, cache.Put("fp", domain.Size{W: 1, H: 1}))
}
