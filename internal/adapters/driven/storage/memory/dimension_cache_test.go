package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbgm/internal/core/domain"
)

func TestNewDimensionCache(t *testing.T) {
	cache := NewDimensionCache()
	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
}

func TestDimensionCache_PutGetForget(t *testing.T) {
	cache := NewDimensionCache()

	_, ok := cache.Get("/a.png|1|2")
	assert.False(t, ok)

	require.NoError(t, cache.Put("/a.png|1|2", domain.Size{W: 800, H: 600}))
	size, ok := cache.Get("/a.png|1|2")
	assert.True(t, ok)
	assert.Equal(t, domain.Size{W: 800, H: 600}, size)

	require.NoError(t, cache.Put("/a.png|1|2", domain.Size{W: 1024, H: 768}))
	size, _ = cache.Get("/a.png|1|2")
	assert.Equal(t, domain.Size{W: 1024, H: 768}, size)

	require.NoError(t, cache.Forget("/a.png|1|2"))
	_, ok = cache.Get("/a.png|1|2")
	assert.False(t, ok)

	// Forgetting an unknown fingerprint is not an error.
	assert.NoError(t, cache.Forget("missing"))
}

func TestDimensionCache_Concurrent(t *testing.T) {
	cache := NewDimensionCache()
	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fp := fmt.Sprintf("/img%d.png|0|0", i)
			_ = cache.Put(fp, domain.Size{W: uint32(i + 1), H: 1})
			_, _ = cache.Get(fp)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, cache.Len())
}
