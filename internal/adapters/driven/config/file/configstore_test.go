package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".dbgm", "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte{}, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("catalog.name")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("catalog.name", "Desk"))
	require.NoError(t, store.Set("folder.watch", true))
	require.NoError(t, store.Set("folder.depth", 3))
	require.NoError(t, store.Set("folder.patterns", []string{"*.png", "*.jpg"}))

	assert.Equal(t, "Desk", store.GetString("catalog.name"))
	assert.Equal(t, "", store.GetString("folder.watch"))
	assert.True(t, store.GetBool("folder.watch"))
	assert.False(t, store.GetBool("catalog.name"))
	assert.Equal(t, 3, store.GetInt("folder.depth"))
	assert.Equal(t, 0, store.GetInt("catalog.name"))
	assert.Equal(t, []string{"*.png", "*.jpg"}, store.GetStringSlice("folder.patterns"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("catalog.name", "Desk"))
	require.NoError(t, store.Set("folder.include_hidden", true))
	require.NoError(t, store.Set("folder.patterns", []string{"**/*.png"}))
	require.NoError(t, store.Set("crop.resolution", "2560x1440"))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "Desk", reloaded.GetString("catalog.name"))
	assert.True(t, reloaded.GetBool("folder.include_hidden"))
	assert.Equal(t, []string{"**/*.png"}, reloaded.GetStringSlice("folder.patterns"))
	assert.Equal(t, "2560x1440", reloaded.GetString("crop.resolution"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("folder.watch", false))
	require.NoError(t, store.Set("catalog.name", "Desk"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[folder]")
	assert.Contains(t, string(data), "[catalog]")
	assert.NotContains(t, string(data), "'folder.watch'")
}

func TestConfigStore_ReadsHandWrittenTables(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[catalog]
name = "Mountains"

[folder]
patterns = ["*.jpg"]
min_scan_interval = "5s"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "Mountains", store.GetString("catalog.name"))
	assert.Equal(t, []string{"*.jpg"}, store.GetStringSlice("folder.patterns"))
	assert.Equal(t, "5s", store.GetString("folder.min_scan_interval"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("catalog.name", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Set_KeyConflict(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("folder.watch", true))

	err = store.Set("folder", "flat")

	assert.Error(t, err)
	_, ok := store.Get("folder")
	assert.False(t, ok, "failed set is rolled back")
	assert.True(t, store.GetBool("folder.watch"))
}

func TestConfigStore_Set_WriteError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("catalog.name", "before"))

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err = store.Set("catalog.name", "after")

	assert.Error(t, err)
	assert.Equal(t, "before", store.GetString("catalog.name"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set("channel", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store.mu.Lock()
	store.data["cache.path"] = "/var/cache/dbgm"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/dbgm", reloaded.GetString("cache.path"))
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("catalog.name", "data"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestNestMap(t *testing.T) {
	tests := []struct {
		name    string
		flat    map[string]any
		want    map[string]any
		wantErr bool
	}{
		{
			name: "groups by prefix",
			flat: map[string]any{"a.b": 1, "a.c": 2, "d": 3},
			want: map[string]any{"a": map[string]any{"b": 1, "c": 2}, "d": 3},
		},
		{
			name: "deep keys",
			flat: map[string]any{"a.b.c": true},
			want: map[string]any{"a": map[string]any{"b": map[string]any{"c": true}}},
		},
		{
			name:    "value and table clash",
			flat:    map[string]any{"a": 1, "a.b": 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := nestMap(tt.flat)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.flat, flattenMap(got, ""))
		})
	}
}
