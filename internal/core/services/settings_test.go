package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbgm/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dbgm/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, service.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("catalog.name", "Mountains")
	_ = store.Set("folder.patterns", []any{"*.png", "raw/**/*.jpg"})
	_ = store.Set("folder.include_hidden", true)
	_ = store.Set("folder.min_scan_interval", "250ms")
	_ = store.Set("folder.watch", false)
	_ = store.Set("crop.resolution", "2560x1440")
	_ = store.Set("cache.path", "/var/cache/dbgm")

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "Mountains", settings.Catalog.Name)
	assert.Equal(t, []string{"*.png", "raw/**/*.jpg"}, settings.Folder.Patterns)
	assert.True(t, settings.Folder.IncludeHidden)
	assert.Equal(t, 250*time.Millisecond, settings.Folder.MinScanInterval)
	assert.False(t, settings.Folder.Watch)
	assert.Equal(t, domain.Size{W: 2560, H: 1440}, settings.Crop.Resolution)
	assert.Equal(t, "/var/cache/dbgm", settings.Cache.Path)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("folder.patterns", []string{"[unclosed"})
	_ = store.Set("folder.min_scan_interval", "soon")
	_ = store.Set("crop.resolution", "wide")

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Folder.Patterns, settings.Folder.Patterns)
	assert.Equal(t, defaults.Folder.MinScanInterval, settings.Folder.MinScanInterval)
	assert.Equal(t, defaults.Crop.Resolution, settings.Crop.Resolution)
	assert.Error(t, service.Validate())
}

func TestSettingsService_SaveAndGet(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultSettings()
	settings.Catalog.ImageFolder = "/home/me/Pictures"
	settings.Folder.MinScanInterval = 5 * time.Second
	settings.Crop.Resolution = domain.Size{W: 1280, H: 1024}

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
	assert.Equal(t, "5s", store.GetString("folder.min_scan_interval"))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, s *domain.Settings)
		wantErr bool
	}{
		{
			name:  "catalog name",
			key:   "catalog.name",
			value: "Desk",
			check: func(t *testing.T, s *domain.Settings) { assert.Equal(t, "Desk", s.Catalog.Name) },
		},
		{
			name:  "patterns list",
			key:   "folder.patterns",
			value: "*.png, **/*.jpg",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, []string{"*.png", "**/*.jpg"}, s.Folder.Patterns)
			},
		},
		{
			name:  "patterns with braces",
			key:   "folder.patterns",
			value: "**/*.{jpg,png},raw/*",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, []string{"**/*.{jpg,png}", "raw/*"}, s.Folder.Patterns)
			},
		},
		{
			name:  "include hidden",
			key:   "folder.include_hidden",
			value: "true",
			check: func(t *testing.T, s *domain.Settings) { assert.True(t, s.Folder.IncludeHidden) },
		},
		{
			name:  "scan interval",
			key:   "folder.min_scan_interval",
			value: "1m30s",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, 90*time.Second, s.Folder.MinScanInterval)
			},
		},
		{
			name:  "resolution",
			key:   "crop.resolution",
			value: "3840x2160",
			check: func(t *testing.T, s *domain.Settings) {
				assert.Equal(t, domain.Size{W: 3840, H: 2160}, s.Crop.Resolution)
			},
		},
		{name: "unknown key", key: "search.mode", value: "full", wantErr: true},
		{name: "bad bool", key: "folder.watch", value: "sometimes", wantErr: true},
		{name: "negative interval", key: "folder.min_scan_interval", value: "-1s", wantErr: true},
		{name: "bad resolution", key: "crop.resolution", value: "0x0", wantErr: true},
		{name: "bad pattern", key: "folder.patterns", value: "[a-", wantErr: true},
		{name: "empty patterns", key: "folder.patterns", value: " , ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			settings, err := service.Get()
			require.NoError(t, err)
			tt.check(t, settings)
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	keys := service.Keys()

	assert.Len(t, keys, 8)
	assert.IsNonDecreasing(t, keys)
	assert.Contains(t, keys, "folder.min_scan_interval")
}
