package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyCatalogName     = "catalog.name"
	keyImageFolder     = "catalog.image_folder"
	keyFolderPatterns  = "folder.patterns"
	keyIncludeHidden   = "folder.include_hidden"
	keyMinScanInterval = "folder.min_scan_interval"
	keyFolderWatch     = "folder.watch"
	keyCropResolution  = "crop.resolution"
	keyCachePath       = "cache.path"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or malformed values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Catalog: domain.CatalogSettings{
			Name:        s.configStore.GetString(keyCatalogName),
			ImageFolder: s.configStore.GetString(keyImageFolder),
		},
		Folder: domain.FolderSettings{
			Patterns:        s.getPatterns(defaults.Folder.Patterns),
			IncludeHidden:   s.getBool(keyIncludeHidden, defaults.Folder.IncludeHidden),
			MinScanInterval: s.getDuration(keyMinScanInterval, defaults.Folder.MinScanInterval),
			Watch:           s.getBool(keyFolderWatch, defaults.Folder.Watch),
		},
		Crop: domain.CropSettings{
			Resolution: s.getSize(keyCropResolution, defaults.Crop.Resolution),
		},
		Cache: domain.CacheSettings{
			Path: s.configStore.GetString(keyCachePath),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyCatalogName, settings.Catalog.Name},
		{keyImageFolder, settings.Catalog.ImageFolder},
		{keyFolderPatterns, slices.Clone(settings.Folder.Patterns)},
		{keyIncludeHidden, settings.Folder.IncludeHidden},
		{keyMinScanInterval, settings.Folder.MinScanInterval.String()},
		{keyFolderWatch, settings.Folder.Watch},
		{keyCropResolution, settings.Crop.Resolution.String()},
		{keyCachePath, settings.Cache.Path},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value for key and stores it. Unknown keys and malformed values
// are rejected with ErrInvalidInput.
func (s *SettingsService) Set(key, value string) error {
	parsed, err := parseSetting(key, value)
	if err != nil {
		return err
	}
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyCatalogName, keyImageFolder,
		keyFolderPatterns, keyIncludeHidden, keyMinScanInterval, keyFolderWatch,
		keyCropResolution, keyCachePath,
	}
	slices.Sort(keys)
	return keys
}

// Validate checks the stored values, reporting the first malformed one
// instead of silently falling back to its default.
func (s *SettingsService) Validate() error {
	for _, pattern := range s.configStore.GetStringSlice(keyFolderPatterns) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %s: bad pattern %q", domain.ErrInvalidInput, keyFolderPatterns, pattern)
		}
	}
	for _, key := range []string{keyMinScanInterval, keyCropResolution} {
		raw := s.configStore.GetString(key)
		if raw == "" {
			continue
		}
		if _, err := parseSetting(key, raw); err != nil {
			return err
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// parseSetting converts the string form of a setting to its stored type.
func parseSetting(key, value string) (any, error) {
	switch key {
	case keyCatalogName, keyImageFolder, keyCachePath:
		return value, nil

	case keyFolderPatterns:
		var patterns []string
		for _, p := range splitPatterns(value) {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !doublestar.ValidatePattern(p) {
				return nil, fmt.Errorf("%w: %s: bad pattern %q", domain.ErrInvalidInput, key, p)
			}
			patterns = append(patterns, p)
		}
		if len(patterns) == 0 {
			return nil, fmt.Errorf("%w: %s: at least one pattern is required", domain.ErrInvalidInput, key)
		}
		return patterns, nil

	case keyIncludeHidden, keyFolderWatch:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a boolean", domain.ErrInvalidInput, key, value)
		}
		return b, nil

	case keyMinScanInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%w: %s: %q is not a non-negative duration", domain.ErrInvalidInput, key, value)
		}
		return d.String(), nil

	case keyCropResolution:
		size, err := domain.ParseSize(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return size.String(), nil

	default:
		return nil, fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPatterns(defaultVal []string) []string {
	patterns := s.configStore.GetStringSlice(keyFolderPatterns)
	if len(patterns) == 0 {
		return defaultVal
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return defaultVal
		}
	}
	return patterns
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getSize(key string, defaultVal domain.Size) domain.Size {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	size, err := domain.ParseSize(val)
	if err != nil {
		return defaultVal
	}
	return size
}

// splitPatterns splits a comma-separated pattern list, leaving commas inside
// brace alternatives such as "*.{jpg,png}" alone.
func splitPatterns(value string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range value {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, value[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, value[start:])
}
