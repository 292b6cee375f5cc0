package domain

import "time"

// CatalogSettings holds catalog-level presentation settings.
type CatalogSettings struct {
	// Name is the display name of the background set.
	Name string

	// ImageFolder is the folder backing the set, if any.
	ImageFolder string
}

// FolderSettings holds folder source behaviour configuration.
type FolderSettings struct {
	// Patterns are doublestar globs, relative to the folder root, selecting originals.
	Patterns []string

	// IncludeHidden includes dot-files and dot-directories.
	IncludeHidden bool

	// MinScanInterval is the minimum time between two folder scans.
	MinScanInterval time.Duration

	// Watch enables filesystem notifications so unchanged folders are not rescanned.
	Watch bool
}

// CropSettings holds crop editing configuration.
type CropSettings struct {
	// Resolution is the target screen resolution whose aspect the crop window takes.
	Resolution Size
}

// CacheSettings holds dimension cache configuration.
type CacheSettings struct {
	// Path is the directory of the SQLite dimension cache.
	// Empty keeps the cache in memory.
	Path string
}

// Settings holds all application settings.
type Settings struct {
	Catalog CatalogSettings
	Folder  FolderSettings
	Crop    CropSettings
	Cache   CacheSettings
}

// DefaultImagePatterns returns the default folder patterns: every image
// format dbgm can decode, at any depth.
func DefaultImagePatterns() []string {
	return []string{"**/*.{jpg,jpeg,png,gif,bmp,webp,tif,tiff,JPG,JPEG,PNG,GIF,BMP,WEBP,TIF,TIFF}"}
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Folder: FolderSettings{
			Patterns:        DefaultImagePatterns(),
			MinScanInterval: time.Second,
			Watch:           true,
		},
		Crop: CropSettings{
			Resolution: Size{W: 1920, H: 1080},
		},
	}
}
