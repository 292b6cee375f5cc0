// Package services implements the driving port interfaces.
//
// Catalog reconciles the changes reported by sources into the background
// set. SettingsService maps configuration keys onto domain.Settings.
// Services only see sources through driven.ErasedSource and never import
// adapters or connectors.
package services
