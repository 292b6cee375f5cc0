// Package driving defines the interfaces the CLI uses to drive the core:
// the background catalog and the settings service.
//
// Implementations live in internal/core/services.
package driving
