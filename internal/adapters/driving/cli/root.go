// Package cli implements the dbgm command line.
//
// Commands drive the core through the driving ports. The services behind
// them are built by a ServiceBuilder once flags are parsed, so --config
// can choose where settings live.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
	"github.com/custodia-labs/dbgm/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// CatalogFactory builds a catalog whose sources are the given folders.
type CatalogFactory func(settings *domain.Settings, folders []string) (driving.Catalog, error)

// Services holds what the commands drive.
type Services struct {
	Settings driving.SettingsService
	Catalogs CatalogFactory
}

// ServiceBuilder builds the services for a config directory. An empty
// directory selects the default.
type ServiceBuilder func(configDir string) (*Services, error)

var (
	buildServices   ServiceBuilder
	settingsService driving.SettingsService
	catalogFactory  CatalogFactory
)

var rootCmd = &cobra.Command{
	Use:   "dbgm",
	Short: "Desktop background manager",
	Long: `dbgm keeps a catalog of desktop backgrounds drawn from image folders.

Backgrounds follow their originals as files are added, changed, moved away
or deleted, and keep their crop settings while the image stays the same.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.dbgm)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. build is called after flag parsing, unless
// services were already configured.
func Execute(build ServiceBuilder) error {
	buildServices = build
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if buildServices == nil || settingsService != nil {
		return nil
	}

	svc, err := buildServices(configDir)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	settingsService = svc.Settings
	catalogFactory = svc.Catalogs
	return nil
}

func loadSettings() (*domain.Settings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

func openCatalog(settings *domain.Settings, folders []string) (driving.Catalog, error) {
	if catalogFactory == nil {
		return nil, errors.New("catalog service not configured")
	}
	catalog, err := catalogFactory(settings, folders)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, nil
}

func closeCatalog(cmd *cobra.Command, catalog driving.Catalog) {
	if err := catalog.Close(); err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
	}
}
