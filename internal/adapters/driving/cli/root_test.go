package cli

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dbgm/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/dbgm/internal/connectors/folder"
	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
	"github.com/custodia-labs/dbgm/internal/core/services"
)

// folderCatalogs builds catalogs the way the binary does, with an in-memory
// dimension cache.
func folderCatalogs(settings *domain.Settings, folders []string) (driving.Catalog, error) {
	catalog := services.NewCatalog()
	if settings.Catalog.Name != "" {
		catalog.SetName(settings.Catalog.Name)
	}
	cache := memory.NewDimensionCache()
	for _, f := range folders {
		src, err := folder.New(f, folder.OptionsFromSettings(settings.Folder, cache))
		if err != nil {
			_ = catalog.Close()
			return nil, err
		}
		catalog.AddSource(src.Erased())
	}
	return catalog, nil
}

// setupCLITest installs in-memory services and restores the previous ones
// when the test ends.
func setupCLITest(t *testing.T, values map[string]any) {
	t.Helper()

	oldSettings, oldFactory, oldBuild := settingsService, catalogFactory, buildServices
	t.Cleanup(func() {
		settingsService, catalogFactory, buildServices = oldSettings, oldFactory, oldBuild
		resetFlags(rootCmd)
	})

	config := map[string]any{
		"folder.watch":             false,
		"folder.min_scan_interval": "0s",
	}
	for k, v := range values {
		config[k] = v
	}
	settingsService = services.NewSettingsService(memory.NewConfigStoreFrom(config))
	catalogFactory = folderCatalogs
	buildServices = nil
	resetFlags(rootCmd)
}

// resetFlags restores every flag of cmd and its children to its default,
// since flag values outlive a single Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "dbgm", rootCmd.Use)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{"scan", "watch", "crop", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestExecute_BuildsServicesWithConfigDir(t *testing.T) {
	setupCLITest(t, nil)
	settingsService, catalogFactory = nil, nil

	dir := t.TempDir()
	var gotDir string
	build := func(configDir string) (*Services, error) {
		gotDir = configDir
		return &Services{
			Settings: services.NewSettingsService(memory.NewConfigStore()),
			Catalogs: folderCatalogs,
		}, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--config", dir, "settings"})
	defer rootCmd.SetArgs(nil)

	err := Execute(build)

	require.NoError(t, err)
	assert.Equal(t, dir, gotDir)
	assert.NotNil(t, settingsService)
	assert.NotNil(t, catalogFactory)
	assert.Contains(t, buf.String(), "Configuration is valid.")
}

func TestExecute_BuildError(t *testing.T) {
	setupCLITest(t, nil)
	settingsService, catalogFactory = nil, nil

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"settings"})
	defer rootCmd.SetArgs(nil)

	err := Execute(func(string) (*Services, error) {
		return nil, errors.New("no home")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialise")
	assert.Contains(t, err.Error(), "no home")
}

func TestCommands_ServiceNotConfigured(t *testing.T) {
	setupCLITest(t, nil)
	settingsService, catalogFactory = nil, nil

	tests := [][]string{
		{"settings"},
		{"scan", t.TempDir()},
		{"crop", t.TempDir(), "x"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "settings service not configured")
		})
	}
}

func TestCommands_CatalogNotConfigured(t *testing.T) {
	setupCLITest(t, nil)
	catalogFactory = nil

	_, err := execute("scan", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog service not configured")
}
