package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbgm/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change folder scanning, crop and cache settings.

Use "dbgm settings set KEY VALUE" to change a single setting.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long: `Change a single setting and save it to the config file.

Keys:
  catalog.name               display name of the background set
  catalog.image_folder       folder backing the set
  folder.patterns            comma-separated globs selecting images
  folder.include_hidden      true to scan dot-files and dot-directories
  folder.min_scan_interval   minimum time between scans, e.g. 1s
  folder.watch               true to rescan only after filesystem changes
  crop.resolution            screen resolution WxH, e.g. 1920x1080
  cache.path                 directory of the dimension cache (empty keeps it in memory)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	values := settingValues(settings)
	rows := make([][]string, 0, len(values))
	for _, key := range settingsService.Keys() {
		rows = append(rows, []string{key, values[key]})
	}

	styles := DefaultStyles()
	cmd.Println(styles.Title.Render("Current Settings"))
	cmd.Println(styles.Table([]string{"Key", "Value"}, rows, 0))

	if err := settingsService.Validate(); err != nil {
		cmd.Println(styles.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'dbgm settings set KEY VALUE' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

// settingValues renders settings in the textual form "settings set" accepts.
func settingValues(s *domain.Settings) map[string]string {
	return map[string]string{
		"catalog.name":             s.Catalog.Name,
		"catalog.image_folder":     s.Catalog.ImageFolder,
		"folder.patterns":          strings.Join(s.Folder.Patterns, ","),
		"folder.include_hidden":    strconv.FormatBool(s.Folder.IncludeHidden),
		"folder.min_scan_interval": s.Folder.MinScanInterval.String(),
		"folder.watch":             strconv.FormatBool(s.Folder.Watch),
		"crop.resolution":          s.Crop.Resolution.String(),
		"cache.path":               s.Cache.Path,
	}
}
