package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
)

var scanAll bool

var scanCmd = &cobra.Command{
	Use:   "scan FOLDER...",
	Short: "Scan folders and list their backgrounds",
	Long: `Builds a catalog from the given image folders, reconciles it once and
lists every background found. Excluded backgrounds are hidden unless --all
is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanAll, "all", "a", false, "include excluded backgrounds")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	catalog, err := openCatalog(settings, args)
	if err != nil {
		return err
	}
	defer closeCatalog(cmd, catalog)

	report, err := catalog.Reload()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	styles := DefaultStyles()
	title := "Backgrounds"
	if name, ok := catalog.Name(); ok {
		title = name
	}
	cmd.Println(styles.Title.Render(title))
	cmd.Println(formatReport(report))
	cmd.Println()

	return printBackgrounds(cmd, styles, catalog, scanAll)
}

// formatReport summarises a reconciliation pass on one line.
func formatReport(r *driving.ReloadReport) string {
	return fmt.Sprintf("%d new, %d updated, %d missing, %d unavailable, %d unmatched (%d sources)",
		r.Created, r.Updated, r.Missing, r.Unavailable, r.Unmatched, r.Sources)
}

func printBackgrounds(cmd *cobra.Command, styles *Styles, catalog driving.Catalog, all bool) error {
	indices := catalog.Visible(all)
	if len(indices) == 0 {
		cmd.Println("No backgrounds found.")
		return nil
	}

	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		b, err := catalog.Background(i)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			b.Name,
			styles.Meta(b.Meta),
			styles.Flags(b.Flags),
			b.Location,
		})
	}

	headers := []string{"#", "Name", "Size", "Flags", "Location"}
	cmd.Println(styles.Table(headers, rows, terminalWidth(cmd.OutOrStdout())))
	return nil
}
