package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	watchInterval time.Duration
	watchCycles   int
)

var watchCmd = &cobra.Command{
	Use:   "watch FOLDER...",
	Short: "Keep folders reconciled",
	Long: `Reconciles the catalog built from the given folders every interval and
prints a line for each pass that changed something. Runs until interrupted,
or for --cycles passes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 2*time.Second, "time between passes")
	watchCmd.Flags().IntVarP(&watchCycles, "cycles", "n", 0, "stop after this many passes (0 runs until interrupted)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return errors.New("interval must be positive")
	}
	if watchCycles < 0 {
		return errors.New("cycles must not be negative")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	catalog, err := openCatalog(settings, args)
	if err != nil {
		return err
	}
	defer closeCatalog(cmd, catalog)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	styles := DefaultStyles()
loop:
	for pass := 1; ; pass++ {
		report, err := catalog.Reload()
		if err != nil {
			return fmt.Errorf("pass %d failed: %w", pass, err)
		}
		if pass == 1 || report.Events() > 0 {
			stamp := styles.Muted.Render(time.Now().Format(time.TimeOnly))
			cmd.Printf("%s pass %d: %s\n", stamp, pass, formatReport(report))
		}

		if watchCycles > 0 && pass >= watchCycles {
			break
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	cmd.Println()
	return printBackgrounds(cmd, styles, catalog, false)
}
