package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/ports/driving"
)

var (
	cropResolution string
	cropCenter     string
	cropScale      float64
)

var cropCmd = &cobra.Command{
	Use:   "crop FOLDER NAME",
	Short: "Show the crop window of a background",
	Long: `Computes the crop window of the background NAME in FOLDER for a screen
of the configured resolution. The window keeps the screen's aspect and is
clamped so it never leaves the image.

NAME is either the background name or the file name of its original.`,
	Args: cobra.ExactArgs(2),
	RunE: runCrop,
}

func init() {
	cropCmd.Flags().StringVarP(&cropResolution, "resolution", "r", "", "screen resolution WxH (default from settings)")
	cropCmd.Flags().StringVarP(&cropCenter, "center", "c", "", "window center X,Y in image pixels")
	cropCmd.Flags().Float64VarP(&cropScale, "scale", "s", 1, "window scale relative to the screen")
	rootCmd.AddCommand(cropCmd)
}

func runCrop(cmd *cobra.Command, args []string) error {
	folder, name := args[0], args[1]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	resolution := settings.Crop.Resolution
	if cmd.Flags().Changed("resolution") {
		resolution, err = domain.ParseSize(cropResolution)
		if err != nil {
			return err
		}
	}

	var center *domain.Vec2
	if cmd.Flags().Changed("center") {
		c, err := parseVec2(cropCenter)
		if err != nil {
			return err
		}
		center = &c
	}

	catalog, err := openCatalog(settings, []string{folder})
	if err != nil {
		return err
	}
	defer closeCatalog(cmd, catalog)

	if _, err := catalog.Reload(); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	index, err := findByName(catalog, name)
	if err != nil {
		return err
	}

	region, err := catalog.EditCropRegion(index, resolution.Vec2())
	if err != nil {
		return fmt.Errorf("failed to edit %s: %w", name, err)
	}
	if center != nil {
		region.SetCenter(*center)
	}
	if cmd.Flags().Changed("scale") {
		region.SetScale(cropScale)
	}

	b, err := catalog.Background(index)
	if err != nil {
		return err
	}

	styles := DefaultStyles()
	cmd.Println(styles.Title.Render(b.Name))
	cmd.Printf("  Image:        %s\n", b.Meta)
	cmd.Printf("  Screen:       %s\n", resolution)
	cmd.Printf("  Center:       %s\n", formatVec2(region.Center()))
	cmd.Printf("  Scale:        %.4g\n", region.Scale())
	cmd.Printf("  Top-left:     %s\n", formatVec2(region.TopLeft()))
	cmd.Printf("  Bottom-right: %s\n", formatVec2(region.BottomRight()))
	return nil
}

// findByName returns the visible background called name, matching either
// its display name or the file name of its original.
func findByName(catalog driving.Catalog, name string) (int, error) {
	var matches []int
	for _, i := range catalog.Visible(true) {
		b, err := catalog.Background(i)
		if err != nil {
			return 0, err
		}
		if b.Name == name || filepath.Base(b.Location) == name {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return 0, fmt.Errorf("%w: no background named %q", domain.ErrBackgroundNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return 0, fmt.Errorf("%w: %q matches %d backgrounds", domain.ErrInvalidInput, name, len(matches))
	}
}

func parseVec2(s string) (domain.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Vec2{}, fmt.Errorf("%w: point %q is not X,Y", domain.ErrInvalidInput, s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return domain.Vec2{}, fmt.Errorf("%w: point %q is not X,Y", domain.ErrInvalidInput, s)
	}
	return domain.Vec2{X: x, Y: y}, nil
}

func formatVec2(v domain.Vec2) string {
	return fmt.Sprintf("(%.1f, %.1f)", v.X, v.Y)
}
