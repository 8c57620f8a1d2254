package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/canvas-go/internal/asset"
	"github.com/inamate/inamate/canvas-go/internal/canvas"
)

var (
	// Global flags
	verbose    bool
	assetDir   string
	allowHosts []string
)

var rootCmd = &cobra.Command{
	Use:   "scenectl",
	Short: "Inspect and render canvas documents",
	Long: `scenectl works on canvas documents saved as JSON, the same format the
server stores for boards and the export endpoint accepts.

Examples:
  scenectl info board.json                       # Canvas size and object list
  scenectl hit board.json 120 80                 # Topmost object under a point
  scenectl render board.json -f png -s 2 -o out.png
  scenectl reorder board.json rect_1 front -w    # Reorder and write back`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&assetDir, "assets", "./assets", "directory for /assets/ and relative image sources")
	rootCmd.PersistentFlags().StringSliceVar(&allowHosts, "allow-host", nil, "host allowed for http(s) image sources (repeatable)")
}

// loadCanvas reads a document file into a canvas.
func loadCanvas(path string) (*canvas.Canvas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := canvas.New(0, 0)
	if err := c.LoadFromJSON(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("loaded canvas", "path", path, "objects", c.Size(), "width", c.Width(), "height", c.Height())
	return c, nil
}

// hydrate loads image elements so renders include them. Missing images
// are logged and left blank.
func hydrate(ctx context.Context, c *canvas.Canvas) {
	loader := asset.NewLoader(assetDir, 0, asset.WithLocalFiles(), asset.WithRemoteHosts(allowHosts...))
	if err := loader.Hydrate(ctx, c.Objects()); err != nil {
		slog.Warn("some images failed to load", "error", err)
	}
}

// saveCanvas writes the canvas back to path.
func saveCanvas(path string, c *canvas.Canvas) error {
	data, err := c.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
