package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/canvas-go/internal/render"
)

var (
	renderFormat string
	renderScale  float64
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render a canvas to PNG, WebP or PDF",
	Long: `Render a canvas document. The format defaults to the output file's
extension, then to png. Scale multiplies the raster size and is ignored
for PDF.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := renderFormat
		if name == "" && renderOutput != "" {
			name = strings.TrimPrefix(filepath.Ext(renderOutput), ".")
		}
		if name == "" {
			name = string(render.FormatPNG)
		}
		format, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		if renderScale <= 0 || renderScale > 8 {
			return fmt.Errorf("scale %g out of range (0,8]", renderScale)
		}

		c, err := loadCanvas(args[0])
		if err != nil {
			return err
		}
		hydrate(cmd.Context(), c)

		if renderOutput == "" || renderOutput == "-" {
			return render.Export(cmd.OutOrStdout(), c, format, renderScale)
		}
		f, err := os.Create(renderOutput)
		if err != nil {
			return err
		}
		if err := render.Export(f, c, format, renderScale); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "output format: png, webp or pdf")
	renderCmd.Flags().Float64VarP(&renderScale, "scale", "s", 1, "raster scale factor")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (stdout when empty or -)")
}
