package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inamate/inamate/canvas-go/internal/engine"
)

var (
	reorderIndex        int
	reorderIntersecting bool
	writeBack           bool
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <file> <id> <forward|backward|front|back|moveTo>",
	Short: "Change an object's stacking order",
	Long: `Change the z-order of a top-level object. moveTo takes --index.
The updated document is printed, or written back to the file with -w.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCanvas(args[0])
		if err != nil {
			return err
		}
		eng := engine.NewEngineFor(c)
		if err := eng.Reorder(args[1], args[2], reorderIndex, reorderIntersecting); err != nil {
			return err
		}
		if writeBack {
			return saveCanvas(args[0], c)
		}
		data, err := c.ToJSON()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <file> <id>...",
	Short: "Remove objects from a canvas",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCanvas(args[0])
		if err != nil {
			return err
		}
		n := engine.NewEngineFor(c).Remove(args[1:]...)
		cmd.PrintErrf("removed %d object(s)\n", n)
		if writeBack {
			return saveCanvas(args[0], c)
		}
		data, err := c.ToJSON()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	},
}

func init() {
	rootCmd.AddCommand(reorderCmd)
	rootCmd.AddCommand(removeCmd)

	reorderCmd.Flags().IntVar(&reorderIndex, "index", 0, "target index for moveTo")
	reorderCmd.Flags().BoolVar(&reorderIntersecting, "intersecting", false, "forward/backward jump past the nearest overlapping object")
	for _, c := range []*cobra.Command{reorderCmd, removeCmd} {
		c.Flags().BoolVarP(&writeBack, "write", "w", false, "write the result back to the file")
	}
}
