package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

var hitAll bool

var boundsCmd = &cobra.Command{
	Use:   "bounds <file> [id...]",
	Short: "Print the bounding box of objects (all when no id is given)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCanvas(args[0])
		if err != nil {
			return err
		}
		ids := args[1:]
		if len(ids) == 0 {
			for _, s := range c.Objects() {
				ids = append(ids, s.Base().ID())
			}
		}
		r, ok := c.SelectionBounds(ids...)
		if !ok {
			return fmt.Errorf("no objects match %v: %w", ids, object.ErrNotFound)
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(r)
	},
}

var hitCmd = &cobra.Command{
	Use:   "hit <file> <x> <y>",
	Short: "Print the object under a point",
	Long: `Print the id of the topmost object containing the point. With --all,
every object under the point is printed from top to bottom.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePoint(args[1], args[2])
		if err != nil {
			return err
		}
		c, err := loadCanvas(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if hitAll {
			for _, s := range c.TargetsAt(p) {
				fmt.Fprintln(out, s.Base().ID())
			}
			return nil
		}
		s, ok := c.FindTarget(p)
		if !ok {
			return fmt.Errorf("nothing at %g,%g", p.X, p.Y)
		}
		fmt.Fprintln(out, s.Base().ID())
		return nil
	},
}

var intersectCmd = &cobra.Command{
	Use:   "intersect <file> <id> <other>",
	Short: "Report how two objects relate",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCanvas(args[0])
		if err != nil {
			return err
		}
		a, ok := c.Find(args[1])
		if !ok {
			return fmt.Errorf("object %s: %w", args[1], object.ErrNotFound)
		}
		b, ok := c.Find(args[2])
		if !ok {
			return fmt.Errorf("object %s: %w", args[2], object.ErrNotFound)
		}

		relation := "disjoint"
		switch {
		case a.Base().IntersectsWithObject(b):
			relation = "intersecting"
		case a.Base().IsContainedWithinObject(b):
			relation = "inside"
		case b.Base().IsContainedWithinObject(a):
			relation = "contains"
		}
		fmt.Fprintln(cmd.OutOrStdout(), relation)
		return nil
	},
}

func parsePoint(xs, ys string) (geom.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("y: %w", err)
	}
	return geom.Pt(x, y), nil
}

func init() {
	rootCmd.AddCommand(boundsCmd)
	rootCmd.AddCommand(hitCmd)
	rootCmd.AddCommand(intersectCmd)

	hitCmd.Flags().BoolVar(&hitAll, "all", false, "print every object under the point")
}
