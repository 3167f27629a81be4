package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backbone/pkg/design"
)

// constraintsCommand creates the constraints command, a debugging aid that
// draws which parts are chained by constraints and which are anchored.
func (c *CLI) constraintsCommand() *cobra.Command {
	var (
		output       string
		designFormat string
		svg          bool
	)

	cmd := &cobra.Command{
		Use:   "constraints [design]",
		Short: "Draw the constraint graph of a design",
		Long: `Draw the constraint graph of a design.

Only parts named by a constraint are drawn. Parts with fixed coordinates are
filled; they anchor constraint propagation. "precedes" edges are solid, other
restrictions dashed and labelled.

Prints Graphviz DOT to stdout, or renders SVG with --svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConstraints(cmd.Context(), args[0], designFormat, output, svg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for DOT, <design>.constraints.svg for SVG)")
	cmd.Flags().StringVar(&designFormat, "design-format", "", "input format: json, yaml, toml (default: from extension)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of printing DOT")

	return cmd
}

func (c *CLI) runConstraints(ctx context.Context, input, designFormat, output string, svg bool) error {
	d, err := c.readDesign(ctx, input, designFormat)
	if err != nil {
		return err
	}
	snap, err := d.Snapshot()
	if err != nil {
		return err
	}
	dot := design.ToDOT(snap)

	if !svg {
		if output == "" || output == "-" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Wrote constraint graph (%d constraints)", len(snap.Constraints()))
		printFile(output)
		return nil
	}

	data, err := design.RenderSVG(ctx, dot)
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".constraints.svg"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Rendered constraint graph (%d constraints)", len(snap.Constraints()))
	printFile(output)
	return nil
}
