package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backbone/pkg/design"
	"github.com/matzehuels/backbone/pkg/errors"
	"github.com/matzehuels/backbone/pkg/pipeline"
)

// layoutFlags holds the layout options settable from the command line.
// Only flags the user actually set override the configuration file.
type layoutFlags struct {
	omitEmptySpace   bool
	forceMinWidth    bool
	scale            float64
	minWidth         float64
	minGap           float64
	maxReorderPasses int
	formats          string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.omitEmptySpace, "omit-empty-space", false, "collapse long empty stretches of the backbone")
	fs.BoolVar(&f.forceMinWidth, "force-min-width", false, "widen every placed range to at least --min-width")
	fs.Float64Var(&f.scale, "scale", 0, "grid units per base pair (default 0.02)")
	fs.Float64Var(&f.minWidth, "min-width", 0, "minimum unit width in grid units (default 2)")
	fs.Float64Var(&f.minGap, "min-gap", 0, "longest empty stretch left alone by --omit-empty-space (default 2)")
	fs.IntVar(&f.maxReorderPasses, "max-reorder-passes", 0, "reordering passes for unplaced constraints (default 10)")
	fs.StringVarP(&f.formats, "format", "f", "", "output formats, comma-separated: json, bson, dot, svg (default json)")
}

// apply overlays the flags the user set on opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("omit-empty-space") {
		opts.OmitEmptySpace = f.omitEmptySpace
	}
	if fs.Changed("force-min-width") {
		opts.ForceMinWidth = f.forceMinWidth
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	if fs.Changed("min-width") {
		opts.MinWidth = f.minWidth
	}
	if fs.Changed("min-gap") {
		opts.MinGap = f.minGap
	}
	if fs.Changed("max-reorder-passes") {
		opts.MaxReorderPasses = f.maxReorderPasses
	}
	if fs.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags        layoutFlags
		output       string
		designFormat string
		noCache      bool
		refresh      bool
		jobs         int
	)

	cmd := &cobra.Command{
		Use:   "layout [design]...",
		Short: "Lay out genetic circuit designs",
		Long: `Lay out one or more genetic circuit designs.

Each design (JSON, YAML or TOML, by extension or --design-format) is placed
on numbered tracks along its sequence. The result is written next to the
input as <design>.layout.json unless -o is given; use -o - for stdout.

Several designs are laid out concurrently (see --jobs). Results are cached
by design content and layout options.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.Options()
			flags.apply(cmd, &opts)
			opts.Refresh = refresh
			if len(args) > 1 && output != "" {
				return errors.New(errors.ErrCodeInvalidInput, "-o cannot be used with several designs")
			}
			return c.runLayout(cmd.Context(), args, opts, layoutRun{
				output:       output,
				designFormat: designFormat,
				noCache:      noCache,
				jobs:         jobs,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <design>.layout.json)")
	cmd.Flags().StringVar(&designFormat, "design-format", "", "input format: json, yaml, toml (default: from extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "designs laid out concurrently")

	return cmd
}

type layoutRun struct {
	output       string
	designFormat string
	noCache      bool
	jobs         int
}

// runLayout loads the designs, lays them out and writes the artifacts.
func (c *CLI) runLayout(ctx context.Context, inputs []string, base pipeline.Options, run layoutRun) error {
	prog := newProgress(c.Logger)
	batch := make([]pipeline.Options, len(inputs))
	for i, input := range inputs {
		d, err := c.readDesign(ctx, input, run.designFormat)
		if err != nil {
			return err
		}
		opts := base
		opts.Design = d
		opts.Logger = c.Logger.With("design", filepath.Base(input))
		batch[i] = opts
	}

	runner, err := c.newRunner(ctx, run.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %d design(s)...", len(inputs)))
	spinner.Start()
	results, err := runner.ExecuteAll(ctx, batch, run.jobs)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	for i, res := range results {
		formats := batch[i].Formats
		if len(formats) == 0 {
			formats = []string{pipeline.FormatJSON}
		}
		if run.output == "-" {
			if len(formats) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format")
			}
			if _, err := os.Stdout.Write(res.Artifacts[formats[0]]); err != nil {
				return err
			}
			continue
		}

		printSuccess("Laid out %s", inputs[i])
		for _, format := range formats {
			path := outputPath(inputs[i], run.output, format, len(formats) > 1)
			if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}
			printFile(path)
		}
		printStats(res.Stats, res.CacheInfo.LayoutHit)
		for _, w := range res.Layout.Warnings {
			printWarning("%s", w)
		}
	}

	if run.output != "-" {
		prog.done(fmt.Sprintf("Laid out %d design(s)", len(inputs)))
		if len(inputs) == 1 {
			printNewline()
			printNextStep("Inspect constraints", appName+" constraints --svg "+inputs[0])
		}
	}
	return nil
}

// readDesign decodes a design file, inferring the format from its
// extension unless one is given.
func (c *CLI) readDesign(ctx context.Context, path, format string) (*design.Design, error) {
	f, err := resolveDesignFormat(path, format)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "design %s", path)
		}
		return nil, err
	}
	defer file.Close()

	d, err := pipeline.LoadDesign(ctx, file, f)
	if err != nil {
		return nil, fmt.Errorf("load design %s: %w", path, err)
	}
	c.Logger.Debug("loaded design", "path", path, "format", f, "children", len(d.Children))
	return d, nil
}

func resolveDesignFormat(path, format string) (design.Format, error) {
	if format != "" {
		return design.ParseFormat(format)
	}
	return design.FormatFromPath(path)
}

// outputPath names the file an artifact is written to. An explicit output
// is used as-is for a single format and as a stem for several.
func outputPath(input, output, format string, multi bool) string {
	suffix := artifactSuffix(format)
	if output != "" {
		if !multi {
			return output
		}
		return strings.TrimSuffix(output, filepath.Ext(output)) + suffix
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func artifactSuffix(format string) string {
	switch format {
	case pipeline.FormatDOT, pipeline.FormatSVG:
		return ".constraints." + format
	}
	return ".layout." + format
}
