package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/httputil"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

// layoutCommand creates the layout command for computing and rendering layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		formats  string
		noCache  bool
		detailed bool
		refresh  bool
		flags    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [payload.json]",
		Short: "Compute a control-flow-graph layout from a backend payload",
		Long: `Compute a control-flow-graph layout from a backend payload.

The layout command reads a CFG payload in any supported backend shape
(radare2 agfj output, wrapped block lists, block maps or raw lists), ranks,
orders and positions its basic blocks, and writes the result. The payload
may be a file, an http(s) URL served by the backend, or "-" for stdin.

Formats: json (default), dot, svg, png, pdf. PNG and PDF need rsvg-convert.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flags)
			opts.Formats = parseFormats(formats)
			opts.Detailed = detailed
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or base name (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatJSON, "output formats, comma-separated: json, dot, svg, png, pdf")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list instructions inside rendered blocks")
	flags.register(cmd)

	return cmd
}

// runLayout reads the payload, runs the pipeline, and writes one file per format.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	payload, err := readPayload(ctx, input)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, payload, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	if ctx.Err() != nil {
		spinner.Stop()
		return ctx.Err()
	}

	spinner.SetMessage("Writing output...")
	paths := outputPaths(input, output, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			spinner.StopWithError("Write failed")
			return fmt.Errorf("write output %s: %w", paths[format], err)
		}
	}

	spinner.StopWithSuccess("Layout complete %s", StyleDim.Render("("+result.Strategy+")"))
	prog.done("laid out payload", "blocks", result.Stats.NodeCount, "strategy", result.Strategy)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Explore", appName+" browse "+input)

	return nil
}

// outputPaths maps each format to its output file. An explicit output is
// used verbatim for a single format and as the base name for several.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = input
		if base == "-" || httputil.IsURL(base) {
			base = "cfg"
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, format := range formats {
		if format == pipeline.FormatJSON {
			paths[format] = base + ".layout.json"
		} else {
			paths[format] = base + "." + format
		}
	}
	return paths
}
