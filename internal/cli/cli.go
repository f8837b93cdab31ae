package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/buildinfo"
	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/config"
	"github.com/matzehuels/cfgview/pkg/httputil"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cfgview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cfgview lays out control-flow graphs of disassembled functions",
		Long: `cfgview turns control-flow-graph payloads from disassembly backends into
ranked, ordered and positioned layouts, and renders them as JSON, DOT, SVG,
PNG or PDF. It also serves the same pipeline over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cfgview/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache || c.Config.Cache.Backend == cache.BackendNone {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}

	opts, err := c.Config.Cache.Options()
	if err != nil {
		// No usable home directory: run uncached rather than fail.
		c.Logger.Warn("cache disabled", "error", err)
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(store, opts.Keyer(), c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

// cacheDir returns the file cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags holds layout overrides given on the command line.
// Only flags the user set replace configuration values.
type layoutFlags struct {
	rankSep, nodeSep      float64
	nodeWidth, nodeHeight float64
	sweeps                int
	maxInstructions       int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.rankSep, "rank-sep", layout.DefaultRankSep, "vertical gap between ranks")
	fs.Float64Var(&f.nodeSep, "node-sep", layout.DefaultNodeSep, "horizontal gap between blocks")
	fs.Float64Var(&f.nodeWidth, "node-width", layout.DefaultNodeWidth, "block width")
	fs.Float64Var(&f.nodeHeight, "node-height", layout.DefaultNodeHeight, "block height")
	fs.IntVar(&f.sweeps, "sweeps", layout.DefaultSweeps, "ordering refinement sweeps")
	fs.IntVar(&f.maxInstructions, "max-instructions", cfg.DefaultMaxInstructions, "instructions kept per block (0 uses the default)")
}

// options builds pipeline options from the configuration and the flags
// set on cmd.
func (c *CLI) options(cmd *cobra.Command, f *layoutFlags) pipeline.Options {
	l := c.Config.Layout
	opts := pipeline.Options{
		Spacing:         l.Spacing(),
		MaxInstructions: l.MaxInstructions,
		Logger:          c.Logger,
	}

	fs := cmd.Flags()
	if fs.Changed("rank-sep") {
		opts.Spacing.RankSep = f.rankSep
	}
	if fs.Changed("node-sep") {
		opts.Spacing.NodeSep = f.nodeSep
	}
	if fs.Changed("node-width") {
		opts.Spacing.NodeWidth = f.nodeWidth
	}
	if fs.Changed("node-height") {
		opts.Spacing.NodeHeight = f.nodeHeight
	}
	if fs.Changed("sweeps") {
		opts.Spacing.Sweeps = f.sweeps
	}
	if fs.Changed("max-instructions") {
		opts.MaxInstructions = f.maxInstructions
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{pipeline.FormatJSON}
	}
	return formats
}

// readPayload reads a payload from a file, an http(s) URL, or stdin when
// path is "-".
func readPayload(ctx context.Context, path string) ([]byte, error) {
	switch {
	case path == "-":
		return io.ReadAll(os.Stdin)
	case httputil.IsURL(path):
		return httputil.NewClient().Get(ctx, path)
	default:
		return os.ReadFile(path)
	}
}
