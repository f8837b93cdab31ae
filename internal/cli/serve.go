package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/artifacts"
	"github.com/matzehuels/cfgview/pkg/observability"
	"github.com/matzehuels/cfgview/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		root      string
		noCache   bool
		withHooks bool
		flags     layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve control-flow-graph layouts over HTTP",
		Long: `Serve control-flow-graph layouts over HTTP.

Routes:
  GET  /healthz
  GET  /cfg/{fileID}              list functions with a stored CFG
  GET  /cfg/{fileID}/{address}    layout of one function (?format=, ?detailed=)
  GET  /disassembly/{fileID}/{addr}
  POST /layout                    layout of a payload in the request body

Artifacts are read from <artifacts>/<fileID>/cfg/<decimal address>.json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("artifacts") {
				c.Config.Server.Artifacts = root
			}
			return c.runServe(cmd.Context(), cmd, &flags, noCache, withHooks)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&root, "artifacts", artifacts.DefaultRoot, "artifact root directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&withHooks, "trace", false, "log pipeline, cache and request events")
	flags.register(cmd)

	return cmd
}

// runServe wires the runner, artifact store and server, and blocks until ctx ends.
func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, flags *layoutFlags, noCache, withHooks bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if withHooks {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
	}

	sc := c.Config.Server
	srv := server.New(runner, artifacts.NewStore(sc.Artifacts), c.Logger, server.Config{
		Addr:            sc.Addr,
		MaxBodyBytes:    sc.MaxBodyBytes,
		ReadTimeout:     sc.ReadTimeout.Duration,
		WriteTimeout:    sc.WriteTimeout.Duration,
		ShutdownTimeout: sc.ShutdownTimeout.Duration,
		Options:         c.options(cmd, flags),
	})

	printInfo("Serving on %s", StyleLink.Render(sc.Addr))
	printKeyValue("artifacts", sc.Artifacts)
	printKeyValue("cache", c.Config.Cache.Backend)
	printNewline()
	return srv.ListenAndServe(ctx)
}
