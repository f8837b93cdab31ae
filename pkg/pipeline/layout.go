package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/observability"
)

// GenerateLayout builds the control-flow graph of blocks and lays it out.
// Layout never fails; ctx only carries hook context.
func GenerateLayout(ctx context.Context, blocks []cfg.BasicBlock, opts Options) (*cfg.Graph, layout.Result) {
	opts.SetLayoutDefaults()

	g := cfg.Build(blocks, cfg.WithMaxInstructions(opts.MaxInstructions))
	if g.Dropped > 0 {
		opts.Logger.Debug("dropped dangling edges", "count", g.Dropped)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(g.Edges))
	start := time.Now()

	res := layout.Compute(g, opts.Spacing)
	hooks.OnLayoutComplete(ctx, len(res.Ranks), time.Since(start), nil)
	return g, res
}
