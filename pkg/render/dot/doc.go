// Package dot renders control-flow layouts with Graphviz.
//
// [FromLayout] produces DOT source for a [layout.Result]: top-to-bottom,
// one rank=same group per layout rank, taken edges green, fall-through
// edges red and loop edges dashed without ranking constraint. [RenderSVG]
// renders that source in-process through [github.com/goccy/go-graphviz].
//
//	src := dot.FromLayout(res, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// [layout.Result]: github.com/matzehuels/cfgview/pkg/layout.Result
package dot
