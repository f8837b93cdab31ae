// Package render turns computed control-flow layouts into viewable
// artifacts.
//
// # Overview
//
// The [dot] subpackage converts a [layout.Result] to Graphviz DOT and
// renders it to SVG in-process. This package holds the generic format
// conversion shared by every renderer:
//
//	svg, err := dot.RenderSVG(ctx, dot.FromLayout(res, dot.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg.
//
// [dot]: github.com/matzehuels/cfgview/pkg/render/dot
// [layout.Result]: github.com/matzehuels/cfgview/pkg/layout.Result
package render
