// Package pkg provides the core libraries for cfgview control-flow-graph
// visualization.
//
// # Overview
//
// cfgview turns the control-flow graph of one disassembled function, as
// emitted by a disassembly backend, into a ranked, ordered and positioned
// layout. The pkg directory is organized into three main areas:
//
//  1. Domain logic ([cfg], [cfg/normalize], [flow], [layout])
//  2. Output ([render], [render/dot])
//  3. Infrastructure ([pipeline], [cache], [config], [server], [artifacts])
//
// # Architecture
//
// The typical data flow:
//
//	Backend payload (radare2 agfj, wrapped list, block map, raw list)
//	         ↓
//	    [cfg/normalize] (detect shape, canonicalize addresses)
//	         ↓
//	    [cfg] (deduplicate blocks, build edges, classify instructions)
//	         ↓
//	    [layout] (rank, order, position)
//	         ↓
//	    JSON / DOT / SVG / PNG / PDF
//
// # Quick Start
//
//	blocks, err := normalize.Decode(payload)
//	if err != nil {
//	    return err
//	}
//	g := cfg.Build(blocks)
//	res := layout.Compute(g, layout.DefaultSpacing())
//	svg, err := dot.RenderSVG(ctx, dot.FromLayout(res, dot.Options{}))
//
// Or let [pipeline.Runner] do all of it with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, payload, pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// [cfg] - Address canonicalization, instruction classes, and the graph
// builder that turns normalized blocks into nodes and taken/fallthrough
// edges.
//
// [cfg/normalize] - Shape detection for backend payloads and field aliasing
// for blocks and instructions.
//
// [flow] - Directed multigraph with edge kinds, plus crossing counts
// between adjacent ranks.
//
// [layout] - Longest-path ranking over the graph with back edges removed,
// barycentric crossing reduction, and centred coordinates.
//
// [render/dot] - Graphviz DOT generation and SVG rendering.
//
// [render] - SVG to PDF and PNG conversion via rsvg-convert.
//
// [pipeline] - Normalize, layout and render with layout and artifact
// caching. Used by the CLI and the HTTP server.
//
// [cache] - File, Redis and MongoDB cache backends with content-hash keys.
//
// [server] - HTTP API over stored backend artifacts.
//
// [errors] - Coded errors that map to HTTP status codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//	go test -run Example       # Examples only
//
// [cfg]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/cfg
// [cfg/normalize]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/cfg/normalize
// [flow]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/flow
// [layout]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/render
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/server
// [artifacts]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/artifacts
// [errors]: https://pkg.go.dev/github.com/matzehuels/cfgview/pkg/errors
package pkg
