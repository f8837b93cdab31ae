// Package flow provides the directed multigraph that backs control-flow
// graphs and their layouts.
//
// # Overview
//
// A control-flow graph is not a DAG: loops produce back edges and a block
// may jump to itself. [Graph] therefore accepts cycles and self edges, and
// distinguishes edges by [EdgeKind] so that a conditional branch whose taken
// and fallthrough targets coincide keeps both edges.
//
// Nodes are stored in first-seen order. Every accessor that returns more
// than one item returns it in insertion order, which keeps layouts
// deterministic for identical input.
//
// # Basic Usage
//
//	g := flow.New()
//	g.AddNode(flow.Node{ID: "0x1000"})
//	g.AddNode(flow.Node{ID: "0x1010"})
//	g.AddEdge(flow.Edge{From: "0x1000", To: "0x1010", Kind: flow.Taken})
//
// # Errors
//
// [Graph.AddNode] and [Graph.AddEdge] report rejected input through sentinel
// errors ([ErrDuplicateNodeID], [ErrUnknownTargetNode], ...). Callers decide
// whether a rejection is fatal; the CFG builder treats all of them as drops.
//
// # Crossings
//
// [CountCrossings] and [CountLayerCrossings] measure the number of edge
// crossings between adjacent ranks for a candidate ordering. The layout
// engine uses them to decide whether an extra ordering sweep improved the
// drawing.
package flow
