package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. The first node added under an ID wins.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge with the
	// same (From, To, Kind) triple already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")
)

// EdgeKind tells which branch outcome an edge represents.
type EdgeKind int

const (
	// Taken is followed when a conditional branch holds, or for an
	// unconditional jump.
	Taken EdgeKind = iota
	// Fallthrough is sequential continuation when a branch is not taken.
	Fallthrough
)

// String returns "taken" or "fallthrough".
func (k EdgeKind) String() string {
	if k == Fallthrough {
		return "fallthrough"
	}
	return "taken"
}

// Node is a vertex of the graph. Its position in [Graph.Nodes] is its
// first-seen index.
type Node struct {
	ID string
}

// Edge is a directed, typed connection between two nodes. Self edges are
// allowed, and the same pair of nodes may be connected once per kind.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
}

type edgeKey struct {
	from, to string
	kind     EdgeKind
}

// Graph is an append-only directed multigraph keyed by string IDs.
//
// Nodes live in an arena slice in insertion order with an ID->index map for
// constant-time lookup, so every iteration over the graph is deterministic.
// Cycles are allowed: control-flow graphs have loops.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    []Node
	index    map[string]int
	edges    []Edge
	edgeSet  map[edgeKey]struct{}
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]int),
		edgeSet:  make(map[edgeKey]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID if the ID is already present; in both cases the graph
// is unchanged.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// AddEdge appends a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint is
// missing, and ErrDuplicateEdge when the (From, To, Kind) triple was already
// added. Edges are kept in insertion order.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.index[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	key := edgeKey{e.From, e.To, e.Kind}
	if _, ok := g.edgeSet[key]; ok {
		return ErrDuplicateEdge
	}
	g.edgeSet[key] = struct{}{}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID and true, or a zero Node and false.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Index returns the first-seen position of the node, or -1 if absent.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// Nodes returns a copy of all nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the targets of the node's outgoing edges in insertion
// order. A target appears twice when both a taken and a fallthrough edge
// lead to it. The returned slice must not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of the node's incoming edges in insertion
// order. The returned slice must not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Sources returns the nodes with no incoming edge other than self edges,
// in insertion order.
func (g *Graph) Sources() []Node {
	var sources []Node
	for _, n := range g.nodes {
		root := true
		for _, p := range g.incoming[n.ID] {
			if p != n.ID {
				root = false
				break
			}
		}
		if root {
			sources = append(sources, n)
		}
	}
	return sources
}

// PosMap maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// NodeIDs extracts the ID from each node, preserving order.
func NodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
