package cfg

import (
	"errors"

	"github.com/matzehuels/cfgview/pkg/flow"
)

// DefaultMaxInstructions is the number of instructions a node keeps for
// display. The remainder is counted in [Node.Hidden].
const DefaultMaxInstructions = 24

// Node is a deduplicated basic block ready for layout.
type Node struct {
	ID           Address       `json:"id"`
	Label        string        `json:"label"`
	Preview      string        `json:"preview"`
	Size         int           `json:"size,omitempty"`
	Instructions []Instruction `json:"instructions"`
	Hidden       int           `json:"hidden,omitempty"`
}

// Edge is a control-flow edge between two nodes.
type Edge struct {
	Source Address
	Target Address
	Kind   flow.EdgeKind
}

// ID returns the edge identity "source->target:kind".
func (e Edge) ID() string {
	return string(e.Source) + "->" + string(e.Target) + ":" + e.Kind.String()
}

// Graph is the control-flow graph of one function.
type Graph struct {
	Nodes []Node
	Edges []Edge
	// Dropped counts edges whose target is not a node of the graph.
	Dropped int

	flow  *flow.Graph
	index map[Address]int
}

// Flow returns the underlying graph structure. It must not be modified.
func (g *Graph) Flow() *flow.Graph { return g.flow }

// Node returns the node with the given address.
func (g *Graph) Node(id Address) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Entry returns the address of the first block, which the backend lists as
// the function entry. It is empty for an empty graph.
func (g *Graph) Entry() Address {
	if len(g.Nodes) == 0 {
		return ""
	}
	return g.Nodes[0].ID
}

type buildOptions struct {
	maxInstructions int
}

// BuildOption configures [Build].
type BuildOption func(*buildOptions)

// WithMaxInstructions caps the instructions kept per node. n <= 0 keeps all.
func WithMaxInstructions(n int) BuildOption {
	return func(o *buildOptions) { o.maxInstructions = n }
}

// Build turns normalized blocks into a graph.
//
// Nodes are created in first-seen order; a block whose address was already
// seen does not create a node but its edges still apply. Each block
// contributes a taken edge and a fallthrough edge when present, and both
// may point at the same target. Edges to addresses that are not nodes are
// dropped and counted in [Graph.Dropped]. Self edges are kept.
func Build(blocks []BasicBlock, opts ...BuildOption) *Graph {
	o := buildOptions{maxInstructions: DefaultMaxInstructions}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Graph{
		Nodes: []Node{},
		Edges: []Edge{},
		flow:  flow.New(),
		index: make(map[Address]int),
	}

	for _, b := range blocks {
		if err := g.flow.AddNode(flow.Node{ID: string(b.Address)}); err != nil {
			continue
		}
		g.index[b.Address] = len(g.Nodes)
		g.Nodes = append(g.Nodes, newNode(b, o.maxInstructions))
	}

	for _, b := range blocks {
		if b.Address == "" {
			continue
		}
		g.addEdge(b.Address, b.Taken, flow.Taken)
		g.addEdge(b.Address, b.Fallthrough, flow.Fallthrough)
	}
	return g
}

func (g *Graph) addEdge(src, dst Address, kind flow.EdgeKind) {
	if dst == "" {
		return
	}
	err := g.flow.AddEdge(flow.Edge{From: string(src), To: string(dst), Kind: kind})
	switch {
	case err == nil:
		g.Edges = append(g.Edges, Edge{Source: src, Target: dst, Kind: kind})
	case errors.Is(err, flow.ErrUnknownTargetNode):
		g.Dropped++
	}
}

func newNode(b BasicBlock, limit int) Node {
	n := Node{
		ID:      b.Address,
		Label:   string(b.Address),
		Preview: b.Preview(),
		Size:    b.Size,
	}
	if n.Preview != "" {
		n.Label += "\n" + n.Preview
	}
	insts := b.Instructions
	if limit > 0 && len(insts) > limit {
		n.Hidden = len(insts) - limit
		insts = insts[:limit]
	}
	n.Instructions = append([]Instruction{}, insts...)
	return n
}
