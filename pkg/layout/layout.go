package layout

import (
	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/flow"
)

// Edge style hints. A rendering surface maps them to colours.
const (
	StyleTrueBranch  = "true-branch"
	StyleFalseBranch = "false-branch"
)

// Node is a positioned block.
type Node struct {
	ID           string            `json:"id"`
	X            float64           `json:"x"`
	Y            float64           `json:"y"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	Rank         int               `json:"rank"`
	Order        int               `json:"order"`
	Label        string            `json:"label"`
	Preview      string            `json:"preview"`
	Size         int               `json:"size,omitempty"`
	Instructions []cfg.Instruction `json:"instructions"`
	Hidden       int               `json:"hidden,omitempty"`
}

// Edge is a styled control-flow edge. Loop is set for edges that close a
// cycle, which are drawn but do not take part in ranking.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
	Style  string `json:"style"`
	Loop   bool   `json:"loop,omitempty"`
}

// Result is a computed layout.
type Result struct {
	Entry   string           `json:"entry,omitempty"`
	Width   float64          `json:"width"`
	Height  float64          `json:"height"`
	Spacing Spacing          `json:"spacing"`
	Nodes   []Node           `json:"nodes"`
	Edges   []Edge           `json:"edges"`
	Ranks   map[int][]string `json:"ranks"`
}

// Compute lays out a control-flow graph: [AssignRanks], [OrderRanks] and
// [AssignCoordinates] followed by edge styling. Nodes and edges keep the
// graph's order. The graph is not modified and equal input yields equal
// output.
func Compute(g *cfg.Graph, sp Spacing) Result {
	sp = sp.WithDefaults()
	res := Result{
		Spacing: sp,
		Nodes:   []Node{},
		Edges:   []Edge{},
		Ranks:   map[int][]string{},
	}
	if g == nil || len(g.Nodes) == 0 {
		return res
	}

	fg := g.Flow()
	ranks := AssignRanks(fg)
	orders := OrderRanks(fg, ranks, sp.Sweeps)
	points := AssignCoordinates(orders, sp)
	back := BackEdges(fg)

	order := make(map[string]int, len(g.Nodes))
	for r, ids := range orders {
		res.Ranks[r] = ids
		for i, id := range ids {
			order[id] = i
			res.Width = max(res.Width, rowWidth(len(ids), sp))
		}
	}
	levels := ranks.MaxRank() + 1
	res.Height = float64(levels)*sp.NodeHeight + float64(levels-1)*sp.RankSep
	res.Entry = string(g.Entry())

	for _, n := range g.Nodes {
		id := string(n.ID)
		p := points[id]
		res.Nodes = append(res.Nodes, Node{
			ID:           id,
			X:            p.X,
			Y:            p.Y,
			Width:        sp.NodeWidth,
			Height:       sp.NodeHeight,
			Rank:         ranks[id],
			Order:        order[id],
			Label:        n.Label,
			Preview:      n.Preview,
			Size:         n.Size,
			Instructions: n.Instructions,
			Hidden:       n.Hidden,
		})
	}

	for i, e := range g.Edges {
		style := StyleTrueBranch
		if e.Kind == flow.Fallthrough {
			style = StyleFalseBranch
		}
		res.Edges = append(res.Edges, Edge{
			ID:     e.ID(),
			Source: string(e.Source),
			Target: string(e.Target),
			Kind:   e.Kind.String(),
			Style:  style,
			Loop:   back[i] || e.Source == e.Target,
		})
	}
	return res
}

// Node returns the positioned node with the given ID.
func (r *Result) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Successors returns the edges leaving the node, in edge order.
func (r *Result) Successors(id string) []Edge {
	var out []Edge
	for _, e := range r.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}
