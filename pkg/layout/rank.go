package layout

import "github.com/matzehuels/cfgview/pkg/flow"

// Ranks maps node IDs to their layer index. Rank 0 is the top.
type Ranks map[string]int

// BackEdges returns the indices (into g.Edges()) of the edges that close a
// cycle, found by a depth-first walk from the sources in first-seen order
// and then from any node still unvisited. Self edges are always back edges.
// The graph is not modified.
func BackEdges(g *flow.Graph) map[int]bool {
	const (
		white = iota
		gray
		black
	)

	edges := g.Edges()
	out := make(map[string][]int, g.NodeCount())
	for i, e := range edges {
		out[e.From] = append(out[e.From], i)
	}

	color := make(map[string]int, g.NodeCount())
	back := make(map[int]bool)

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, i := range out[node] {
			child := edges[i].To
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back[i] = true
			}
		}
		color[node] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return back
}

// AssignRanks places every node on the layer given by the longest path from
// a root reaching it.
//
// Back edges (see [BackEdges]) and self edges are ignored for ranking. The
// remaining edges are relaxed with rank(to) = max(rank(to), rank(from)+1),
// repeating until nothing changes or one pass per node has run. A
// relaxation that would exceed NodeCount-1 is treated as satisfied, so
// ranking always terminates with finite ranks. Nodes reached by no ranked
// edge, including isolated nodes, stay at rank 0.
func AssignRanks(g *flow.Graph) Ranks {
	nodes := g.Nodes()
	ranks := make(Ranks, len(nodes))
	for _, n := range nodes {
		ranks[n.ID] = 0
	}
	if len(nodes) == 0 {
		return ranks
	}

	back := BackEdges(g)
	edges := g.Edges()
	ceiling := len(nodes) - 1

	for pass := 0; pass < len(nodes); pass++ {
		changed := false
		for i, e := range edges {
			if back[i] || e.From == e.To {
				continue
			}
			r := ranks[e.From] + 1
			if r > ceiling {
				continue
			}
			if r > ranks[e.To] {
				ranks[e.To] = r
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return ranks
}

// MaxRank returns the largest rank, or -1 when ranks is empty.
func (r Ranks) MaxRank() int {
	maxRank := -1
	for _, v := range r {
		maxRank = max(maxRank, v)
	}
	return maxRank
}
