package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/cfgview/pkg/flow"
)

// Orders maps each rank to its node IDs from left to right.
type Orders map[int][]string

// Clone returns a deep copy.
func (o Orders) Clone() Orders {
	c := make(Orders, len(o))
	for r, ids := range o {
		c[r] = slices.Clone(ids)
	}
	return c
}

// OrderRanks orders the nodes of each rank to reduce edge crossings.
//
// Every rank starts in first-seen order. A downward sweep then sorts each
// rank below the first by the barycenter (mean position) of its
// predecessors on higher layers; nodes without such predecessors keep their
// current index as key, and ties keep first-seen order. Up to sweeps
// further passes alternate upward (by successors) and downward; a pass is
// kept only if it strictly lowers [flow.CountCrossings], and refinement
// stops at the first pass that does not.
func OrderRanks(g *flow.Graph, ranks Ranks, sweeps int) Orders {
	orders := make(Orders)
	for _, n := range g.Nodes() {
		if r, ok := ranks[n.ID]; ok {
			orders[r] = append(orders[r], n.ID)
		}
	}
	maxRank := ranks.MaxRank()

	sweep(g, ranks, orders, maxRank, true)
	best := flow.CountCrossings(g, orders)

	down := false
	for i := 0; i < sweeps && best > 0; i++ {
		candidate := orders.Clone()
		sweep(g, ranks, candidate, maxRank, down)
		c := flow.CountCrossings(g, candidate)
		if c >= best {
			break
		}
		orders, best = candidate, c
		down = !down
	}
	return orders
}

// sweep reorders ranks in place. A downward sweep visits ranks 1..max using
// predecessors on lower ranks; an upward sweep visits max-1..0 using
// successors on higher ranks.
func sweep(g *flow.Graph, ranks Ranks, orders Orders, maxRank int, down bool) {
	if down {
		for r := 1; r <= maxRank; r++ {
			reorder(orders, r, func(id string) []string {
				return neighbors(g.Parents(id), ranks, func(nr int) bool { return nr < r })
			})
		}
		return
	}
	for r := maxRank - 1; r >= 0; r-- {
		reorder(orders, r, func(id string) []string {
			return neighbors(g.Children(id), ranks, func(nr int) bool { return nr > r })
		})
	}
}

func neighbors(ids []string, ranks Ranks, keep func(int) bool) []string {
	var out []string
	for _, id := range ids {
		if keep(ranks[id]) {
			out = append(out, id)
		}
	}
	return out
}

func reorder(orders Orders, r int, adj func(string) []string) {
	row := orders[r]
	if len(row) < 2 {
		return
	}
	pos := make(map[string]int)
	for _, ids := range orders {
		for i, id := range ids {
			pos[id] = i
		}
	}

	keys := make(map[string]float64, len(row))
	for i, id := range row {
		nbrs := adj(id)
		if len(nbrs) == 0 {
			keys[id] = float64(i)
			continue
		}
		sum := 0
		for _, n := range nbrs {
			sum += pos[n]
		}
		keys[id] = float64(sum) / float64(len(nbrs))
	}

	slices.SortStableFunc(row, func(a, b string) int {
		return cmp.Compare(keys[a], keys[b])
	})
}
