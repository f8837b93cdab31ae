package layout_test

import (
	"fmt"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
)

func ExampleCompute() {
	// An if/else that rejoins: 0x0 branches to 0x4 or falls through to 0x2.
	g := cfg.Build([]cfg.BasicBlock{
		{Address: "0x0", Taken: "0x4", Fallthrough: "0x2"},
		{Address: "0x2", Taken: "0x4"},
		{Address: "0x4"},
	})

	res := layout.Compute(g, layout.DefaultSpacing())
	for _, n := range res.Nodes {
		fmt.Printf("%s rank=%d y=%.0f\n", n.ID, n.Rank, n.Y)
	}
	for _, e := range res.Edges {
		fmt.Println(e.ID, e.Style)
	}
	// Output:
	// 0x0 rank=0 y=0
	// 0x2 rank=1 y=230
	// 0x4 rank=2 y=460
	// 0x0->0x4:taken true-branch
	// 0x0->0x2:fallthrough false-branch
	// 0x2->0x4:taken true-branch
}

func ExampleAssignRanks() {
	// A loop: the back edge 0x20 -> 0x10 is ignored for ranking.
	g := cfg.Build([]cfg.BasicBlock{
		{Address: "0x0", Fallthrough: "0x10"},
		{Address: "0x10", Taken: "0x30", Fallthrough: "0x20"},
		{Address: "0x20", Taken: "0x10"},
		{Address: "0x30"},
	})

	ranks := layout.AssignRanks(g.Flow())
	for _, n := range g.Nodes {
		fmt.Println(n.ID, ranks[string(n.ID)])
	}
	// Output:
	// 0x0 0
	// 0x10 1
	// 0x20 2
	// 0x30 2
}
