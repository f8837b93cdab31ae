package flow_test

import (
	"fmt"

	"github.com/matzehuels/cfgview/pkg/flow"
)

func ExampleGraph_loop() {
	// A loop header with a body that jumps back to it.
	g := flow.New()
	_ = g.AddNode(flow.Node{ID: "0x10"})
	_ = g.AddNode(flow.Node{ID: "0x20"})
	_ = g.AddNode(flow.Node{ID: "0x30"})
	_ = g.AddEdge(flow.Edge{From: "0x10", To: "0x20", Kind: flow.Taken})
	_ = g.AddEdge(flow.Edge{From: "0x10", To: "0x30", Kind: flow.Fallthrough})
	_ = g.AddEdge(flow.Edge{From: "0x20", To: "0x10", Kind: flow.Taken})

	fmt.Println("Children of 0x10:", g.Children("0x10"))
	fmt.Println("Parents of 0x10:", g.Parents("0x10"))
	fmt.Println("Sources:", flow.NodeIDs(g.Sources()))
	// Output:
	// Children of 0x10: [0x20 0x30]
	// Parents of 0x10: [0x20]
	// Sources: []
}
