package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

// blocksCommand creates the blocks command for listing normalized blocks.
func (c *CLI) blocksCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "blocks [payload.json]",
		Short: "Print the basic blocks of a payload rank by rank",
		Long: `Print the basic blocks of a payload rank by rank.

Each block is listed with its instructions, coloured by class, and its
outgoing edges. Taken edges are green, fallthrough edges red.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flags)
			return c.runBlocks(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags.register(cmd)
	return cmd
}

// runBlocks normalizes and lays out the payload, then prints the blocks.
func (c *CLI) runBlocks(ctx context.Context, w io.Writer, input string, opts pipeline.Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	payload, err := readPayload(ctx, input)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", input, err)
	}

	strategy, blocks, err := pipeline.Normalize(ctx, payload)
	if err != nil {
		return err
	}
	g, res := pipeline.GenerateLayout(ctx, blocks, opts)

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%d blocks", len(g.Nodes)))+" "+StyleDim.Render("("+strategy+")"))
	writeBlocks(w, res)
	if g.Dropped > 0 {
		fmt.Fprintln(w, StyleWarning.Render(fmt.Sprintf("%d edges dropped", g.Dropped)))
	}
	return nil
}

// writeBlocks prints every node grouped by rank, in layout order.
func writeBlocks(w io.Writer, res layout.Result) {
	ranks := make([]int, 0, len(res.Ranks))
	for r := range res.Ranks {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)

	for _, r := range ranks {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("rank %d", r)))
		for _, id := range res.Ranks[r] {
			n, ok := res.Node(id)
			if !ok {
				continue
			}
			writeBlock(w, n, res.Successors(id))
		}
	}
}

func writeBlock(w io.Writer, n layout.Node, succ []layout.Edge) {
	header := StyleHighlight.Render(n.ID)
	if n.Size > 0 {
		header += "  " + StyleNumber.Render(fmt.Sprintf("%d bytes", n.Size))
	}
	fmt.Fprintln(w, header)

	for _, ins := range n.Instructions {
		fmt.Fprintln(w, "    "+classStyle(ins.Class).Render(ins.String()))
	}
	if n.Hidden > 0 {
		fmt.Fprintln(w, "    "+StyleDim.Render(fmt.Sprintf("... %d more", n.Hidden)))
	}

	if len(succ) > 0 {
		parts := make([]string, len(succ))
		for i, e := range succ {
			parts[i] = edgeStyle(e.Kind).Render(e.Target)
		}
		fmt.Fprintln(w, "    "+StyleDim.Render(iconArrow)+" "+strings.Join(parts, " "))
	}
}
