package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/flow"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// browseCommand creates the browse command for walking a graph interactively.
func (c *CLI) browseCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "browse [payload.json]",
		Short: "Walk a control-flow graph in the terminal",
		Long: `Walk a control-flow graph in the terminal.

Blocks are listed in layout order. Follow the taken edge with t (or enter),
the fallthrough edge with f, and go back with b.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flags)
			return c.runBrowse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags.register(cmd)
	return cmd
}

// runBrowse lays out the payload and starts the interactive list.
func (c *CLI) runBrowse(ctx context.Context, in io.Reader, out io.Writer, input string, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	payload, err := readPayload(ctx, input)
	if err != nil {
		return fmt.Errorf("read payload %s: %w", input, err)
	}
	result, err := runner.Layout(ctx, payload, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewBlockListModel(result.Layout),
		tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	_, err = p.Run()
	return err
}

// =============================================================================
// BlockListModel - Interactive block navigation
// =============================================================================

// BlockListModel is the bubbletea model for walking a laid-out graph.
type BlockListModel struct {
	Nodes   []layout.Node
	Cursor  int
	Height  int
	Offset  int
	History []int

	index map[string]int
	succ  map[string][]layout.Edge
}

// NewBlockListModel creates a model listing nodes by rank, then order.
func NewBlockListModel(res layout.Result) BlockListModel {
	nodes := append([]layout.Node(nil), res.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Rank != nodes[j].Rank {
			return nodes[i].Rank < nodes[j].Rank
		}
		return nodes[i].Order < nodes[j].Order
	})

	m := BlockListModel{
		Nodes:  nodes,
		Height: 12,
		index:  make(map[string]int, len(nodes)),
		succ:   make(map[string][]layout.Edge),
	}
	for i, n := range nodes {
		m.index[n.ID] = i
	}
	for _, e := range res.Edges {
		m.succ[e.Source] = append(m.succ[e.Source], e)
	}
	return m
}

// Current returns the node under the cursor.
func (m BlockListModel) Current() (layout.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Nodes) {
		return layout.Node{}, false
	}
	return m.Nodes[m.Cursor], true
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.moveTo(m.Cursor - 1)
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.moveTo(m.Cursor + 1)
			}
		case "enter", "t":
			m.follow(flow.Taken)
		case "f":
			m.follow(flow.Fallthrough)
		case "b", "backspace":
			if n := len(m.History); n > 0 {
				m.moveTo(m.History[n-1])
				m.History = m.History[:n-1]
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// follow jumps to the target of the current block's edge of the given kind.
func (m *BlockListModel) follow(kind flow.EdgeKind) {
	n, ok := m.Current()
	if !ok {
		return
	}
	for _, e := range m.succ[n.ID] {
		if e.Kind != kind.String() {
			continue
		}
		if i, ok := m.index[e.Target]; ok {
			m.History = append(m.History, m.Cursor)
			m.moveTo(i)
		}
		return
	}
}

// moveTo places the cursor at i and scrolls it into view.
func (m *BlockListModel) moveTo(i int) {
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BlockListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Basic Blocks"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  t taken  f fallthrough  b back  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no blocks"))
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, strconv.Itoa(n.Rank), strconv.Itoa(len(n.Instructions) + n.Hidden), truncate(n.Preview, 40)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Block", "Rank", "Insns", "First instruction").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// detail renders the instructions and edges of the current block.
func (m BlockListModel) detail() string {
	n, ok := m.Current()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.ID))
	for _, ins := range n.Instructions {
		b.WriteString("\n")
		b.WriteString(classStyle(ins.Class).Render(ins.String()))
	}
	if n.Hidden > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("... %d more", n.Hidden)))
	}
	for _, e := range m.succ[n.ID] {
		b.WriteString("\n")
		line := fmt.Sprintf("%s %s (%s)", iconArrow, e.Target, e.Kind)
		if e.Loop {
			line += " loop"
		}
		b.WriteString(edgeStyle(e.Kind).Render(line))
	}
	return panelStyle.Render(b.String())
}

// =============================================================================
// Helpers
// =============================================================================

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
