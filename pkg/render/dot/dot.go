package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cfgview/pkg/layout"
)

// Edge colours.
const (
	ColorTrueBranch  = "#22c55e"
	ColorFalseBranch = "#ef4444"
)

// Options configures DOT generation.
type Options struct {
	// Detailed lists every kept instruction in the node label.
	// When false, the label is the block address and its preview.
	Detailed bool
}

// FromLayout converts a layout to Graphviz DOT.
func FromLayout(res layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cfg {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(res.Spacing.RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(res.Spacing.NodeSep))
	buf.WriteString("\n")

	for _, r := range slices.Sorted(maps.Keys(res.Ranks)) {
		ids := res.Ranks[r]
		if len(ids) == 0 {
			continue
		}
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = quoteID(id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(quoted, "; "))
	}

	buf.WriteString("\n")
	for _, n := range res.Nodes {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", quoteID(n.ID), quote(label(n, opts.Detailed)))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quoteID(e.Source), quoteID(e.Target), strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(n layout.Node, detailed bool) string {
	var b strings.Builder
	b.WriteString(escape(n.ID))
	b.WriteString(`\l`)
	if !detailed {
		if n.Preview != "" {
			b.WriteString(escape(n.Preview))
			b.WriteString(`\l`)
		}
		return b.String()
	}
	for _, ins := range n.Instructions {
		b.WriteString(escape(ins.String()))
		b.WriteString(`\l`)
	}
	if n.Hidden > 0 {
		fmt.Fprintf(&b, `... %d more\l`, n.Hidden)
	}
	return b.String()
}

func edgeAttrs(e layout.Edge) []string {
	color := ColorFalseBranch
	if e.Style == layout.StyleTrueBranch {
		color = ColorTrueBranch
	}
	attrs := []string{fmt.Sprintf("color=%q", color)}
	if e.Loop {
		attrs = append(attrs, "style=dashed", "constraint=false")
	}
	return attrs
}

// quoteID quotes a node ID. Opaque block IDs may contain backslashes.
func quoteID(s string) string {
	return quote(strings.ReplaceAll(s, `\`, `\\`))
}

// quote wraps s in double quotes. Backslashes are kept so label escapes
// such as \l reach Graphviz; callers escape literal text first.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// escape neutralises backslashes and line breaks in instruction text.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// inches converts layout pixels to Graphviz inches (72 points per inch).
func inches(px float64) string {
	return strconv.FormatFloat(px/72, 'f', 2, 64)
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
