package dot

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/layout"
)

func loopLayout() layout.Result {
	g := cfg.Build([]cfg.BasicBlock{
		{Address: "0x0", Fallthrough: "0x10", Instructions: []cfg.Instruction{{Offset: "0x0", Text: "push rbp"}}},
		{Address: "0x10", Taken: "0x30", Fallthrough: "0x20", Instructions: []cfg.Instruction{
			{Offset: "0x10", Text: "cmp eax, 3"},
			{Offset: "0x13", Text: "jge 0x30"},
		}},
		{Address: "0x20", Taken: "0x10", Instructions: []cfg.Instruction{{Offset: "0x20", Text: `lea rdi, str."hi"`}}},
		{Address: "0x30"},
	}, cfg.WithMaxInstructions(1))
	return layout.Compute(g, layout.DefaultSpacing())
}

func TestFromLayout(t *testing.T) {
	src := FromLayout(loopLayout(), Options{})

	wants := []string{
		"digraph cfg {",
		"rankdir=TB;",
		`{ rank=same; "0x0"; }`,
		`{ rank=same; "0x10"; }`,
		`"0x0" [label="0x0\lpush rbp\l"];`,
		`"0x30" [label="0x30\l"];`,
		`"0x10" -> "0x30" [color="#22c55e"];`,
		`"0x10" -> "0x20" [color="#ef4444"];`,
		`"0x20" -> "0x10" [color="#22c55e", style=dashed, constraint=false];`,
	}
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q\n%s", want, src)
		}
	}
	if !strings.HasSuffix(src, "}\n") {
		t.Error("DOT should end with closing brace")
	}
}

func TestFromLayoutDetailed(t *testing.T) {
	src := FromLayout(loopLayout(), Options{Detailed: true})

	wants := []string{
		`"0x10" [label="0x10\l0x10  cmp eax, 3\l... 1 more\l"];`,
		`"0x20" [label="0x20\l0x20  lea rdi, str.\"hi\"\l"];`,
	}
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q\n%s", want, src)
		}
	}
}

func TestFromLayoutEmpty(t *testing.T) {
	src := FromLayout(layout.Compute(nil, layout.DefaultSpacing()), Options{})
	if strings.Contains(src, "->") || strings.Contains(src, "rank=same") {
		t.Errorf("empty layout produced nodes or edges:\n%s", src)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mov eax, 1", "mov eax, 1"},
		{`a\b`, `a\\b`},
		{"a\nb", "a b"},
		{"a\r\nb", "a b"},
	}
	for _, tt := range tests {
		if got := escape(tt.in); got != tt.want {
			t.Errorf("escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), FromLayout(loopLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG output has no svg element")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG should fail on malformed DOT")
	}
}

func TestOpaqueIDsWithBackslashes(t *testing.T) {
	g := cfg.Build([]cfg.BasicBlock{
		{Address: `sym\`, Taken: `sym\`, Fallthrough: `a"b\`},
		{Address: `a"b\`},
	})
	res := layout.Compute(g, layout.DefaultSpacing())
	src := FromLayout(res, Options{})

	wants := []string{
		`"sym\\" [label="sym\\\l"];`,
		`"a\"b\\" [label="a\"b\\\l"];`,
		`"sym\\" -> "a\"b\\"`,
	}
	for _, want := range wants {
		if !strings.Contains(src, want) {
			t.Errorf("DOT missing %q\n%s", want, src)
		}
	}

	svg, err := RenderSVG(context.Background(), src)
	if err != nil {
		t.Fatalf("RenderSVG: %v\n%s", err, src)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG output has no svg element")
	}
}
