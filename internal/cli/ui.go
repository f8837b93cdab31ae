package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/flow"
	"github.com/matzehuels/cfgview/pkg/pipeline"
)

// ANSI 256 palette.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
	colorPurple = lipgloss.Color("141")
	colorOrange = lipgloss.Color("209")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// Exported styles are shared with the TUI.
var (
	StyleTitle     = fg(colorCyan).Bold(true)
	StyleHighlight = fg(colorCyan)
	StyleLink      = fg(colorBlue).Underline(true)
	StyleDim       = fg(colorDim)
	StyleValue     = fg(colorWhite)
	StyleNumber    = fg(colorCyan)
	StyleSuccess   = fg(colorGreen)
	StyleWarning   = fg(colorYellow)
	StyleError     = fg(colorRed)

	styleIconSpinner = fg(colorCyan)
	styleLabel       = fg(colorGray).Width(12)
	styleCommand     = fg(colorBlue)
)

const iconArrow = "→"

// classStyles colours instructions by class in block listings.
var classStyles = map[cfg.Class]lipgloss.Style{
	cfg.ClassCall:  fg(colorPurple),
	cfg.ClassUJump: fg(colorBlue),
	cfg.ClassCJump: fg(colorYellow),
	cfg.ClassRet:   fg(colorRed),
	cfg.ClassPush:  fg(colorOrange),
	cfg.ClassPop:   fg(colorOrange),
	cfg.ClassMov:   fg(colorWhite),
	cfg.ClassCmp:   fg(colorCyan),
	cfg.ClassNop:   fg(colorDim),
	cfg.ClassOther: fg(colorGray),
}

func classStyle(c cfg.Class) lipgloss.Style {
	if s, ok := classStyles[c]; ok {
		return s
	}
	return classStyles[cfg.ClassOther]
}

// edgeStyle is green for taken edges and red for everything else.
func edgeStyle(kind string) lipgloss.Style {
	if kind == flow.Taken.String() {
		return StyleSuccess
	}
	return StyleError
}

// stdout receives all status output; tests swap it.
var stdout io.Writer = os.Stdout

func printLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

// status prints a one-line message prefixed with a coloured icon.
func status(icon string, iconStyle, msgStyle lipgloss.Style, format string, args []any) {
	printLine(iconStyle.Render(icon), msgStyle.Render(fmt.Sprintf(format, args...)))
}

var plain = lipgloss.NewStyle()

func printSuccess(format string, args ...any) {
	status("✓", StyleSuccess, plain, format, args)
}

func printError(format string, args ...any) {
	status("✗", StyleError, plain, format, args)
}

func printWarning(format string, args ...any) {
	status("!", StyleWarning, StyleWarning, format, args)
}

func printInfo(format string, args ...any) {
	status("›", fg(colorGray), plain, format, args)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	printLine(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a path that was written.
func printFile(path string) {
	printLine(" ", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	printLine(styleLabel.Render(key), StyleValue.Render(value))
}

// printStats prints block and edge counts, dropped edges if any, and
// whether the layout came from the cache.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d blocks", stats.NodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", stats.EdgeCount)),
	}
	if stats.DroppedEdges > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d dropped", stats.DroppedEdges)))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, fg(colorGray).Render("fresh"))
	}
	printLine(" ", strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	printLine(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
