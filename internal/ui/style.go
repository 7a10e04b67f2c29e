package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// PrintLogo renders the colored boqloom logo to w.
func PrintLogo(w io.Writer) {
	frame := color.New(color.FgCyan)
	bricks := color.New(color.FgYellow)
	mortar := color.New(color.FgYellow, color.Faint)
	brand := color.New(color.Bold, color.FgMagenta)
	tag := color.New(color.Faint)

	fmt.Fprintln(w)
	frame.Fprintln(w, "   +--------------------------+")
	bricks.Fprintln(w, "   |__|____|____|____|____|___|")
	mortar.Fprintln(w, "   |____|____|____|____|____|_|")
	brand.Fprintln(w, "   |   B  O  Q  L  O  O  M    |")
	mortar.Fprintln(w, "   |____|____|____|____|____|_|")
	bricks.Fprintln(w, "   |__|____|____|____|____|___|")
	frame.Fprintln(w, "   +--------------------------+")
	tag.Fprintf(w, "   %s BOQ to construction schedule\n", Dim("🏗"))
	fmt.Fprintln(w)
}

// phaseColors is a palette of distinct bold colors for differentiating phases.
var phaseColors = []func(a ...interface{}) string{
	BoldMagenta,
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// phaseColorIndex hashes a phase ID to a palette index.
func phaseColorIndex(phase string) int {
	var h uint32
	for _, c := range phase {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(phaseColors)))
}

// PhasePrefix returns a colored [phase] prefix string.
// Each phase gets a stable color from the palette.
func PhasePrefix(phase string) string {
	c := phaseColors[phaseColorIndex(phase)]
	return Dim("[") + c(phase) + Dim("]")
}

// CriticalMark returns the lightning marker for critical tasks, or a space.
func CriticalMark(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// Priority returns a colored priority label.
func Priority(p string) string {
	switch p {
	case "high":
		return BoldRed("high")
	case "low":
		return Dim("low")
	default:
		return Yellow(p)
	}
}

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
