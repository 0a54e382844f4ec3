package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")). // Bright white
			Background(lipgloss.Color("27")). // Blue background
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")). // Darker gray background
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")). // Light gray
			Padding(0, 1)

	questionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	mathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")) // Bright yellow

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("244"))

	correctStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("28")). // Green
			Padding(0, 1)

	wrongStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("160")). // Red
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")) // Cyan

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("244"))

	statusStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("234")) // Very dark gray

	errorStatusStyle = statusStyle.
				Background(lipgloss.Color("160"))
)

// highlightMath renders the $...$ segments of s with mathStyle. The
// dollar signs are dropped; an unterminated segment is left as typed.
func highlightMath(s string) string {
	parts := strings.Split(s, "$")
	if len(parts) < 3 {
		return s
	}

	var b strings.Builder
	for i, part := range parts {
		switch {
		case i%2 == 0:
			b.WriteString(part)
		case i == len(parts)-1:
			// odd number of dollars: the last one opened nothing
			b.WriteString("$" + part)
		default:
			b.WriteString(mathStyle.Render(part))
		}
	}
	return b.String()
}

func keyHelp(pairs ...string) string {
	var items []string
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, keyStyle.Render("["+pairs[i]+"]")+" "+pairs[i+1])
	}
	return strings.Join(items, "  ")
}
