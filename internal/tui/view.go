package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/session"
)

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenFolders:
		body = m.renderFolders()
	case screenTopics:
		body = m.renderTopics()
	case screenStudy:
		body = m.renderStudy()
	case screenStats:
		body = m.renderStats()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("procknow"),
		"",
		body,
		"",
		m.renderStatus(),
	)
}

func (m Model) renderFolders() string {
	if len(m.folders) == 0 {
		return itemStyle.Render("No folders found")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Choose a folder"),
		renderList(m.folders, m.cursor),
		"",
		keyHelp("enter", "open", "s", "statistics", "q", "quit"),
	)
}

func (m Model) renderTopics() string {
	weak := "off"
	if m.weakOnly {
		weak = "on"
	}

	list := itemStyle.Render("No topics in this folder")
	if len(m.topics) > 0 {
		list = renderList(m.topics, m.cursor)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Folder: "+m.folder),
		list,
		"",
		itemStyle.Render("Only <75% accuracy: "+weak),
		keyHelp("enter", "study", "w", "weak only", "s", "statistics", "esc", "back"),
	)
}

func (m Model) renderStudy() string {
	v := m.view
	var sections []string

	if m.showPerformance && len(m.performance) > 0 {
		sections = append(sections,
			headerStyle.Render("Past performance in topic: "+v.Topic),
			renderRows(m.performance),
			"")
	}

	if v.State == session.Completed {
		sections = append(sections,
			correctStyle.Render("All cards done"),
			"",
			keyHelp("enter", "back to topics", "q", "quit"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	progress := fmt.Sprintf("%s  ·  %d left", v.Topic, v.Remaining)
	if v.RepeatTotal > 1 {
		progress += fmt.Sprintf("  ·  repeat %d/%d", v.RepeatIndex, v.RepeatTotal)
	}
	sections = append(sections,
		itemStyle.Render(progress),
		questionStyle.Render(highlightMath(v.Question)))

	if v.Hint != "" {
		sections = append(sections, hintStyle.Render("Hint: "+highlightMath(v.Hint)))
	}

	if v.VerdictActionsEnabled && v.ProposedVerdict != nil {
		verdict := wrongStyle.Render("Incorrect")
		if *v.ProposedVerdict {
			verdict = correctStyle.Render("Correct")
		}
		sections = append(sections,
			"",
			verdict,
			itemStyle.Render("Your answer: "+v.Input),
			itemStyle.Render("Expected:    "+v.ExpectedAnswer),
			"",
			keyHelp("y", "accept", "n", "override", "esc", "leave topic"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	help := []string{"enter", "submit"}
	if v.HintAvailable {
		help = append(help, "tab", "hint")
	}
	help = append(help, "esc", "leave topic")
	sections = append(sections,
		"",
		selectedStyle.Render("> "+m.input+"_"),
		"",
		keyHelp(help...))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStats() string {
	s := m.stats
	order := "desc"
	if !m.desc {
		order = "asc"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Statistics: "+s.Folder),
		itemStyle.Render(fmt.Sprintf("Total cards tracked: %d", s.Total)),
		itemStyle.Bold(true).Render(fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy)),
		itemStyle.Render(fmt.Sprintf("Sorted by %s (%s)", m.sortKey, order)),
		"",
		renderRows(s.Rows),
		"",
		keyHelp("1", "name", "2", "correct", "3", "wrong", "4", "accuracy", "esc", "back"),
	)
}

func (m Model) renderStatus() string {
	style := statusStyle
	if m.statusIsError {
		style = errorStatusStyle
	}
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(m.status)
}

func renderList(items []string, cursor int) string {
	lines := make([]string, len(items))
	for i, item := range items {
		if i == cursor {
			lines[i] = selectedStyle.Render("› " + item)
		} else {
			lines[i] = itemStyle.Render("  " + item)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRows(rows []service.StatsRow) string {
	if len(rows) == 0 {
		return itemStyle.Render("No results recorded yet")
	}
	lines := []string{
		headerStyle.Render(fmt.Sprintf("%-40s %7s %7s %9s  %s", "Name", "Correct", "Wrong", "Accuracy", "Wrongs")),
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-40s %7d %7d %9.1f  %s", r.Key, r.Correct, r.Wrong, r.Accuracy, r.Preview))
	}
	return strings.Join(lines, "\n")
}
