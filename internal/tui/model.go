// Package tui is the terminal presentation of the study service, built on
// bubbletea. It only renders session.View snapshots and forwards keys to
// the service; it never reads session internals.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/phrazzld/procknow/internal/domain"
	"github.com/phrazzld/procknow/internal/service"
	"github.com/phrazzld/procknow/internal/session"
)

type screen int

const (
	screenFolders screen = iota
	screenTopics
	screenStudy
	screenStats
)

// Options preselect what the UI opens with.
type Options struct {
	Folder   string
	Topic    string
	WeakOnly bool
}

// Model is the bubbletea model of the study UI.
type Model struct {
	ctx    context.Context
	study  *service.StudyService
	logger *slog.Logger

	screen   screen
	folders  []string
	topics   []string
	cursor   int
	folder   string
	weakOnly bool

	view        session.View
	input       string
	performance []service.StatsRow

	// showPerformance is set when a topic starts or ends.
	showPerformance bool

	stats   service.FolderStats
	sortKey service.SortKey
	desc    bool
	// statsFrom is the screen the stats view returns to.
	statsFrom screen

	status        string
	statusIsError bool
	width, height int
}

// New creates the UI model. With opts.Folder set it opens that folder's
// topic list; with opts.Topic set as well it starts studying right away.
func New(ctx context.Context, study *service.StudyService, opts Options, logger *slog.Logger) Model {
	if study == nil {
		panic("study service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		ctx:      ctx,
		study:    study,
		logger:   logger.With(slog.String("component", "tui")),
		screen:   screenFolders,
		folders:  study.Folders(),
		weakOnly: opts.WeakOnly,
		sortKey:  service.SortByAccuracy,
		desc:     true,
	}

	if opts.Folder == "" {
		return m
	}
	m = m.openFolder(opts.Folder)
	if opts.Topic != "" && m.screen == screenTopics {
		m = m.startTopic(opts.Topic)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenFolders:
			return m.updateFolders(msg)
		case screenTopics:
			return m.updateTopics(msg)
		case screenStudy:
			return m.updateStudy(msg)
		case screenStats:
			return m.updateStats(msg)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) updateFolders(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "j", "down":
		m.cursor = min(m.cursor+1, max(len(m.folders)-1, 0))
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "enter":
		if len(m.folders) > 0 {
			m = m.openFolder(m.folders[m.cursor])
		}
	case "s":
		if len(m.folders) > 0 {
			m.folder = m.folders[m.cursor]
			m = m.openStats()
		}
	}
	return m, nil
}

func (m Model) updateTopics(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenFolders
		m.cursor = indexOf(m.folders, m.folder)
		m.clearStatus()
	case "j", "down":
		m.cursor = min(m.cursor+1, max(len(m.topics)-1, 0))
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case "w":
		m.weakOnly = !m.weakOnly
	case "s":
		m = m.openStats()
	case "enter":
		if len(m.topics) > 0 {
			m = m.startTopic(m.topics[m.cursor])
		}
	}
	return m, nil
}

func (m Model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.view.State == session.Completed:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter", "esc":
			m = m.backToTopics()
		}

	case m.view.VerdictActionsEnabled:
		switch msg.String() {
		case "y", "enter":
			m = m.resolve(true)
		case "n":
			m = m.resolve(false)
		case "esc":
			m = m.backToTopics()
		}

	case m.view.AnswerEnabled:
		switch msg.Type {
		case tea.KeyEnter:
			m = m.submit()
		case tea.KeyTab:
			m = m.hint()
		case tea.KeyEsc:
			m = m.backToTopics()
		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				m.input = string(r[:len(r)-1])
			}
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := map[string]service.SortKey{
		"1": service.SortByName,
		"2": service.SortByCorrect,
		"3": service.SortByWrong,
		"4": service.SortByAccuracy,
	}

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = m.statsFrom
		if m.screen == screenFolders {
			m.cursor = indexOf(m.folders, m.folder)
		} else {
			m.cursor = 0
		}
	case "1", "2", "3", "4":
		if keys[key] == m.sortKey {
			m.desc = !m.desc
		} else {
			m.sortKey = keys[key]
			m.desc = true
		}
		m = m.openStats()
	}
	return m, nil
}

func (m Model) openFolder(folder string) Model {
	topics, err := m.study.Topics(folder)
	if err != nil {
		return m.fail("Unknown folder "+folder, err)
	}
	m.folder = folder
	m.topics = topics
	m.screen = screenTopics
	m.cursor = 0
	m.clearStatus()
	return m
}

func (m Model) openStats() Model {
	stats, err := m.study.Stats(m.ctx, m.folder, m.sortKey, m.desc)
	if err != nil {
		return m.fail("Could not load statistics", err)
	}
	m.stats = stats
	if m.screen != screenStats {
		m.statsFrom = m.screen
	}
	m.screen = screenStats
	m.clearStatus()
	return m
}

func (m Model) startTopic(topic string) Model {
	result, err := m.study.Start(m.ctx, domain.TopicID(m.folder, topic), m.weakOnly)
	if err != nil {
		return m.fail("Could not load topic "+topic, err)
	}
	m.view = result.View
	m.performance = result.Performance
	m.showPerformance = true
	m.input = ""
	m.screen = screenStudy
	m.clearStatus()
	if result.View.State == session.Completed {
		m.status = "Nothing to study in this topic"
	}
	return m
}

func (m Model) backToTopics() Model {
	m.screen = screenTopics
	m.input = ""
	m.clearStatus()
	return m
}

func (m Model) hint() Model {
	view, err := m.study.Hint()
	if err != nil {
		m.status = "No hint for this card"
		return m
	}
	m.view = view
	return m
}

func (m Model) submit() Model {
	view, err := m.study.Answer(m.input)
	if err != nil {
		return m.fail("Could not submit answer", err)
	}
	m.view = view
	m.showPerformance = false
	m.clearStatus()
	return m
}

func (m Model) resolve(accepted bool) Model {
	view, err := m.study.Verdict(m.ctx, accepted)
	if err != nil {
		m = m.fail("Could not save progress; press y or n to retry", err)
		if current, verr := m.study.View(); verr == nil {
			m.view = current
		}
		return m
	}
	m.view = view
	m.input = ""
	m.clearStatus()
	if view.State == session.Completed {
		if perf, err := m.study.Performance(); err == nil {
			m.performance = perf
		}
		m.showPerformance = true
		m.status = "Topic complete"
	}
	return m
}

func (m Model) fail(message string, err error) Model {
	m.logger.Error(message, slog.String("error", err.Error()))
	m.status = message
	m.statusIsError = true
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		m.status = fmt.Sprintf("%s (%s)", message, svcErr.Operation)
	}
	return m
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusIsError = false
}

func indexOf(items []string, item string) int {
	for i, it := range items {
		if it == item {
			return i
		}
	}
	return 0
}
