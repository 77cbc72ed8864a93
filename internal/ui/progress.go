package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/alexandresoliveira/bfgex/internal/driver"
)

const (
	statusColumn = 12
	minNameWidth = 20
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusStyle = map[string]lipgloss.Style{
		"done":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"loading": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"parsing": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
	idleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// stageInfo is how a working stage is labelled and how far it counts
// towards a finished file.
var stageInfo = map[driver.Stage]struct {
	label string
	share float64
}{
	driver.StageLoad:  {"loading", 0.1},
	driver.StageParse: {"parsing", 0.5},
}

type fileItem struct {
	path     string
	status   string
	stage    driver.Stage
	patterns int
	failed   int
}

func (it fileItem) finished() bool { return it.status == "done" || it.status == "error" }

// share is how much of the file is done, from 0 to 1.
func (it fileItem) share() float64 {
	if it.finished() {
		return 1
	}
	return stageInfo[it.stage].share
}

func (it fileItem) counts() string {
	switch {
	case it.patterns == 0 && it.failed == 0:
		return ""
	case it.failed == 0:
		return fmt.Sprintf("(%d patterns)", it.patterns)
	}
	return fmt.Sprintf("(%d patterns, %d failed)", it.patterns, it.failed)
}

type progressModel struct {
	title      string
	events     <-chan driver.Event
	spinner    spinner.Model
	bar        progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel renders a batch check: one row per file and an overall
// bar. It reads driver events until the channel is closed, then quits.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusStyle["loading"])),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, f := range files {
		m.items[i] = fileItem{path: f, status: "queued"}
		m.index[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) header() string {
	h := m.title
	if m.stageLabel != "" {
		h += " (" + m.stageLabel + ")"
	}
	if m.done {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	nameWidth := max(m.width-statusColumn-4, minNameWidth)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.header()))
	b.WriteString("\n\n")
	for _, it := range m.items {
		style, ok := statusStyle[it.status]
		if !ok {
			style = idleStyle
		}
		fmt.Fprintf(&b, "  %s %s", style.Render(fmt.Sprintf("%*s", statusColumn, it.status)), truncate(it.path, nameWidth))
		if c := it.counts(); c != "" {
			b.WriteString("  " + c)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

// applyEvent updates the row of ev.File, or the header for batch-wide
// events, and returns the command animating the bar.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	if label != "" {
		it.status, it.stage = label, ev.Stage
	}
	if ev.Patterns > 0 || ev.Failed > 0 {
		it.patterns, it.failed = ev.Patterns, ev.Failed
	}

	total := 0.0
	for _, item := range m.items {
		total += item.share()
	}
	return m.bar.SetPercent(total / float64(len(m.items)))
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued, driver.StatusDone, driver.StatusError:
		return string(status)
	case driver.StatusWorking:
		return stageInfo[stage].label
	}
	return ""
}

// truncate shortens value to width terminal cells, marking the cut with
// "..." when there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
