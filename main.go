//go:build !gui

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/playback"
	"github.com/metcalfc/jrr/internal/reader"
	"github.com/metcalfc/jrr/internal/source"
)

var (
	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	chunkStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FAFD7"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type keyMap struct {
	Toggle       key.Binding
	Faster       key.Binding
	Slower       key.Binding
	PrevSentence key.Binding
	NextSentence key.Binding
	Restart      key.Binding
	Mode         key.Binding
	Longer       key.Binding
	Shorter      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Faster, k.Slower, k.PrevSentence, k.NextSentence, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Restart, k.Quit},
		{k.Faster, k.Slower},
		{k.PrevSentence, k.NextSentence},
		{k.Mode, k.Longer, k.Shorter},
		{k.Help},
	}
}

var keys = keyMap{
	Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/play")),
	Faster:       key.NewBinding(key.WithKeys("up", "+", "="), key.WithHelp("↑/+", "faster")),
	Slower:       key.NewBinding(key.WithKeys("down", "-"), key.WithHelp("↓/-", "slower")),
	PrevSentence: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev sentence")),
	NextSentence: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next sentence")),
	Restart:      key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "restart")),
	Mode:         key.NewBinding(key.WithKeys("m", "M"), key.WithHelp("m", "grouped/atomic")),
	Longer:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "longer chunks")),
	Shorter:      key.NewBinding(key.WithKeys("["), key.WithHelp("[", "shorter chunks")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:         key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type model struct {
	r        *reader.Reader
	log      *zap.Logger
	sections []source.Section
	frame    time.Duration

	keys keyMap
	help help.Model
	bar  progress.Model

	// gen tags frame ticks so a stale tick chain dies after a pause.
	gen      int
	finished bool
	quitting bool
	width    int
	height   int
}

type frameMsg struct{ gen int }

func newModel(r *reader.Reader, doc source.Document, frameRate int, log *zap.Logger) model {
	if frameRate <= 0 {
		frameRate = playback.DefaultFrameRate
	}
	if log == nil {
		log = zap.NewNop()
	}
	return model{
		r:        r,
		log:      log,
		sections: doc.Sections,
		frame:    time.Second / time.Duration(frameRate),
		keys:     keys,
		help:     help.New(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(76)),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	if m.r.IsPlaying() {
		return m.tick()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, msg.Width-4)
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		if msg.gen != m.gen || !m.r.IsPlaying() {
			return m, nil
		}
		if m.r.Step() == playback.EventFinished {
			m.log.Info("reading complete", zap.Duration("elapsed", m.r.Elapsed()))
			m.finished = true
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tick()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if m.r.TogglePlay() {
			m.gen++
			return m, m.tick()
		}

	case key.Matches(msg, m.keys.Faster):
		m.r.SetRate(stepRate(m.r.Rate(), rateStep))

	case key.Matches(msg, m.keys.Slower):
		m.r.SetRate(stepRate(m.r.Rate(), -rateStep))

	case key.Matches(msg, m.keys.PrevSentence):
		m.r.JumpToPrevSentence()

	case key.Matches(msg, m.keys.NextSentence):
		m.r.JumpToNextSentence()

	case key.Matches(msg, m.keys.Restart):
		m.r.Seek(0)

	case key.Matches(msg, m.keys.Mode):
		m.regroup(toggleMode(m.r.Grouping()))

	case key.Matches(msg, m.keys.Longer):
		m.regroup(stepMaxLength(m.r.Grouping(), 1))

	case key.Matches(msg, m.keys.Shorter):
		m.regroup(stepMaxLength(m.r.Grouping(), -1))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) regroup(g chunk.GroupingConfig) {
	if regroup(m.r, g) {
		m.log.Debug("grouping changed", zap.Stringer("grouping", g))
	}
}

func (m model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.frame, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func (m model) View() string {
	if m.quitting {
		if m.finished {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	if len(m.r.Chunks()) == 0 {
		return "No text to read."
	}

	// Reserve 3 lines: status at top, progress and help at bottom
	avail := max(1, m.height-3)
	vPad := avail / 2

	var sb strings.Builder
	sb.WriteString(m.status())
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("\n", vPad))

	surface := m.r.CurrentChunk().Surface
	sb.WriteString(anchorFocus(formatChunk(surface), surface, m.width))
	sb.WriteString(strings.Repeat("\n", avail-vPad))

	current, total := m.r.Progress()
	sb.WriteString(" " + m.bar.ViewAs(float64(current)/float64(total)))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

func (m model) status() string {
	current, total := m.r.Progress()
	line := fmt.Sprintf("Chunk %d/%d | %.0f CPM | %s | %s",
		current, total, m.r.Rate(), m.r.Grouping(), formatElapsed(m.r.Elapsed()))
	if sec, ok := sectionAt(m.sections, m.r.CurrentChunk().Start); ok {
		line += " | " + sectionStyle.Render(sec.Title)
	}
	if !m.r.IsPlaying() {
		line += pausedStyle.Render(" [PAUSED]")
	}
	return statusStyle.Render(line)
}

func formatChunk(surface string) string {
	before, focus, after := reader.SplitFocus(surface)
	return chunkStyle.Render(before) + focusStyle.Render(focus) + chunkStyle.Render(after)
}

// anchorFocus pads text so the focus character of surface sits at the
// centre column. Widths are terminal cells, two for most kana and kanji.
func anchorFocus(text, surface string, width int) string {
	before, _, _ := reader.SplitFocus(surface)
	pad := max(0, width/2-runewidth.StringWidth(before))
	return strings.Repeat(" ", pad) + text
}

func runReader(s *session) error {
	m := newModel(s.reader, s.doc, s.cfg.FrameRate, s.log)
	s.reader.Start()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
