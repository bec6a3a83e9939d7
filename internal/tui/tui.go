// Package tui provides a Bubble Tea terminal user interface for
// exif-batch.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/exif-batch/internal/config"
	"github.com/handiism/exif-batch/internal/engine"
	"github.com/handiism/exif-batch/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	opStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// Input field indices.
const (
	fieldFolder = iota
	fieldTag
	fieldValue
	fieldCount
)

// operations in selection order.
var operations = []model.Operation{model.OpExtract, model.OpModify, model.OpDelete}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   engine.ProgressLevel
}

// logBuffer collects progress events from engine workers; the UI
// drains it on each tick.
type logBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (b *logBuffer) add(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
}

func (b *logBuffer) drain() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.entries
	b.entries = nil
	return out
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	opIndex  int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	err      error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Engine reference and its log feed
	engine *engine.Engine
	buf    *logBuffer

	// Run progress and result
	doneFiles  int32
	totalFiles int32
	report     *engine.Report

	// Options
	thumbnails bool
	verbose    bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	inputs := make([]textinput.Model, fieldCount)

	folder := textinput.New()
	folder.Placeholder = "/path/to/photos"
	folder.Focus()
	folder.CharLimit = 500
	folder.Width = 60
	inputs[fieldFolder] = folder

	tag := textinput.New()
	tag.Placeholder = "Artist"
	tag.CharLimit = 100
	tag.Width = 30
	inputs[fieldTag] = tag

	value := textinput.New()
	value.Placeholder = "new value"
	value.CharLimit = 500
	value.Width = 40
	inputs[fieldValue] = value

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		progress: prog,
		settings: config.DefaultSettings(),
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		buf:      &logBuffer{},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// RunDoneMsg is sent when the batch run finishes.
	RunDoneMsg struct {
		Report *engine.Report
		Err    error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

func (m Model) operation() model.Operation {
	return operations[m.opIndex]
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.inputs[fieldFolder].Value() != "" {
				m.state = StateRunning
				m.logs = nil
				return m, tea.Batch(m.startRun(), m.spinner.Tick, m.tickProgress())
			}

		case "tab", "shift+tab":
			if m.state == StateInput {
				m.cycleFocus(msg.String() == "shift+tab")
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.opIndex = (m.opIndex + 1) % len(operations)
			}

		case "ctrl+t":
			if m.state == StateInput {
				m.thumbnails = !m.thumbnails
			}

		case "ctrl+v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.report = nil
				m.engine = nil
				m.doneFiles = 0
				m.totalFiles = 0
				m.buf = &logBuffer{}
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.focus = fieldFolder
				m.inputs[fieldFolder].Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case RunDoneMsg:
		m.report = msg.Report
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}
		m.appendLogs()

	case TickMsg:
		if m.engine != nil && m.state == StateRunning {
			done, total := m.engine.Progress()
			m.doneFiles = done
			m.totalFiles = total
			m.appendLogs()

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update the focused text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// cycleFocus moves focus between the visible input fields. Tag and
// value fields only participate for the modify operation.
func (m *Model) cycleFocus(backward bool) {
	limit := 1
	if m.operation() == model.OpModify {
		limit = fieldCount
	}

	m.inputs[m.focus].Blur()
	if backward {
		m.focus = (m.focus - 1 + limit) % limit
	} else {
		m.focus = (m.focus + 1) % limit
	}
	m.inputs[m.focus].Focus()
}

// appendLogs drains the engine's log feed into the visible tail.
func (m *Model) appendLogs() {
	for _, entry := range m.buf.drain() {
		if entry.Level == engine.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, entry)
	}
	// Keep only the last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("exif-batch"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Batch-process EXIF metadata in image files"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Folder to process:"))
	b.WriteString("\n\n")
	b.WriteString(m.inputs[fieldFolder].View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Operation: "))
	b.WriteString(opStyle.Render(string(m.operation())))
	b.WriteString("\n")

	if m.operation() == model.OpModify {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Tag:   "))
		b.WriteString(m.inputs[fieldTag].View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Value: "))
		b.WriteString(m.inputs[fieldValue].View())
		b.WriteString("\n")
	}

	thumbCheck := "[ ]"
	if m.thumbnails {
		thumbCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Export thumbnails (ctrl+t)\n", thumbCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+v)\n", verboseCheck))

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Running %s...", m.operation())))
	b.WriteString("\n\n")

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.doneFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.doneFiles, m.totalFiles)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	ok, noMeta, failed := 0, 0, 0
	elapsed := 0.0
	if m.report != nil {
		ok, noMeta, failed = m.report.Counts()
		elapsed = m.report.Elapsed.Seconds()
	}

	box := boxStyle.Render(fmt.Sprintf(
		"Run complete (%s)\n\n"+
			"Processed: %d\n"+
			"No metadata: %d\n"+
			"Errors: %d\n"+
			"Elapsed: %.2f seconds",
		m.operation(), ok, noMeta, failed, elapsed,
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "."
		switch log.Level {
		case engine.LevelError:
			style = errorStyle
			prefix = "x"
		case engine.LevelWarning:
			style = warningStyle
			prefix = "!"
		case engine.LevelSuccess:
			style = successStyle
			prefix = "+"
		case engine.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		if m.operation() == model.OpModify {
			return "enter: run • tab: next field • ctrl+o: operation • ctrl+t: thumbnails • ctrl+v: verbose • esc: quit"
		}
		return "enter: run • ctrl+o: operation • ctrl+t: thumbnails • ctrl+v: verbose • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

// startRun builds an engine from the current inputs and runs the batch
// in the background.
func (m *Model) startRun() tea.Cmd {
	settings := *m.settings
	settings.SaveThumbnails = m.thumbnails
	settings.Verbose = m.verbose

	buf := m.buf
	eng := engine.New(&settings, func(event engine.ProgressEvent) {
		buf.add(LogEntry{Message: event.Message, Level: event.Level})
	})
	m.engine = eng

	folder := m.inputs[fieldFolder].Value()
	op := m.operation()
	tag := m.inputs[fieldTag].Value()
	value := model.Text(m.inputs[fieldValue].Value())
	ctx := m.ctx

	return func() tea.Msg {
		report, err := eng.Run(ctx, folder, op, tag, value)
		return RunDoneMsg{Report: report, Err: err}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
