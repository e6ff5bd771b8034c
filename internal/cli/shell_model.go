package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// defaultProbeInterval is used when the App carries no config.
const defaultProbeInterval = 5 * time.Second

// shellFocus tracks whether keystrokes go to the command line or to the
// timeline.
type shellFocus int

const (
	focusInput    shellFocus = iota // typing a command
	focusTimeline                   // browsing; undo/redo keys are live
)

// shellKeyMap holds the bindings that act on the roadmap rather than on
// the text being typed.
type shellKeyMap struct {
	Undo  key.Binding
	Redo  key.Binding
	Blur  key.Binding
	Focus key.Binding
	Quit  key.Binding
}

func defaultShellKeys() shellKeyMap {
	return shellKeyMap{
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "alt+z"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y", "alt+Z", "ctrl+shift+z"),
			key.WithHelp("ctrl+y", "redo"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "browse timeline"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter", "i", ":"),
			key.WithHelp("enter", "type a command"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// probeTickMsg asks the shell to check store reachability.
type probeTickMsg struct{}

// probeDoneMsg carries the outcome of a reachability check.
type probeDoneMsg struct{ err error }

// shellModel is the bubbletea Model for the interactive shell.
type shellModel struct {
	input   textinput.Model
	keys    shellKeyMap
	focus   shellFocus
	width   int
	app     *App
	history *shellHistory

	probeEvery time.Duration
	lastOutput string
	quitting   bool
}

func newShellModel(app *App, historyPath string) shellModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500
	ti.ShowSuggestions = true
	ti.SetSuggestions(shellSuggestions())

	probeEvery := defaultProbeInterval
	if app.Config != nil {
		probeEvery = app.Config.Sync.ProbeInterval()
	}
	return shellModel{
		input:      ti,
		keys:       defaultShellKeys(),
		app:        app,
		history:    loadShellHistory(historyPath),
		probeEvery: probeEvery,
	}
}

func shellSuggestions() []string {
	return []string{
		"member add --name ", "member list", "member rename ", "member rm ", "member reorder ",
		"project add --title ", "project list", "project show ", "project update ", "project move ", "project rm ",
		"milestone add ", "milestone update ", "milestone rm ",
		"dep add ", "dep list", "dep route ", "dep rm ",
		"leave add --member ", "leave list", "leave update ", "leave rm ",
		"period add --start ", "period list", "period update ", "period rm ",
		"layout", "conflicts", "undo", "redo", "sync status", "sync push",
		"export --format ", "import ", "doctor", "help", "clear", "exit",
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m shellModel) Init() tea.Cmd {
	roadmapID := "roadmap"
	if m.app.Config != nil {
		roadmapID = m.app.Config.Roadmap.ID
	}
	return tea.Batch(
		textinput.Blink,
		tea.Println(formatter.FormatShellWelcome(roadmapID)),
		m.probe(),
		m.scheduleProbe(),
	)
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lenPrompt-1, 10)
		return m, nil

	case probeTickMsg:
		return m, tea.Batch(m.probe(), m.scheduleProbe())

	case probeDoneMsg:
		return m, m.reportSyncError()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.focus == focusTimeline {
			return m.updateTimeline(msg)
		}
		return m.updatePrompt(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) View() string {
	if m.quitting {
		return formatter.Dim("Goodbye.") + "\n"
	}
	if m.focus == focusTimeline {
		width := formatter.DefaultTimelineWidth
		if m.width > 0 {
			width = max(m.width/2, 20)
		}
		return formatter.FormatLanes(m.app.Roadmap.Lanes(), width) + "\n" +
			m.statusLine() + "\n" +
			formatter.Dim(m.timelineHelp())
	}
	return m.statusLine() + "\n" + promptPrefix + m.input.View()
}

// ── prompt ───────────────────────────────────────────────────────────────────

const promptPrefix = "roadmap ❯ "

var lenPrompt = len([]rune(promptPrefix))

func (m shellModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Blur):
		m.focus = focusTimeline
		m.input.Blur()
		return m, nil

	// Undo and redo belong to the timeline. While typing they do nothing,
	// and alt+z must not insert a "z" either.
	case key.Matches(msg, m.keys.Undo, m.keys.Redo):
		return m, nil

	case msg.Type == tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		m.history.add(line)
		output, cmd := m.execute(line)
		return m, m.emit(output, cmd)

	case msg.Type == tea.KeyUp:
		if line, ok := m.history.prev(); ok {
			m.input.SetValue(line)
			m.input.CursorEnd()
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		m.input.SetValue(m.history.next())
		m.input.CursorEnd()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ── timeline ─────────────────────────────────────────────────────────────────

func (m shellModel) updateTimeline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Undo):
		return m, m.emit(m.undo(), nil)
	case key.Matches(msg, m.keys.Redo):
		return m, m.emit(m.redo(), nil)
	case key.Matches(msg, m.keys.Focus):
		m.focus = focusInput
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m shellModel) timelineHelp() string {
	parts := make([]string, 0, 4)
	for _, b := range []key.Binding{m.keys.Undo, m.keys.Redo, m.keys.Focus, m.keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func (m *shellModel) undo() string {
	had := m.app.Roadmap.CanUndo()
	applied, err := m.app.Roadmap.Undo(context.Background())
	if err != nil {
		return formatter.Error(err)
	}
	return undoMessage(applied, had, "Undone.", "Nothing to undo.")
}

func (m *shellModel) redo() string {
	had := m.app.Roadmap.CanRedo()
	applied, err := m.app.Roadmap.Redo(context.Background())
	if err != nil {
		return formatter.Error(err)
	}
	return undoMessage(applied, had, "Redone.", "Nothing to redo.")
}

// ── status ───────────────────────────────────────────────────────────────────

func (m shellModel) statusLine() string {
	parts := []string{formatter.SyncBadge(m.app.Sync.Status())}
	if m.app.Roadmap.CanUndo() {
		parts = append(parts, formatter.Dim("undo available"))
	}
	if m.app.Roadmap.CanRedo() {
		parts = append(parts, formatter.Dim("redo available"))
	}
	return strings.Join(parts, formatter.Dim(" · "))
}

func (m shellModel) probe() tea.Cmd {
	sync := m.app.Sync
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return probeDoneMsg{err: sync.Probe(ctx)}
	}
}

func (m shellModel) scheduleProbe() tea.Cmd {
	return tea.Tick(m.probeEvery, func(time.Time) tea.Msg { return probeTickMsg{} })
}

// reportSyncError prints the latest persistence failure once.
func (m shellModel) reportSyncError() tea.Cmd {
	if err := m.app.Sync.TakeError(); err != nil {
		return tea.Println(formatter.Error(fmt.Errorf("saving roadmap: %w", err)))
	}
	return nil
}

// ── execution ────────────────────────────────────────────────────────────────

// emit records output for inspection and prints it above the prompt,
// followed by any pending sync error.
func (m *shellModel) emit(output string, cmd tea.Cmd) tea.Cmd {
	m.lastOutput = output
	var cmds []tea.Cmd
	if output != "" {
		cmds = append(cmds, tea.Println(output))
	}
	cmds = append(cmds, cmd, m.reportSyncError())
	return tea.Batch(cmds...)
}

func (m *shellModel) execute(line string) (string, tea.Cmd) {
	parts, err := splitShellArgs(line)
	if err != nil {
		return formatter.Error(err), nil
	}
	if len(parts) == 0 {
		return "", nil
	}
	switch strings.ToLower(parts[0]) {
	case "exit", "quit":
		m.quitting = true
		return "", tea.Quit
	case "clear":
		return "\033[H\033[2J", nil
	case "help":
		return formatter.FormatShellHelp(), nil
	case "shell":
		return formatter.Warning("Already in the shell."), nil
	default:
		return m.execCobraCapture(parts), nil
	}
}

// execCobraCapture runs a command through the cobra tree and captures output.
func (m *shellModel) execCobraCapture(args []string) string {
	var buf strings.Builder
	root := NewRootCmd(m.app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		buf.WriteString(formatter.Error(err))
	}
	return strings.TrimRight(buf.String(), "\n")
}
