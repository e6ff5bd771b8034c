package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShellDriver(t *testing.T, initial domain.RoadmapData) (*teatest.Driver, *App) {
	t.Helper()
	app, _ := testApp(t, initial)
	app.inShell = true
	m := newShellModel(app, filepath.Join(t.TempDir(), "history"))
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return d, app
}

func shellState(t *testing.T, d *teatest.Driver) shellModel {
	t.Helper()
	m, ok := d.Model.(shellModel)
	require.True(t, ok)
	return m
}

func TestShell_RunsCommands(t *testing.T) {
	d, app := newShellDriver(t, domain.RoadmapData{})

	d.Run(`member add --name "Ada Lovelace"`)
	require.Len(t, app.Roadmap.Data().TeamMembers, 1)
	assert.Equal(t, "Ada Lovelace", app.Roadmap.Data().TeamMembers[0].Name)
	assert.Contains(t, shellState(t, d).lastOutput, "Added Ada Lovelace")
	assert.Contains(t, d.Output(), "Added Ada Lovelace")
}

func TestShell_CommandErrorIsPrinted(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})

	d.Run("project show nothing")
	assert.Contains(t, shellState(t, d).lastOutput, "Error:")
	assert.False(t, d.Quitting)
}

func TestShell_UnterminatedQuote(t *testing.T) {
	d, app := newShellDriver(t, domain.RoadmapData{})

	d.Run(`member add --name "Ada`)
	assert.Contains(t, shellState(t, d).lastOutput, errUnterminatedQuote.Error())
	assert.Empty(t, app.Roadmap.Data().TeamMembers)
}

func TestShell_UndoKeysIgnoredWhileTyping(t *testing.T) {
	d, app := newShellDriver(t, domain.RoadmapData{})
	d.Run("member add --name Ada")
	require.Len(t, app.Roadmap.Data().TeamMembers, 1)

	d.Type("member list")
	d.PressCtrl(tea.KeyCtrlZ)
	d.PressAlt('z')
	d.PressCtrl(tea.KeyCtrlY)

	assert.Len(t, app.Roadmap.Data().TeamMembers, 1, "undo must not fire with the prompt focused")
	assert.Equal(t, "member list", shellState(t, d).input.Value())
}

func TestShell_UndoRedoFromTimeline(t *testing.T) {
	d, app := newShellDriver(t, domain.RoadmapData{})
	d.Run("member add --name Ada")
	require.Len(t, app.Roadmap.Data().TeamMembers, 1)

	d.PressEsc()
	assert.Equal(t, focusTimeline, shellState(t, d).focus)

	d.PressCtrl(tea.KeyCtrlZ)
	assert.Empty(t, app.Roadmap.Data().TeamMembers)
	assert.Contains(t, shellState(t, d).lastOutput, "Undone.")

	d.PressCtrl(tea.KeyCtrlY)
	assert.Len(t, app.Roadmap.Data().TeamMembers, 1)
	assert.Contains(t, shellState(t, d).lastOutput, "Redone.")

	d.PressAlt('z')
	assert.Empty(t, app.Roadmap.Data().TeamMembers)
	d.PressAlt('Z')
	assert.Len(t, app.Roadmap.Data().TeamMembers, 1)

	d.PressCtrl(tea.KeyCtrlY)
	assert.Contains(t, shellState(t, d).lastOutput, "Nothing to redo.")
}

func TestShell_TimelineViewAndRefocus(t *testing.T) {
	d, _ := newShellDriver(t, seededData())

	d.PressEsc()
	view := d.View()
	assert.Contains(t, view, "TIMELINE")
	assert.Contains(t, view, "ctrl+z undo")

	d.PressKey('i')
	m := shellState(t, d)
	assert.Equal(t, focusInput, m.focus)
	assert.Empty(t, m.input.Value(), "the refocus key is not typed")
	assert.Contains(t, d.View(), promptPrefix)
}

func TestShell_QuitFromTimeline(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})

	d.PressEsc()
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestShell_TypingQDoesNotQuit(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})

	d.Type("q")
	assert.False(t, d.Quitting)
	assert.Equal(t, "q", shellState(t, d).input.Value())
}

func TestShell_ExitCommand(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})

	d.Run("exit")
	assert.True(t, d.Quitting)
}

func TestShell_HistoryNavigation(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})
	d.Run("member list")
	d.Run("conflicts")

	d.PressUp()
	assert.Equal(t, "conflicts", shellState(t, d).input.Value())
	d.PressUp()
	assert.Equal(t, "member list", shellState(t, d).input.Value())
	d.PressDown()
	assert.Equal(t, "conflicts", shellState(t, d).input.Value())
	d.PressDown()
	assert.Empty(t, shellState(t, d).input.Value())
}

func TestShell_HelpAndNestedShell(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})

	d.Run("help")
	assert.Contains(t, shellState(t, d).lastOutput, "COMMANDS")

	d.Run("shell")
	assert.Contains(t, shellState(t, d).lastOutput, "Already in the shell.")
}

func TestShell_OfflineEditShowsInStatusLine(t *testing.T) {
	app, store := testApp(t, domain.RoadmapData{})
	app.inShell = true
	store.SetUnreachable(true)
	m := newShellModel(app, "")
	d := teatest.New(t, m)
	d.DrainInit()

	d.Run("member add --name Ada")
	assert.Contains(t, d.View(), "offline")
}

func TestShell_WelcomeIsPrinted(t *testing.T) {
	d, _ := newShellDriver(t, domain.RoadmapData{})
	assert.Contains(t, d.Output(), "roadmap")
}

// --- splitShellArgs ---

func TestSplitShellArgs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "project show Search", []string{"project", "show", "Search"}},
		{"extra spaces", "  member   list  ", []string{"member", "list"}},
		{"double quotes", `member add --name "Ada Lovelace"`, []string{"member", "add", "--name", "Ada Lovelace"}},
		{"single quotes literal", `period add --label 'a \n b'`, []string{"period", "add", "--label", `a \n b`}},
		{"escaped space", `project show Big\ Bang`, []string{"project", "show", "Big Bang"}},
		{"escape in double quotes", `x "say \"hi\""`, []string{"x", `say "hi"`}},
		{"empty quoted word", `member rename Ada --title ""`, []string{"member", "rename", "Ada", "--title", ""}},
		{"adjacent quotes join", `a"b c"d`, []string{"ab cd"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitShellArgs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitShellArgs_Errors(t *testing.T) {
	_, err := splitShellArgs(`a "b`)
	assert.ErrorIs(t, err, errUnterminatedQuote)

	_, err = splitShellArgs(`a 'b`)
	assert.ErrorIs(t, err, errUnterminatedQuote)

	_, err = splitShellArgs(`a b\`)
	assert.ErrorIs(t, err, errUnterminatedEscape)
}

// --- shellHistory ---

func TestShellHistory_PersistsAndSkipsRepeats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")
	h := loadShellHistory(path)
	h.add("member list")
	h.add("member list")
	h.add("   ")
	h.add("conflicts")

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "member list\nconflicts\n", string(body))

	reloaded := loadShellHistory(path)
	assert.Equal(t, []string{"member list", "conflicts"}, reloaded.lines)
}

func TestShellHistory_KeepsMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	var b strings.Builder
	for i := 0; i < maxHistoryLines+20; i++ {
		b.WriteString("cmd ")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	h := loadShellHistory(path)
	assert.Len(t, h.lines, maxHistoryLines)
}

func TestShellHistory_PrevNextBounds(t *testing.T) {
	h := loadShellHistory("")
	_, ok := h.prev()
	assert.False(t, ok)
	assert.Empty(t, h.next())

	h.add("one")
	line, ok := h.prev()
	require.True(t, ok)
	assert.Equal(t, "one", line)
	_, ok = h.prev()
	assert.False(t, ok)
	assert.Empty(t, h.next())
}

func TestDefaultHistoryPath_UsesRoadmapHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROADMAP_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "shell_history"), defaultHistoryPath())
}
