package formatter

import "strings"

// FormatShellWelcome renders the banner shown when the shell starts.
func FormatShellWelcome(roadmapID string) string {
	return StylePurple.Render("roadmap") + " " + Dim("shell · "+roadmapID) + "\n" +
		Dim("Type help for commands, esc to browse the timeline, exit to quit.") + "\n"
}

// FormatShellHelp lists what can be typed at the shell prompt.
func FormatShellHelp() string {
	rows := [][]string{
		{"member add|list|rename|rm|reorder", "manage the team and lane order"},
		{"project add|list|show|update|move|rm", "manage projects"},
		{"milestone add|update|rm", "manage milestones inside a project"},
		{"dep add|rm|list", "manage dependencies"},
		{"leave add|rm|list", "manage leave blocks"},
		{"period add|rm|list", "manage period markers"},
		{"layout", "show the stacked timeline"},
		{"conflicts", "list owner overlaps"},
		{"undo / redo", "step through this session's edits"},
		{"sync status|push", "show or retry persistence"},
		{"export / import / doctor", "move and check whole roadmaps"},
		{"clear", "clear the screen"},
		{"exit", "leave the shell"},
	}
	var b strings.Builder
	b.WriteString(Header("Commands") + "\n")
	for i := range rows {
		rows[i][0] = StyleBlue.Render(rows[i][0])
		rows[i][1] = Dim(rows[i][1])
	}
	b.WriteString(RenderTable([]string{"COMMAND", "DESCRIPTION"}, rows))
	b.WriteString("\n" + Dim("Keys: esc browses the timeline, where ctrl+z / alt+z undo and ctrl+y / alt+shift+z redo; enter returns to the prompt") + "\n")
	return b.String()
}
