package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell with undo/redo keys and a live timeline",
		Long: `Start an interactive session. Commands are typed at the prompt as
they would be on the command line. Press esc to browse the timeline,
where ctrl+z undoes and ctrl+y redoes the last edit.

Queued edits are flushed when the shell exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, app)
		},
	}
}

// runShell runs the bubbletea program on a copy of app marked as in-shell;
// the outer command's post-run hook flushes once the shell exits.
func runShell(cmd *cobra.Command, app *App) error {
	shellApp := *app
	shellApp.inShell = true

	p := tea.NewProgram(newShellModel(&shellApp, defaultHistoryPath()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err := p.Run()
	return err
}
