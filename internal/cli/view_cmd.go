package cli

import (
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newLayoutCmd(app *App) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:     "layout",
		Aliases: []string{"timeline", "lanes"},
		Short:   "Show owner lanes with stacked project rows",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatLanes(app.Roadmap.Lanes(), width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", formatter.DefaultTimelineWidth, "timeline width in columns")
	return cmd
}

func newConflictsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List projects whose dates touch within one owner's lane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatConflicts(app.Roadmap.Data(), app.Roadmap.Conflicts()))
			return nil
		},
	}
}

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last edit of this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			had := app.Roadmap.CanUndo()
			applied, err := app.Roadmap.Undo(commandContext(cmd))
			if err != nil {
				return err
			}
			printLine(cmd, undoMessage(applied, had, "Undone.", "Nothing to undo."))
			return nil
		},
	}
}

func newRedoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone edit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			had := app.Roadmap.CanRedo()
			applied, err := app.Roadmap.Redo(commandContext(cmd))
			if err != nil {
				return err
			}
			printLine(cmd, undoMessage(applied, had, "Redone.", "Nothing to redo."))
			return nil
		},
	}
}

// undoMessage reports an undo or redo. had says whether the stack held a
// command before the call; a command that was popped but not applied no
// longer fit the roadmap and was skipped.
func undoMessage(applied, had bool, done, none string) string {
	switch {
	case applied:
		return formatter.Success(done)
	case had:
		return formatter.Warning("The last edit no longer applies and was skipped.")
	default:
		return formatter.Dim(none)
	}
}
