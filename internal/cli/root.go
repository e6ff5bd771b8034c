// Package cli is the roadmap command-line interface: one-shot cobra commands
// over the roadmap service, plus an interactive shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/config"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/repository"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/spf13/cobra"
)

// flushTimeout bounds how long a one-shot command waits for its edits to
// reach the store before exiting.
const flushTimeout = 15 * time.Second

// SyncController is the part of the reconciler the CLI drives.
type SyncController interface {
	Status() reconcile.Status
	TakeError() error
	Flush(ctx context.Context) error
	Probe(ctx context.Context) error
}

// StoreInspector reads the stored document and its metadata without going
// through the reconciler.
type StoreInspector interface {
	Read(ctx context.Context) ([]byte, error)
	Info(ctx context.Context) (repository.DocumentInfo, error)
}

// App holds everything CLI commands act on.
type App struct {
	Roadmap service.RoadmapService
	Sync    SyncController
	Store   StoreInspector // optional
	Config  *config.Config

	// IsInteractive reports whether prompts may be shown for missing input.
	IsInteractive func() bool

	// inShell suppresses the per-command flush; the shell syncs in the
	// background and reports through its status line.
	inShell bool
}

// interactive reports whether huh prompts may run. The shell owns the
// terminal, so prompts are never shown from inside it.
func (a *App) interactive() bool {
	return !a.inShell && a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "roadmap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "roadmap",
		Short:         "Team roadmap planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return flushAfterCommand(cmd, app)
		},
	}
	BindGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newMemberCmd(app),
		newProjectCmd(app),
		newMilestoneCmd(app),
		newDepCmd(app),
		newLeaveCmd(app),
		newPeriodCmd(app),
		newLayoutCmd(app),
		newConflictsCmd(app),
		newUndoCmd(app),
		newRedoCmd(app),
		newSyncCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newDoctorCmd(app),
		newShellCmd(app),
	)
	return root
}

// flushAfterCommand waits for queued edits so a one-shot command reports a
// failed write instead of exiting silently. Offline is not a failure: the
// edit stays in the outbox for the next run.
func flushAfterCommand(cmd *cobra.Command, app *App) error {
	if app.inShell || app.Sync == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(commandContext(cmd), flushTimeout)
	defer cancel()

	err := app.Sync.Flush(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, reconcile.ErrOffline):
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning("offline: changes are kept locally and will be saved on the next run"))
		return nil
	default:
		return fmt.Errorf("saving roadmap: %w", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printLine(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}
