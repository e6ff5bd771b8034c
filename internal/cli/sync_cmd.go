package cli

import (
	"context"
	"errors"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/repository"
	"github.com/spf13/cobra"
)

// probeTimeout bounds a single reachability check.
const probeTimeout = 3 * time.Second

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect or retry persistence to the shared store",
	}
	cmd.AddCommand(newSyncStatusCmd(app), newSyncPushCmd(app))
	return cmd
}

// storeInfo fetches document metadata, returning nil when there is no
// inspector, no stored document yet, or the store cannot be read.
func storeInfo(ctx context.Context, app *App) *repository.DocumentInfo {
	if app.Store == nil {
		return nil
	}
	info, err := app.Store.Info(ctx)
	if err != nil {
		return nil
	}
	return &info
}

func newSyncStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connectivity, queued changes and the stored revision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(commandContext(cmd), probeTimeout)
			defer cancel()
			_ = app.Sync.Probe(ctx)
			printLine(cmd, formatter.FormatSyncStatus(app.Sync.Status(), storeInfo(ctx, app)))
			return nil
		},
	}
}

func newSyncPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Check the store and write any queued changes now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(commandContext(cmd), flushTimeout)
			defer cancel()

			if err := app.Sync.Probe(ctx); err != nil {
				return errors.Join(reconcile.ErrOffline, err)
			}
			if err := app.Sync.Flush(ctx); err != nil {
				return err
			}
			_ = app.Sync.TakeError()
			printLine(cmd, formatter.Success("Roadmap saved."))
			return nil
		},
	}
}
