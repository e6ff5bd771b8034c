package cli

import (
	"errors"
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectMoveCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

// ownerFields maps --owner onto the service input. A reference to a team
// member links the project by id; anything else is kept as the owner name.
func ownerFields(data domain.RoadmapData, ref string) (owner, ownerID string, err error) {
	m, err := resolveMember(data, ref)
	switch {
	case err == nil:
		return m.Name, m.ID, nil
	case errors.Is(err, domain.ErrNotFound):
		return ref, "", nil
	default:
		return "", "", err
	}
}

func newProjectAddCmd(app *App) *cobra.Command {
	var title, owner, start, end, color, override string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Roadmap.Data()
			if title == "" || owner == "" || start == "" || end == "" {
				if !app.interactive() {
					return requireFlags(cmd, "title", "owner", "start", "end")
				}
				if err := promptProject(data, &title, &owner, &start, &end); err != nil {
					return err
				}
			}
			startDate, err := domain.ParseDate(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			endDate, err := domain.ParseDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			ownerName, ownerID, err := ownerFields(data, owner)
			if err != nil {
				return err
			}
			p, err := app.Roadmap.AddProject(commandContext(cmd), service.ProjectInput{
				Title:               title,
				Owner:               ownerName,
				OwnerID:             ownerID,
				StartDate:           startDate,
				EndDate:             endDate,
				StatusColor:         color,
				ManualColorOverride: optionalString(override),
			})
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Created project %s %s",
				formatter.Bold(p.Title), formatter.Dim("("+formatter.ShortID(p.ID)+")"))))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "project title")
	cmd.Flags().StringVar(&owner, "owner", "", "owning team member (name or id), or a free-text owner")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&color, "color", "", "status color (#rrggbb)")
	cmd.Flags().StringVar(&override, "override", "", "manual color override (#rrggbb)")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatProjects(app.Roadmap.Data()))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show PROJECT",
		Aliases: []string{"inspect"},
		Short:   "Show a project and its milestones",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Roadmap.Data()
			p, err := resolveProject(data, args[0])
			if err != nil {
				return err
			}
			printLine(cmd, formatter.FormatProject(data, p))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var clearOverride bool
	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Change project fields; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Roadmap.Data()
			p, err := resolveProject(data, args[0])
			if err != nil {
				return err
			}
			patch := service.ProjectPatch{
				Title:               changedString(cmd, "title"),
				StatusColor:         changedString(cmd, "color"),
				ManualColorOverride: changedString(cmd, "override"),
				ClearColorOverride:  clearOverride,
			}
			if ref := changedString(cmd, "owner"); ref != nil {
				owner, ownerID, err := ownerFields(data, *ref)
				if err != nil {
					return err
				}
				patch.Owner = &owner
				patch.OwnerID = &ownerID
			}
			if patch.StartDate, err = changedDate(cmd, "start"); err != nil {
				return err
			}
			if patch.EndDate, err = changedDate(cmd, "end"); err != nil {
				return err
			}
			updated, err := app.Roadmap.UpdateProject(commandContext(cmd), p.ID, patch)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Updated project "+formatter.Bold(updated.Title)))
			return nil
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("owner", "", "new owner (member name or id, or free text)")
	cmd.Flags().String("start", "", "new start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "new end date (YYYY-MM-DD)")
	cmd.Flags().String("color", "", "new status color (#rrggbb)")
	cmd.Flags().String("override", "", "manual color override (#rrggbb)")
	cmd.Flags().BoolVar(&clearOverride, "clear-override", false, "remove the manual color override")
	cmd.MarkFlagsMutuallyExclusive("override", "clear-override")
	return cmd
}

func newProjectMoveCmd(app *App) *cobra.Command {
	var days int
	var to string
	cmd := &cobra.Command{
		Use:   "move PROJECT",
		Short: "Shift a project and its milestones in time",
		Long: `Shift a project and its milestones by whole days, either relative
(--days -3) or so that the project starts on a given date (--to 2025-04-01).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			if to != "" {
				target, err := domain.ParseDate(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				days = daysBetween(p.StartDate, target)
			}
			moved, err := app.Roadmap.MoveProject(commandContext(cmd), p.ID, days)
			if err != nil {
				return err
			}
			if days == 0 {
				printLine(cmd, formatter.Dim("Nothing to move."))
				return nil
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Moved %s to %s",
				formatter.Bold(moved.Title), formatter.DateRange(moved.StartDate, moved.EndDate))))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "days to shift by (negative moves earlier)")
	cmd.Flags().StringVar(&to, "to", "", "new start date (YYYY-MM-DD)")
	cmd.MarkFlagsMutuallyExclusive("days", "to")
	cmd.MarkFlagsOneRequired("days", "to")
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm PROJECT",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a project, its milestones and their dependencies",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				ok, err := confirm(fmt.Sprintf("Delete %s and its dependencies?", p.Title))
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Roadmap.DeleteProject(commandContext(cmd), p.ID); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Deleted project "+formatter.Bold(p.Title)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
