package cli

import (
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"milestones", "ms"},
		Short:   "Manage milestones inside a project",
	}
	cmd.AddCommand(
		newMilestoneAddCmd(app),
		newMilestoneUpdateCmd(app),
		newMilestoneRemoveCmd(app),
	)
	return cmd
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var title, color, override string
	var tags []string
	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a milestone to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			start, err := dateFlag(cmd, "start")
			if err != nil {
				return err
			}
			end, err := dateFlag(cmd, "end")
			if err != nil {
				return err
			}
			m, err := app.Roadmap.AddMilestone(commandContext(cmd), p.ID, service.MilestoneInput{
				Title:               title,
				StartDate:           start,
				EndDate:             end,
				Tags:                tags,
				StatusColor:         color,
				ManualColorOverride: optionalString(override),
			})
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Added milestone %s to %s %s",
				formatter.Bold(m.Title), p.Title, formatter.Dim("("+formatter.ShortID(m.ID)+")"))))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "milestone title")
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringVar(&color, "color", "", "status color (#rrggbb)")
	cmd.Flags().StringVar(&override, "override", "", "manual color override (#rrggbb)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newMilestoneUpdateCmd(app *App) *cobra.Command {
	var clearOverride bool
	cmd := &cobra.Command{
		Use:   "update PROJECT MILESTONE",
		Short: "Change milestone fields; unset flags keep their value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			m, err := resolveMilestone(p, args[1])
			if err != nil {
				return err
			}
			patch := service.MilestonePatch{
				Title:               changedString(cmd, "title"),
				StatusColor:         changedString(cmd, "color"),
				ManualColorOverride: changedString(cmd, "override"),
				ClearColorOverride:  clearOverride,
			}
			if cmd.Flags().Changed("tags") {
				tags, _ := cmd.Flags().GetStringSlice("tags")
				patch.Tags = &tags
			}
			if patch.StartDate, err = changedDate(cmd, "start"); err != nil {
				return err
			}
			if patch.EndDate, err = changedDate(cmd, "end"); err != nil {
				return err
			}
			updated, err := app.Roadmap.UpdateMilestone(commandContext(cmd), p.ID, m.ID, patch)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Updated milestone "+formatter.Bold(updated.Title)))
			return nil
		},
	}
	cmd.Flags().String("title", "", "new title")
	cmd.Flags().String("start", "", "new start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "new end date (YYYY-MM-DD)")
	cmd.Flags().StringSlice("tags", nil, "replace tags (comma-separated; empty clears)")
	cmd.Flags().String("color", "", "new status color (#rrggbb)")
	cmd.Flags().String("override", "", "manual color override (#rrggbb)")
	cmd.Flags().BoolVar(&clearOverride, "clear-override", false, "remove the manual color override")
	cmd.MarkFlagsMutuallyExclusive("override", "clear-override")
	return cmd
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PROJECT MILESTONE",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a milestone and the dependencies naming it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			m, err := resolveMilestone(p, args[1])
			if err != nil {
				return err
			}
			if err := app.Roadmap.DeleteMilestone(commandContext(cmd), p.ID, m.ID); err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Deleted milestone %s from %s", formatter.Bold(m.Title), p.Title)))
			return nil
		},
	}
}
