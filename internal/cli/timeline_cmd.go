package cli

import (
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newLeaveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Manage leave blocks",
	}
	cmd.AddCommand(
		newLeaveAddCmd(app),
		newLeaveListCmd(app),
		newLeaveUpdateCmd(app),
		newLeaveRemoveCmd(app),
	)
	return cmd
}

func addLeaveFlags(cmd *cobra.Command) {
	cmd.Flags().String("member", "", "team member (name or id)")
	cmd.Flags().String("start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().String("type", "", "annual, sick, public-holiday, training or other (default annual)")
	cmd.Flags().String("coverage", "", "full, morning or afternoon (default full)")
	cmd.Flags().String("label", "", "free-text label")
}

// applyLeaveFlags overlays the flags that were set onto in.
func applyLeaveFlags(cmd *cobra.Command, data domain.RoadmapData, in *service.LeaveInput) error {
	if ref := changedString(cmd, "member"); ref != nil {
		m, err := resolveMember(data, *ref)
		if err != nil {
			return err
		}
		in.MemberID = m.ID
	}
	if t, err := changedDate(cmd, "start"); err != nil {
		return err
	} else if t != nil {
		in.StartDate = *t
	}
	if t, err := changedDate(cmd, "end"); err != nil {
		return err
	} else if t != nil {
		in.EndDate = *t
	}
	if v := changedString(cmd, "type"); v != nil {
		in.Type = domain.LeaveType(*v)
	}
	if v := changedString(cmd, "coverage"); v != nil {
		in.Coverage = domain.LeaveCoverage(*v)
	}
	if v := changedString(cmd, "label"); v != nil {
		in.Label = optionalString(*v)
	}
	return nil
}

func newLeaveAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Book leave for a team member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in service.LeaveInput
			if err := applyLeaveFlags(cmd, app.Roadmap.Data(), &in); err != nil {
				return err
			}
			l, err := app.Roadmap.AddLeaveBlock(commandContext(cmd), in)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Booked %s leave %s %s",
				l.Type, formatter.DateRange(l.StartDate, l.EndDate), formatter.Dim("("+formatter.ShortID(l.ID)+")"))))
			return nil
		},
	}
	addLeaveFlags(cmd)
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newLeaveListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List leave blocks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatLeaves(app.Roadmap.Data()))
			return nil
		},
	}
}

func newLeaveUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update LEAVE",
		Short: "Change a leave block; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Roadmap.Data()
			l, err := resolveLeave(data, args[0])
			if err != nil {
				return err
			}
			in := service.LeaveInput{
				MemberID:  l.MemberID,
				StartDate: l.StartDate,
				EndDate:   l.EndDate,
				Type:      l.Type,
				Coverage:  l.Coverage,
				Label:     l.Label,
			}
			if err := applyLeaveFlags(cmd, data, &in); err != nil {
				return err
			}
			if _, err := app.Roadmap.UpdateLeaveBlock(commandContext(cmd), l.ID, in); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Updated leave "+formatter.ShortID(l.ID)))
			return nil
		},
	}
	addLeaveFlags(cmd)
	return cmd
}

func newLeaveRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm LEAVE",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a leave block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := resolveLeave(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			if err := app.Roadmap.DeleteLeaveBlock(commandContext(cmd), l.ID); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Deleted leave "+formatter.ShortID(l.ID)))
			return nil
		},
	}
}

func newPeriodCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "period",
		Aliases: []string{"periods"},
		Short:   "Manage period markers across the timeline",
	}
	cmd.AddCommand(
		newPeriodAddCmd(app),
		newPeriodListCmd(app),
		newPeriodUpdateCmd(app),
		newPeriodRemoveCmd(app),
	)
	return cmd
}

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().String("color", "", "grey, yellow, orange, red, green, blue or purple (default grey)")
	cmd.Flags().String("label", "", "free-text label")
}

func applyPeriodFlags(cmd *cobra.Command, in *service.PeriodInput) error {
	if t, err := changedDate(cmd, "start"); err != nil {
		return err
	} else if t != nil {
		in.StartDate = *t
	}
	if t, err := changedDate(cmd, "end"); err != nil {
		return err
	} else if t != nil {
		in.EndDate = *t
	}
	if v := changedString(cmd, "color"); v != nil {
		in.Color = domain.PeriodColor(*v)
	}
	if v := changedString(cmd, "label"); v != nil {
		in.Label = optionalString(*v)
	}
	return nil
}

func newPeriodAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a period marker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in service.PeriodInput
			if err := applyPeriodFlags(cmd, &in); err != nil {
				return err
			}
			m, err := app.Roadmap.AddPeriodMarker(commandContext(cmd), in)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Added %s period %s %s",
				formatter.PeriodSwatch(m.Color), formatter.DateRange(m.StartDate, m.EndDate),
				formatter.Dim("("+formatter.ShortID(m.ID)+")"))))
			return nil
		},
	}
	addPeriodFlags(cmd)
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newPeriodListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List period markers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatPeriods(app.Roadmap.Data()))
			return nil
		},
	}
}

func newPeriodUpdateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update PERIOD",
		Short: "Change a period marker; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolvePeriod(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			in := service.PeriodInput{StartDate: m.StartDate, EndDate: m.EndDate, Color: m.Color, Label: m.Label}
			if err := applyPeriodFlags(cmd, &in); err != nil {
				return err
			}
			if _, err := app.Roadmap.UpdatePeriodMarker(commandContext(cmd), m.ID, in); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Updated period "+formatter.ShortID(m.ID)))
			return nil
		},
	}
	addPeriodFlags(cmd)
	return cmd
}

func newPeriodRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PERIOD",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a period marker",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolvePeriod(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			if err := app.Roadmap.DeletePeriodMarker(commandContext(cmd), m.ID); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Deleted period "+formatter.ShortID(m.ID)))
			return nil
		},
	}
}
