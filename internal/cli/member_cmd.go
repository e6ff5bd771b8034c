package cli

import (
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "member",
		Aliases: []string{"members", "team"},
		Short:   "Manage team members and lane order",
	}
	cmd.AddCommand(
		newMemberAddCmd(app),
		newMemberListCmd(app),
		newMemberRenameCmd(app),
		newMemberRemoveCmd(app),
		newMemberReorderCmd(app),
	)
	return cmd
}

func newMemberAddCmd(app *App) *cobra.Command {
	var name, title string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				if !app.interactive() {
					return requireFlags(cmd, "name")
				}
				if err := promptMember(&name, &title); err != nil {
					return err
				}
			}
			m, err := app.Roadmap.AddTeamMember(commandContext(cmd), service.MemberInput{Name: name, JobTitle: title})
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Added %s %s", formatter.Bold(m.Name), formatter.Dim("("+formatter.ShortID(m.ID)+")"))))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "member name")
	cmd.Flags().StringVar(&title, "title", "", "job title")
	return cmd
}

func newMemberListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List team members in lane order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatMembers(app.Roadmap.Data()))
			return nil
		},
	}
}

func newMemberRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename MEMBER",
		Short: "Change a member's name or job title",
		Long: `Change a member's name or job title. Projects linked to the member
follow the new name; projects that only carry the old name as text do not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolveMember(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			in := service.MemberInput{Name: m.Name, JobTitle: m.JobTitle}
			if v := changedString(cmd, "name"); v != nil {
				in.Name = *v
			}
			if v := changedString(cmd, "title"); v != nil {
				in.JobTitle = *v
			}
			updated, err := app.Roadmap.UpdateTeamMember(commandContext(cmd), m.ID, in)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Updated "+formatter.Bold(updated.Name)))
			return nil
		},
	}
	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("title", "", "new job title")
	cmd.MarkFlagsOneRequired("name", "title")
	return cmd
}

func newMemberRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm MEMBER",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a team member and their leave",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolveMember(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			if !yes && app.interactive() {
				ok, err := confirm(fmt.Sprintf("Remove %s? Their projects stay, unlinked.", m.Name))
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Roadmap.DeleteTeamMember(commandContext(cmd), m.ID); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Removed "+formatter.Bold(m.Name)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newMemberReorderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reorder MEMBER...",
		Short: "Set the lane order; every member must be listed once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Roadmap.Data()
			ids := make([]string, 0, len(args))
			for _, ref := range args {
				m, err := resolveMember(data, ref)
				if err != nil {
					return err
				}
				ids = append(ids, m.ID)
			}
			if err := app.Roadmap.ReorderTeamMembers(commandContext(cmd), ids); err != nil {
				return err
			}
			printLine(cmd, formatter.FormatMembers(app.Roadmap.Data()))
			return nil
		},
	}
}
