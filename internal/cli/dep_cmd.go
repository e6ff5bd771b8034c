package cli

import (
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/cli/formatter"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"deps", "dependency"},
		Short:   "Manage dependencies between projects and milestones",
	}
	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepRouteCmd(app),
		newDepRemoveCmd(app),
	)
	return cmd
}

// resolveEndpoint resolves a project reference and an optional milestone
// reference inside it.
func resolveEndpoint(data domain.RoadmapData, projectRef, milestoneRef string) (depgraph.Endpoint, error) {
	p, err := resolveProject(data, projectRef)
	if err != nil {
		return depgraph.Endpoint{}, err
	}
	ep := depgraph.Endpoint{ProjectID: p.ID}
	if milestoneRef != "" {
		m, err := resolveMilestone(p, milestoneRef)
		if err != nil {
			return depgraph.Endpoint{}, err
		}
		ep.MilestoneID = m.ID
	}
	return ep, nil
}

func newDepAddCmd(app *App) *cobra.Command {
	var fromMilestone, toMilestone string
	cmd := &cobra.Command{
		Use:   "add FROM TO",
		Short: "Record that FROM must finish before TO",
		Long: `Record that FROM must finish before TO. Use --from-milestone and
--to-milestone to narrow either side to one milestone of its project.
Self-dependencies, duplicates and edges that would close a cycle are rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := app.Roadmap.Data()
			from, err := resolveEndpoint(data, args[0], fromMilestone)
			if err != nil {
				return err
			}
			to, err := resolveEndpoint(data, args[1], toMilestone)
			if err != nil {
				return err
			}
			d, err := app.Roadmap.AddDependency(commandContext(cmd), service.DependencyInput{
				FromProjectID:   from.ProjectID,
				FromMilestoneID: from.MilestoneID,
				ToProjectID:     to.ProjectID,
				ToMilestoneID:   to.MilestoneID,
			})
			if err != nil {
				return err
			}
			data = app.Roadmap.Data()
			printLine(cmd, formatter.Success(fmt.Sprintf("Added dependency %s → %s %s",
				formatter.EndpointLabel(data, depgraph.From(d)),
				formatter.EndpointLabel(data, depgraph.To(d)),
				formatter.Dim("("+formatter.ShortID(d.ID)+")"))))
			return nil
		},
	}
	cmd.Flags().StringVar(&fromMilestone, "from-milestone", "", "milestone of FROM")
	cmd.Flags().StringVar(&toMilestone, "to-milestone", "", "milestone of TO")
	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List dependencies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLine(cmd, formatter.FormatDependencies(app.Roadmap.Data()))
			return nil
		},
	}
}

func newDepRouteCmd(app *App) *cobra.Command {
	var points []string
	cmd := &cobra.Command{
		Use:   "route DEP",
		Short: "Set the waypoints an edge is drawn through (none clears them)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDependencyID(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			waypoints := make([]domain.Waypoint, 0, len(points))
			for _, p := range points {
				wp, err := parseWaypoint(p)
				if err != nil {
					return err
				}
				waypoints = append(waypoints, wp)
			}
			d, err := app.Roadmap.SetDependencyWaypoints(commandContext(cmd), id, waypoints)
			if err != nil {
				return err
			}
			printLine(cmd, formatter.Success(fmt.Sprintf("Routed %s through %d waypoint(s)", formatter.ShortID(d.ID), len(d.Waypoints))))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&points, "point", nil, "waypoint as x,y (repeatable)")
	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm DEP",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a dependency",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveDependencyID(app.Roadmap.Data(), args[0])
			if err != nil {
				return err
			}
			if err := app.Roadmap.DeleteDependency(commandContext(cmd), id); err != nil {
				return err
			}
			printLine(cmd, formatter.Success("Deleted dependency "+formatter.ShortID(id)))
			return nil
		},
	}
}
