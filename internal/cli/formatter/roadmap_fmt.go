package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/layout"
)

// DateRange renders "2025-03-01 → 2025-03-09".
func DateRange(start, end time.Time) string {
	return domain.FormatDate(start) + " → " + domain.FormatDate(end)
}

// FormatMembers renders the team in lane order.
func FormatMembers(data domain.RoadmapData) string {
	if len(data.TeamMembers) == 0 {
		return Dim("No team members.")
	}
	owned := make(map[string]int)
	for _, p := range data.Projects {
		owned[layout.LaneKey(data, p)]++
	}
	rows := make([][]string, 0, len(data.TeamMembers))
	for _, m := range data.TeamMembers {
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.Order),
			Dim(ShortID(m.ID)),
			Bold(m.Name),
			m.JobTitle,
			fmt.Sprintf("%d", owned["id:"+m.ID]),
		})
	}
	return Header("Team") + "\n" + RenderTable([]string{"#", "ID", "NAME", "TITLE", "PROJECTS"}, rows)
}

// FormatProjects renders every project with its owner and dates.
func FormatProjects(data domain.RoadmapData) string {
	if len(data.Projects) == 0 {
		return Dim("No projects.")
	}
	rows := make([][]string, 0, len(data.Projects))
	for _, p := range data.Projects {
		owner := data.OwnerName(p)
		if p.OwnerID == "" {
			owner += Dim(" (unlinked)")
		}
		rows = append(rows, []string{
			Dim(ShortID(p.ID)),
			Bold(p.Title),
			owner,
			DateRange(p.StartDate, p.EndDate),
			fmt.Sprintf("%d", len(p.Milestones)),
			Swatch(p.EffectiveColor()),
		})
	}
	return Header("Projects") + "\n" +
		RenderTable([]string{"ID", "TITLE", "OWNER", "DATES", "MILESTONES", "COLOR"}, rows)
}

// FormatProject renders one project and its stacked milestones.
func FormatProject(data domain.RoadmapData, p domain.Project) string {
	var b strings.Builder
	b.WriteString(Header(p.Title) + "\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("ID:     "), p.ID)
	fmt.Fprintf(&b, "%s %s\n", Dim("Owner:  "), data.OwnerName(p))
	fmt.Fprintf(&b, "%s %s\n", Dim("Dates:  "), DateRange(p.StartDate, p.EndDate))
	fmt.Fprintf(&b, "%s %s\n", Dim("Color:  "), Swatch(p.EffectiveColor()))
	if len(p.Milestones) == 0 {
		return b.String()
	}

	rows := layout.MilestoneRows(p)
	table := make([][]string, 0, len(p.Milestones))
	for _, m := range p.Milestones {
		row, _ := rows.Row(m.ID)
		table = append(table, []string{
			Dim(ShortID(m.ID)),
			m.Title,
			DateRange(m.StartDate, m.EndDate),
			fmt.Sprintf("%d", row),
			strings.Join(m.Tags, ", "),
		})
	}
	b.WriteString("\n" + RenderTable([]string{"ID", "MILESTONE", "DATES", "ROW", "TAGS"}, table))
	return b.String()
}

// EndpointLabel renders a dependency endpoint as "Project" or
// "Project / Milestone", falling back to ids for dangling references.
func EndpointLabel(data domain.RoadmapData, ep depgraph.Endpoint) string {
	i := data.ProjectIndex(ep.ProjectID)
	if i < 0 {
		return ep.String()
	}
	p := data.Projects[i]
	if ep.MilestoneID == "" {
		return p.Title
	}
	if j := p.MilestoneIndex(ep.MilestoneID); j >= 0 {
		return p.Title + " / " + p.Milestones[j].Title
	}
	return p.Title + " / " + ep.MilestoneID
}

// FormatDependencies renders the edge list.
func FormatDependencies(data domain.RoadmapData) string {
	if len(data.Dependencies) == 0 {
		return Dim("No dependencies.")
	}
	rows := make([][]string, 0, len(data.Dependencies))
	for _, d := range data.Dependencies {
		rows = append(rows, []string{
			Dim(ShortID(d.ID)),
			EndpointLabel(data, depgraph.From(d)),
			StyleDim.Render("→"),
			EndpointLabel(data, depgraph.To(d)),
			fmt.Sprintf("%d", len(d.Waypoints)),
		})
	}
	return Header("Dependencies") + "\n" +
		RenderTable([]string{"ID", "FROM", "", "TO", "WAYPOINTS"}, rows)
}

// FormatLeaves renders leave blocks with the member they belong to.
func FormatLeaves(data domain.RoadmapData) string {
	if len(data.LeaveBlocks) == 0 {
		return Dim("No leave booked.")
	}
	rows := make([][]string, 0, len(data.LeaveBlocks))
	for _, l := range data.LeaveBlocks {
		member := l.MemberID
		if i := data.MemberIndex(l.MemberID); i >= 0 {
			member = data.TeamMembers[i].Name
		}
		rows = append(rows, []string{
			Dim(ShortID(l.ID)),
			member,
			DateRange(l.StartDate, l.EndDate),
			string(l.Type),
			string(l.Coverage),
			domain.StrValue(l.Label),
		})
	}
	return Header("Leave") + "\n" +
		RenderTable([]string{"ID", "MEMBER", "DATES", "TYPE", "COVERAGE", "LABEL"}, rows)
}

// FormatPeriods renders period markers.
func FormatPeriods(data domain.RoadmapData) string {
	if len(data.PeriodMarkers) == 0 {
		return Dim("No period markers.")
	}
	rows := make([][]string, 0, len(data.PeriodMarkers))
	for _, m := range data.PeriodMarkers {
		rows = append(rows, []string{
			Dim(ShortID(m.ID)),
			DateRange(m.StartDate, m.EndDate),
			PeriodSwatch(m.Color),
			domain.StrValue(m.Label),
		})
	}
	return Header("Periods") + "\n" + RenderTable([]string{"ID", "DATES", "COLOR", "LABEL"}, rows)
}

// FormatConflicts renders same-owner overlap warnings, naming projects by
// title where they still resolve.
func FormatConflicts(data domain.RoadmapData, conflicts []layout.Conflict) string {
	if len(conflicts) == 0 {
		return StyleGreen.Render("No owner conflicts.")
	}
	title := func(id string) string {
		if i := data.ProjectIndex(id); i >= 0 {
			return data.Projects[i].Title
		}
		return id
	}
	owner := func(id string) string {
		if i := data.ProjectIndex(id); i >= 0 {
			return data.OwnerName(data.Projects[i])
		}
		return ""
	}
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, []string{
			owner(c.A.ID),
			StyleYellow.Render(title(c.A.ID)),
			DateRange(c.A.Start, c.A.End),
			StyleYellow.Render(title(c.B.ID)),
			DateRange(c.B.Start, c.B.End),
		})
	}
	return Header(fmt.Sprintf("Conflicts (%d)", len(conflicts))) + "\n" +
		RenderTable([]string{"OWNER", "PROJECT", "DATES", "OVERLAPS", "DATES"}, rows)
}
