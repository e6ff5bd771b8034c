package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/layout"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTimelineWidth is the bar width used when the terminal width is unknown.
const DefaultTimelineWidth = 60

// timeline maps calendar days onto a fixed number of columns.
type timeline struct {
	start time.Time
	days  int
	width int
}

func newTimeline(start, end time.Time, width int) timeline {
	if width <= 0 {
		width = DefaultTimelineWidth
	}
	days := int(end.Sub(start).Hours()/24) + 1
	return timeline{start: start, days: max(days, 1), width: width}
}

// col returns the column of day t, clamped to the bar.
func (tl timeline) col(t time.Time) int {
	d := int(t.Sub(tl.start).Hours() / 24)
	c := d * tl.width / tl.days
	return min(max(c, 0), tl.width-1)
}

// span returns the first column and the length of [start, end]; every
// interval gets at least one cell.
func (tl timeline) span(start, end time.Time) (int, int) {
	from, to := tl.col(start), tl.col(end)
	return from, max(to-from+1, 1)
}

// FormatLanes renders one block per lane: the owner, then one bar per stack
// row with each project drawn in its effective color. Projects flagged in a
// conflict are marked with "!".
func FormatLanes(lanes []layout.Lane, width int) string {
	first, last, ok := laneBounds(lanes)
	if !ok {
		return Dim("No projects.")
	}
	tl := newTimeline(first, last, width)

	var b strings.Builder
	b.WriteString(Header("Timeline") + "\n")
	axis := domain.FormatDate(first)
	end := domain.FormatDate(last)
	gap := max(tl.width-lipgloss.Width(axis)-lipgloss.Width(end), 1)
	b.WriteString(Dim(axis+strings.Repeat(" ", gap)+end) + "\n")

	for _, lane := range lanes {
		b.WriteString(laneHeader(lane) + "\n")
		if len(lane.Projects) == 0 {
			b.WriteString("  " + Dim("(no projects)") + "\n")
			continue
		}
		flagged := conflictIDs(lane.Conflicts)
		for row := 0; row < lane.Rows.RowCount; row++ {
			bar, labels := renderRow(tl, lane, row, flagged)
			b.WriteString("  " + bar + "  " + strings.Join(labels, Dim(", ")) + "\n")
		}
	}
	return b.String()
}

func laneHeader(lane layout.Lane) string {
	name := Bold(lane.OwnerName)
	if lane.MemberID == "" {
		name += Dim(" (not on team)")
	}
	rows := "1 row"
	if lane.Rows.RowCount != 1 {
		rows = fmt.Sprintf("%d rows", lane.Rows.RowCount)
	}
	line := name + " " + Dim(rows)
	if n := len(lane.Conflicts); n > 0 {
		line += " " + StyleYellow.Render(fmt.Sprintf("%d conflict(s)", n))
	}
	return line
}

func renderRow(tl timeline, lane layout.Lane, row int, flagged map[string]bool) (string, []string) {
	var inRow []domain.Project
	for _, p := range lane.Projects {
		if r, ok := lane.Rows.Row(p.ID); ok && r == row {
			inRow = append(inRow, p)
		}
	}
	sort.SliceStable(inRow, func(i, j int) bool { return inRow[i].StartDate.Before(inRow[j].StartDate) })

	var bar strings.Builder
	labels := make([]string, 0, len(inRow))
	cursor := 0
	for _, p := range inRow {
		from, n := tl.span(p.StartDate, p.EndDate)
		if from < cursor {
			// Scaling can squeeze neighbours into the same cell.
			n -= cursor - from
			from = cursor
		}
		if n <= 0 || from >= tl.width {
			n = 0
		}
		bar.WriteString(strings.Repeat(" ", max(from-cursor, 0)))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.EffectiveColor()))
		bar.WriteString(style.Render(strings.Repeat("█", n)))
		cursor = max(cursor, from+n)

		label := p.Title
		if flagged[p.ID] {
			label = StyleYellow.Render("!" + label)
		}
		labels = append(labels, label)
	}
	bar.WriteString(strings.Repeat(" ", max(tl.width-cursor, 0)))
	return bar.String(), labels
}

func laneBounds(lanes []layout.Lane) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, lane := range lanes {
		for _, p := range lane.Projects {
			if !found || p.StartDate.Before(first) {
				first = p.StartDate
			}
			if !found || p.EndDate.After(last) {
				last = p.EndDate
			}
			found = true
		}
	}
	return first, last, found
}

func conflictIDs(conflicts []layout.Conflict) map[string]bool {
	ids := make(map[string]bool, len(conflicts)*2)
	for _, c := range conflicts {
		ids[c.A.ID] = true
		ids[c.B.ID] = true
	}
	return ids
}
