// Package layout derives the timeline's lane layout from date intervals.
//
// Two overlap rules live here on purpose. Row assignment treats intervals as
// compatible when the earlier one ends strictly before the later one starts,
// so a project ending on the 5th and one starting on the 5th cannot share a
// row but one starting on the 6th can. Conflict detection flags any pair whose
// closed ranges touch (a.start <= b.end && a.end >= b.start), which also warns
// about same-day hand-offs that still render compactly.
package layout

import (
	"sort"
	"time"
)

// Interval is a closed calendar-date range identified by ID.
type Interval struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Assignment maps interval ids to 0-based stack rows.
type Assignment struct {
	Rows     map[string]int
	RowCount int
}

// Row returns the row assigned to id and whether id was part of the input.
func (a Assignment) Row(id string) (int, bool) {
	r, ok := a.Rows[id]
	return r, ok
}

// AssignRows assigns each interval the lowest-index row whose last end is
// strictly before the interval's start, opening a new row when none
// qualifies. Items are placed in (start, end) order; ties keep input order,
// so identical input always yields identical rows.
//
// First-fit over start-sorted intervals is optimal for interval graphs: the
// row count equals the largest set of mutually overlapping intervals.
func AssignRows(items []Interval) Assignment {
	sorted := sortedIntervals(items)

	a := Assignment{Rows: make(map[string]int, len(items))}
	var rowEnds []time.Time
	for _, it := range sorted {
		row := -1
		for r, end := range rowEnds {
			if end.Before(it.Start) {
				row = r
				break
			}
		}
		if row < 0 {
			row = len(rowEnds)
			rowEnds = append(rowEnds, it.End)
		} else {
			rowEnds[row] = it.End
		}
		a.Rows[it.ID] = row
	}
	a.RowCount = len(rowEnds)
	return a
}

// MaxOverlap returns the size of the largest set of intervals that are
// pairwise overlapping under the row-sharing rule. AssignRows always uses
// exactly this many rows.
func MaxOverlap(items []Interval) int {
	type event struct {
		at    time.Time
		delta int
	}
	events := make([]event, 0, len(items)*2)
	for _, it := range items {
		events = append(events, event{at: it.Start, delta: 1})
		// Closed interval: it stops occupying its row after its end day.
		events = append(events, event{at: it.End.AddDate(0, 0, 1), delta: -1})
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].delta < events[j].delta
	})

	best, cur := 0, 0
	for _, e := range events {
		cur += e.delta
		if cur > best {
			best = cur
		}
	}
	return best
}

func sortedIntervals(items []Interval) []Interval {
	sorted := make([]Interval, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].End.Before(sorted[j].End)
	})
	return sorted
}
