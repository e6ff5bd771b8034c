package layout

// Conflict is a pair of same-lane intervals whose date ranges touch.
// A is the interval that sorts first by (start, end).
type Conflict struct {
	A Interval
	B Interval
}

// Overlaps reports whether a and b share at least one calendar day.
// Same-day adjacency (a.End == b.Start) counts as an overlap here, unlike the
// strict rule AssignRows uses for row reuse.
func Overlaps(a, b Interval) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// Conflicts returns every overlapping pair among items. Pairs are ordered by
// the (start, end) position of their first member, then of their second.
func Conflicts(items []Interval) []Conflict {
	sorted := sortedIntervals(items)
	var out []Conflict
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			// Sorted by start: once b starts after a ends nothing later can touch a.
			if sorted[j].Start.After(sorted[i].End) {
				break
			}
			if Overlaps(sorted[i], sorted[j]) {
				out = append(out, Conflict{A: sorted[i], B: sorted[j]})
			}
		}
	}
	return out
}
