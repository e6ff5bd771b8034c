package domain

// Dependency is a directed edge "From must precede To". A non-empty milestone
// id narrows that endpoint from the whole project to one of its milestones.
type Dependency struct {
	ID              string
	FromProjectID   string `validate:"required"`
	ToProjectID     string `validate:"required"`
	FromMilestoneID string
	ToMilestoneID   string
	Waypoints       []Waypoint
}

// Waypoint is a presentation hint for routing an edge; it carries no meaning
// for the dependency graph.
type Waypoint struct {
	X float64
	Y float64
}

// SameEndpoints reports whether d and o connect the same four endpoints.
func (d Dependency) SameEndpoints(o Dependency) bool {
	return d.FromProjectID == o.FromProjectID &&
		d.ToProjectID == o.ToProjectID &&
		d.FromMilestoneID == o.FromMilestoneID &&
		d.ToMilestoneID == o.ToMilestoneID
}

// Clone returns a copy that shares no waypoint storage with d.
func (d Dependency) Clone() Dependency {
	out := d
	if d.Waypoints != nil {
		out.Waypoints = append([]Waypoint(nil), d.Waypoints...)
	}
	return out
}
