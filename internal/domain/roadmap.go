package domain

import "slices"

// RoadmapData is the aggregate root and the unit of persistence.
//
// Values held in RoadmapData are never mutated in place: an update replaces
// the element in a freshly copied slice, so a RoadmapData handed out earlier
// keeps describing the state it was taken from.
type RoadmapData struct {
	Projects      []Project
	TeamMembers   []TeamMember
	Dependencies  []Dependency
	LeaveBlocks   []LeaveBlock
	PeriodMarkers []PeriodMarker
}

// Clone returns a deep copy of the aggregate.
func (d RoadmapData) Clone() RoadmapData {
	out := RoadmapData{
		TeamMembers: slices.Clone(d.TeamMembers),
	}
	if d.Projects != nil {
		out.Projects = make([]Project, len(d.Projects))
		for i, p := range d.Projects {
			out.Projects[i] = p.Clone()
		}
	}
	if d.Dependencies != nil {
		out.Dependencies = make([]Dependency, len(d.Dependencies))
		for i, dep := range d.Dependencies {
			out.Dependencies[i] = dep.Clone()
		}
	}
	if d.LeaveBlocks != nil {
		out.LeaveBlocks = make([]LeaveBlock, len(d.LeaveBlocks))
		for i, l := range d.LeaveBlocks {
			out.LeaveBlocks[i] = l.Clone()
		}
	}
	if d.PeriodMarkers != nil {
		out.PeriodMarkers = make([]PeriodMarker, len(d.PeriodMarkers))
		for i, m := range d.PeriodMarkers {
			out.PeriodMarkers[i] = m.Clone()
		}
	}
	return out
}

// ProjectIndex returns the index of the project with id, or -1.
func (d RoadmapData) ProjectIndex(id string) int {
	return slices.IndexFunc(d.Projects, func(p Project) bool { return p.ID == id })
}

// MemberIndex returns the index of the team member with id, or -1.
func (d RoadmapData) MemberIndex(id string) int {
	return slices.IndexFunc(d.TeamMembers, func(m TeamMember) bool { return m.ID == id })
}

// DependencyIndex returns the index of the dependency with id, or -1.
func (d RoadmapData) DependencyIndex(id string) int {
	return slices.IndexFunc(d.Dependencies, func(dep Dependency) bool { return dep.ID == id })
}

// LeaveIndex returns the index of the leave block with id, or -1.
func (d RoadmapData) LeaveIndex(id string) int {
	return slices.IndexFunc(d.LeaveBlocks, func(l LeaveBlock) bool { return l.ID == id })
}

// PeriodIndex returns the index of the period marker with id, or -1.
func (d RoadmapData) PeriodIndex(id string) int {
	return slices.IndexFunc(d.PeriodMarkers, func(m PeriodMarker) bool { return m.ID == id })
}

// MembersNamed returns every member whose name equals name.
func (d RoadmapData) MembersNamed(name string) []TeamMember {
	var out []TeamMember
	for _, m := range d.TeamMembers {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// OwnerName resolves the display name of p's owner: the live member name when
// OwnerID still resolves, otherwise the cached Owner text.
func (d RoadmapData) OwnerName(p Project) string {
	if p.OwnerID != "" {
		if i := d.MemberIndex(p.OwnerID); i >= 0 {
			return CoalesceStr(d.TeamMembers[i].Name, p.Owner)
		}
	}
	return p.Owner
}

// OwnerKey is the lane grouping key for p: "id:<OwnerID>" when the project
// references a member by id, else "name:<Owner>".
func OwnerKey(p Project) string {
	if p.OwnerID != "" {
		return "id:" + p.OwnerID
	}
	return "name:" + p.Owner
}

// HasMilestone reports whether projectID exists and contains milestoneID.
func (d RoadmapData) HasMilestone(projectID, milestoneID string) bool {
	i := d.ProjectIndex(projectID)
	if i < 0 {
		return false
	}
	return d.Projects[i].MilestoneIndex(milestoneID) >= 0
}

// Insert returns a copy of s with v inserted at index i. An out-of-range
// index appends.
func Insert[T any](s []T, i int, v T) []T {
	if i < 0 || i > len(s) {
		i = len(s)
	}
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// Replace returns a copy of s with element i replaced by v.
func Replace[T any](s []T, i int, v T) []T {
	out := slices.Clone(s)
	out[i] = v
	return out
}

// Remove returns a copy of s without element i. Removing the last element
// yields nil, matching a collection that was never populated.
func Remove[T any](s []T, i int) []T {
	if len(s) <= 1 {
		return nil
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
