package layout

import (
	"sort"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
)

// Lane is one owner's band of the timeline.
type Lane struct {
	Key       string
	MemberID  string // empty for lanes keyed by an unmatched owner name
	OwnerName string
	Projects  []domain.Project
	Rows      Assignment
	Conflicts []Conflict
}

// ProjectInterval returns the stacking interval of p.
func ProjectInterval(p domain.Project) Interval {
	return Interval{ID: p.ID, Start: p.StartDate, End: p.EndDate}
}

// MilestoneInterval returns the stacking interval of m.
func MilestoneInterval(m domain.Milestone) Interval {
	return Interval{ID: m.ID, Start: m.StartDate, End: m.EndDate}
}

// LaneKey resolves which lane p belongs to. OwnerID wins; otherwise a unique
// member with the same name claims the project; otherwise the project sits in
// a lane named after its Owner text.
func LaneKey(data domain.RoadmapData, p domain.Project) string {
	if p.OwnerID != "" {
		return "id:" + p.OwnerID
	}
	if named := data.MembersNamed(p.Owner); len(named) == 1 {
		return "id:" + named[0].ID
	}
	return domain.OwnerKey(p)
}

// ProjectLanes groups projects by owner and stacks each group. Lanes follow
// team member order (members without projects get an empty lane), then lanes
// for unmatched owners sorted by key.
func ProjectLanes(data domain.RoadmapData) []Lane {
	byKey := make(map[string]*Lane)
	var order []string

	for _, m := range data.TeamMembers {
		key := "id:" + m.ID
		byKey[key] = &Lane{Key: key, MemberID: m.ID, OwnerName: m.Name}
		order = append(order, key)
	}

	var orphanKeys []string
	for _, p := range data.Projects {
		key := LaneKey(data, p)
		lane, ok := byKey[key]
		if !ok {
			lane = &Lane{Key: key, OwnerName: data.OwnerName(p)}
			byKey[key] = lane
			orphanKeys = append(orphanKeys, key)
		}
		lane.Projects = append(lane.Projects, p)
	}
	sort.Strings(orphanKeys)
	order = append(order, orphanKeys...)

	lanes := make([]Lane, 0, len(order))
	for _, key := range order {
		lane := byKey[key]
		intervals := make([]Interval, len(lane.Projects))
		for i, p := range lane.Projects {
			intervals[i] = ProjectInterval(p)
		}
		lane.Rows = AssignRows(intervals)
		lane.Conflicts = Conflicts(intervals)
		lanes = append(lanes, *lane)
	}
	return lanes
}

// MilestoneRows stacks the milestones of a single project.
func MilestoneRows(p domain.Project) Assignment {
	intervals := make([]Interval, len(p.Milestones))
	for i, m := range p.Milestones {
		intervals[i] = MilestoneInterval(m)
	}
	return AssignRows(intervals)
}

// OwnerConflicts flattens the conflict warnings of every lane.
func OwnerConflicts(data domain.RoadmapData) []Conflict {
	var out []Conflict
	for _, lane := range ProjectLanes(data) {
		out = append(out, lane.Conflicts...)
	}
	return out
}
