package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
)

// errForeignPayload marks an undo/redo payload that does not belong to its
// command type.
var errForeignPayload = errors.New("payload does not match command type")

// payload is a self-contained command half. Applying it never reads state
// beyond what it needs to locate its targets, and never mutates data in
// place.
type payload interface {
	apply(data domain.RoadmapData) (domain.RoadmapData, error)
	entity() string
}

// commandEntities maps each command type to the entity its payloads touch.
var commandEntities = map[history.CommandType]string{
	history.CreateProject:   "project",
	history.UpdateProject:   "project",
	history.DeleteProject:   "project",
	history.MoveProject:     "project",
	history.CreateMilestone: "milestone",
	history.UpdateMilestone: "milestone",
	history.DeleteMilestone: "milestone",
	history.CreateMember:    "member",
	history.UpdateMember:    "member",
	history.DeleteMember:    "member",
	history.ReorderMembers:  "member-order",
	history.CreateDep:       "dependency",
	history.UpdateDep:       "dependency",
	history.DeleteDep:       "dependency",
	history.CreateLeave:     "leave",
	history.UpdateLeave:     "leave",
	history.DeleteLeave:     "leave",
	history.CreatePeriod:    "period",
	history.UpdatePeriod:    "period",
	history.DeletePeriod:    "period",
	ReplaceRoadmap:          "roadmap",
}

// ReplaceRoadmap records a whole-document import.
const ReplaceRoadmap history.CommandType = "replace-roadmap"

// checkPayload validates the dynamic shape of a recorded payload.
func checkPayload(typ history.CommandType, raw any) (payload, error) {
	p, ok := raw.(payload)
	if !ok {
		return nil, fmt.Errorf("%w: %s carries %T", errForeignPayload, typ, raw)
	}
	want, known := commandEntities[typ]
	if !known || p.entity() != want {
		return nil, fmt.Errorf("%w: %s carries %s payload", errForeignPayload, typ, p.entity())
	}
	return p, nil
}

// indexed remembers where a removed element sat so a restore puts it back.
type indexed[T any] struct {
	Index int
	Value T
}

// restoreAll re-inserts removed elements in ascending index order, which
// rebuilds the original ordering. Elements already present are left alone.
func restoreAll[T any](s []T, items []indexed[T], present func([]T, T) bool) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b indexed[T]) int { return a.Index - b.Index })
	for _, it := range sorted {
		if !present(s, it.Value) {
			s = domain.Insert(s, it.Index, it.Value)
		}
	}
	return s
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
}

// --- projects ---

type projectPut struct {
	Project      domain.Project
	Index        int
	Dependencies []indexed[domain.Dependency] // restored alongside a deleted project
}

func (projectPut) entity() string { return "project" }

func (p projectPut) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	if i := data.ProjectIndex(p.Project.ID); i >= 0 {
		data.Projects = domain.Replace(data.Projects, i, p.Project.Clone())
	} else {
		data.Projects = domain.Insert(data.Projects, p.Index, p.Project.Clone())
	}
	data.Dependencies = restoreAll(data.Dependencies, p.Dependencies, hasDependency)
	return data, nil
}

type projectDelete struct{ ID string }

func (projectDelete) entity() string { return "project" }

func (p projectDelete) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	i := data.ProjectIndex(p.ID)
	if i < 0 {
		return data, notFound("project", p.ID)
	}
	affected := depgraph.AffectedDependencies(data.Dependencies, p.ID, "")
	data.Dependencies = depgraph.Prune(data.Dependencies, affected)
	data.Projects = domain.Remove(data.Projects, i)
	return data, nil
}

// --- milestones ---

type milestonePut struct {
	ProjectID    string
	Milestone    domain.Milestone
	Index        int
	Dependencies []indexed[domain.Dependency]
}

func (milestonePut) entity() string { return "milestone" }

func (p milestonePut) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	pi := data.ProjectIndex(p.ProjectID)
	if pi < 0 {
		return data, notFound("project", p.ProjectID)
	}
	proj := data.Projects[pi].Clone()
	if mi := proj.MilestoneIndex(p.Milestone.ID); mi >= 0 {
		proj.Milestones = domain.Replace(proj.Milestones, mi, p.Milestone.Clone())
	} else {
		proj.Milestones = domain.Insert(proj.Milestones, p.Index, p.Milestone.Clone())
	}
	data.Projects = domain.Replace(data.Projects, pi, proj)
	data.Dependencies = restoreAll(data.Dependencies, p.Dependencies, hasDependency)
	return data, nil
}

type milestoneDelete struct{ ProjectID, MilestoneID string }

func (milestoneDelete) entity() string { return "milestone" }

func (p milestoneDelete) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	pi := data.ProjectIndex(p.ProjectID)
	if pi < 0 {
		return data, notFound("project", p.ProjectID)
	}
	proj := data.Projects[pi].Clone()
	mi := proj.MilestoneIndex(p.MilestoneID)
	if mi < 0 {
		return data, notFound("milestone", p.MilestoneID)
	}
	proj.Milestones = domain.Remove(proj.Milestones, mi)
	data.Projects = domain.Replace(data.Projects, pi, proj)
	affected := depgraph.AffectedDependencies(data.Dependencies, p.ProjectID, p.MilestoneID)
	data.Dependencies = depgraph.Prune(data.Dependencies, affected)
	return data, nil
}

// --- team members ---

// ownerRef records a project whose OwnerID pointed at a deleted member.
type ownerRef struct {
	ProjectID string
	OwnerID   string
}

type memberPut struct {
	Member domain.TeamMember
	Index  int
	Leaves []indexed[domain.LeaveBlock]
	Owned  []ownerRef
}

func (memberPut) entity() string { return "member" }

func (p memberPut) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	if i := data.MemberIndex(p.Member.ID); i >= 0 {
		data.TeamMembers = domain.Replace(data.TeamMembers, i, p.Member)
	} else {
		data.TeamMembers = domain.Insert(data.TeamMembers, p.Index, p.Member)
	}
	data.LeaveBlocks = restoreAll(data.LeaveBlocks, p.Leaves, func(s []domain.LeaveBlock, l domain.LeaveBlock) bool {
		return slices.ContainsFunc(s, func(x domain.LeaveBlock) bool { return x.ID == l.ID })
	})
	for _, ref := range p.Owned {
		if i := data.ProjectIndex(ref.ProjectID); i >= 0 && data.Projects[i].OwnerID == "" {
			proj := data.Projects[i].Clone()
			proj.OwnerID = ref.OwnerID
			data.Projects = domain.Replace(data.Projects, i, proj)
		}
	}
	return data, nil
}

type memberDelete struct{ ID string }

func (memberDelete) entity() string { return "member" }

func (p memberDelete) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	i := data.MemberIndex(p.ID)
	if i < 0 {
		return data, notFound("team member", p.ID)
	}
	data.TeamMembers = domain.Remove(data.TeamMembers, i)
	data.LeaveBlocks = slices.DeleteFunc(slices.Clone(data.LeaveBlocks), func(l domain.LeaveBlock) bool {
		return l.MemberID == p.ID
	})
	for pi, proj := range data.Projects {
		if proj.OwnerID == p.ID {
			cleared := proj.Clone()
			cleared.OwnerID = ""
			data.Projects = domain.Replace(data.Projects, pi, cleared)
		}
	}
	return data, nil
}

type memberOrder struct{ IDs []string }

func (memberOrder) entity() string { return "member-order" }

func (p memberOrder) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	if len(p.IDs) != len(data.TeamMembers) {
		return data, fmt.Errorf("reorder names %d members, roadmap has %d", len(p.IDs), len(data.TeamMembers))
	}
	out := make([]domain.TeamMember, 0, len(p.IDs))
	for order, id := range p.IDs {
		i := data.MemberIndex(id)
		if i < 0 {
			return data, notFound("team member", id)
		}
		m := data.TeamMembers[i]
		m.Order = order
		out = append(out, m)
	}
	data.TeamMembers = out
	return data, nil
}

// --- dependencies ---

func hasDependency(s []domain.Dependency, d domain.Dependency) bool {
	return slices.ContainsFunc(s, func(x domain.Dependency) bool { return x.ID == d.ID })
}

type dependencyPut struct {
	Dependency domain.Dependency
	Index      int
}

func (dependencyPut) entity() string { return "dependency" }

func (p dependencyPut) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	if i := data.DependencyIndex(p.Dependency.ID); i >= 0 {
		data.Dependencies = domain.Replace(data.Dependencies, i, p.Dependency.Clone())
	} else {
		data.Dependencies = domain.Insert(data.Dependencies, p.Index, p.Dependency.Clone())
	}
	return data, nil
}

type dependencyDelete struct{ ID string }

func (dependencyDelete) entity() string { return "dependency" }

func (p dependencyDelete) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	i := data.DependencyIndex(p.ID)
	if i < 0 {
		return data, notFound("dependency", p.ID)
	}
	data.Dependencies = domain.Remove(data.Dependencies, i)
	return data, nil
}

// --- leave blocks ---

type leavePut struct {
	Leave domain.LeaveBlock
	Index int
}

func (leavePut) entity() string { return "leave" }

func (p leavePut) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	if i := data.LeaveIndex(p.Leave.ID); i >= 0 {
		data.LeaveBlocks = domain.Replace(data.LeaveBlocks, i, p.Leave.Clone())
	} else {
		data.LeaveBlocks = domain.Insert(data.LeaveBlocks, p.Index, p.Leave.Clone())
	}
	return data, nil
}

type leaveDelete struct{ ID string }

func (leaveDelete) entity() string { return "leave" }

func (p leaveDelete) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	i := data.LeaveIndex(p.ID)
	if i < 0 {
		return data, notFound("leave block", p.ID)
	}
	data.LeaveBlocks = domain.Remove(data.LeaveBlocks, i)
	return data, nil
}

// --- period markers ---

type periodPut struct {
	Marker domain.PeriodMarker
	Index  int
}

func (periodPut) entity() string { return "period" }

func (p periodPut) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	if i := data.PeriodIndex(p.Marker.ID); i >= 0 {
		data.PeriodMarkers = domain.Replace(data.PeriodMarkers, i, p.Marker.Clone())
	} else {
		data.PeriodMarkers = domain.Insert(data.PeriodMarkers, p.Index, p.Marker.Clone())
	}
	return data, nil
}

type periodDelete struct{ ID string }

func (periodDelete) entity() string { return "period" }

func (p periodDelete) apply(data domain.RoadmapData) (domain.RoadmapData, error) {
	i := data.PeriodIndex(p.ID)
	if i < 0 {
		return data, notFound("period marker", p.ID)
	}
	data.PeriodMarkers = domain.Remove(data.PeriodMarkers, i)
	return data, nil
}

// --- whole roadmap ---

type roadmapPut struct{ Data domain.RoadmapData }

func (roadmapPut) entity() string { return "roadmap" }

func (p roadmapPut) apply(domain.RoadmapData) (domain.RoadmapData, error) {
	return p.Data.Clone(), nil
}
