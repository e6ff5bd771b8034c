package service

import (
	"context"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/layout"
)

// Persister accepts every committed snapshot. The reconciler satisfies it;
// Save is expected to return quickly and surface store failures later.
type Persister interface {
	Save(ctx context.Context, data domain.RoadmapData) error
}

// RoadmapService owns the in-memory roadmap. Each intent is validated,
// recorded in the undo log, applied and handed to the persister, in that
// order; a rejected intent changes nothing.
//
// A RoadmapService is not safe for concurrent use.
type RoadmapService interface {
	Data() domain.RoadmapData

	AddTeamMember(ctx context.Context, in MemberInput) (domain.TeamMember, error)
	UpdateTeamMember(ctx context.Context, id string, in MemberInput) (domain.TeamMember, error)
	DeleteTeamMember(ctx context.Context, id string) error
	ReorderTeamMembers(ctx context.Context, ids []string) error

	AddProject(ctx context.Context, in ProjectInput) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (domain.Project, error)
	MoveProject(ctx context.Context, id string, days int) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error

	AddMilestone(ctx context.Context, projectID string, in MilestoneInput) (domain.Milestone, error)
	UpdateMilestone(ctx context.Context, projectID, milestoneID string, patch MilestonePatch) (domain.Milestone, error)
	DeleteMilestone(ctx context.Context, projectID, milestoneID string) error

	AddDependency(ctx context.Context, in DependencyInput) (domain.Dependency, error)
	SetDependencyWaypoints(ctx context.Context, id string, waypoints []domain.Waypoint) (domain.Dependency, error)
	DeleteDependency(ctx context.Context, id string) error

	AddLeaveBlock(ctx context.Context, in LeaveInput) (domain.LeaveBlock, error)
	UpdateLeaveBlock(ctx context.Context, id string, in LeaveInput) (domain.LeaveBlock, error)
	DeleteLeaveBlock(ctx context.Context, id string) error

	AddPeriodMarker(ctx context.Context, in PeriodInput) (domain.PeriodMarker, error)
	UpdatePeriodMarker(ctx context.Context, id string, in PeriodInput) (domain.PeriodMarker, error)
	DeletePeriodMarker(ctx context.Context, id string) error

	// Replace swaps in a whole roadmap, e.g. from an import. It is undoable.
	Replace(ctx context.Context, data domain.RoadmapData) error

	// Undo and Redo report whether a command was applied. An empty stack or
	// a corrupt payload is a no-op, not an error.
	Undo(ctx context.Context) (bool, error)
	Redo(ctx context.Context) (bool, error)
	CanUndo() bool
	CanRedo() bool

	Lanes() []layout.Lane
	Conflicts() []layout.Conflict
}

// MemberInput describes a team member to add or the new values on update.
type MemberInput struct {
	Name     string
	JobTitle string
}

// ProjectInput describes a new project. Owner may be left empty when
// OwnerID names an existing member.
type ProjectInput struct {
	Title               string
	Owner               string
	OwnerID             string
	StartDate           time.Time
	EndDate             time.Time
	StatusColor         string
	ManualColorOverride *string
}

// ProjectPatch carries optional changes; nil fields stay as they are.
type ProjectPatch struct {
	Title               *string
	Owner               *string
	OwnerID             *string
	StartDate           *time.Time
	EndDate             *time.Time
	StatusColor         *string
	ManualColorOverride *string
	ClearColorOverride  bool
}

// MilestoneInput describes a new milestone.
type MilestoneInput struct {
	Title               string
	StartDate           time.Time
	EndDate             time.Time
	Tags                []string
	StatusColor         string
	ManualColorOverride *string
}

// MilestonePatch carries optional milestone changes.
type MilestonePatch struct {
	Title               *string
	StartDate           *time.Time
	EndDate             *time.Time
	Tags                *[]string
	StatusColor         *string
	ManualColorOverride *string
	ClearColorOverride  bool
}

// DependencyInput names the two endpoints of a new edge. Empty milestone
// ids mean the whole project.
type DependencyInput struct {
	FromProjectID   string
	FromMilestoneID string
	ToProjectID     string
	ToMilestoneID   string
	Waypoints       []domain.Waypoint
}

// LeaveInput describes a leave block.
type LeaveInput struct {
	MemberID  string
	StartDate time.Time
	EndDate   time.Time
	Type      domain.LeaveType
	Coverage  domain.LeaveCoverage
	Label     *string
}

// PeriodInput describes a period marker.
type PeriodInput struct {
	StartDate time.Time
	EndDate   time.Time
	Color     domain.PeriodColor
	Label     *string
}
