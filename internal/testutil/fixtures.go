package testutil

import (
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/google/uuid"
)

// Day returns a UTC calendar date in 2025, the year every fixture lives in.
func Day(month time.Month, day int) time.Time {
	return domain.Date(2025, month, day)
}

// Member options
type MemberOption func(*domain.TeamMember)

func WithMemberID(id string) MemberOption {
	return func(m *domain.TeamMember) {
		m.ID = id
	}
}

func WithJobTitle(title string) MemberOption {
	return func(m *domain.TeamMember) {
		m.JobTitle = title
	}
}

func NewTestMember(name string, opts ...MemberOption) domain.TeamMember {
	m := domain.TeamMember{
		ID:       uuid.New().String(),
		Name:     name,
		JobTitle: "Engineer",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ID = id
	}
}

func WithOwner(m domain.TeamMember) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = m.Name
		p.OwnerID = m.ID
	}
}

func WithOwnerName(name string) ProjectOption {
	return func(p *domain.Project) {
		p.Owner = name
		p.OwnerID = ""
	}
}

func WithDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = start
		p.EndDate = end
	}
}

func WithMilestones(ms ...domain.Milestone) ProjectOption {
	return func(p *domain.Project) {
		p.Milestones = append(p.Milestones, ms...)
	}
}

func WithColorOverride(color string) ProjectOption {
	return func(p *domain.Project) {
		p.ManualColorOverride = &color
	}
}

// NewTestProject returns a valid one-month project owned by "Test Owner".
func NewTestProject(title string, opts ...ProjectOption) domain.Project {
	p := domain.Project{
		ID:          uuid.New().String(),
		Title:       title,
		Owner:       "Test Owner",
		StartDate:   Day(time.March, 1),
		EndDate:     Day(time.March, 31),
		StatusColor: domain.DefaultStatusColor,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithMilestoneID(id string) MilestoneOption {
	return func(m *domain.Milestone) {
		m.ID = id
	}
}

func WithMilestoneDates(start, end time.Time) MilestoneOption {
	return func(m *domain.Milestone) {
		m.StartDate = start
		m.EndDate = end
	}
}

func WithTags(tags ...string) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Tags = domain.NormalizeTags(tags)
	}
}

func NewTestMilestone(title string, opts ...MilestoneOption) domain.Milestone {
	m := domain.Milestone{
		ID:          uuid.New().String(),
		Title:       title,
		StartDate:   Day(time.March, 10),
		EndDate:     Day(time.March, 12),
		StatusColor: domain.DefaultStatusColor,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Dependency options
type DependencyOption func(*domain.Dependency)

func FromMilestone(id string) DependencyOption {
	return func(d *domain.Dependency) {
		d.FromMilestoneID = id
	}
}

func ToMilestone(id string) DependencyOption {
	return func(d *domain.Dependency) {
		d.ToMilestoneID = id
	}
}

func NewTestDependency(fromProjectID, toProjectID string, opts ...DependencyOption) domain.Dependency {
	d := domain.Dependency{
		ID:            uuid.New().String(),
		FromProjectID: fromProjectID,
		ToProjectID:   toProjectID,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Leave options
type LeaveOption func(*domain.LeaveBlock)

func WithLeaveType(t domain.LeaveType) LeaveOption {
	return func(l *domain.LeaveBlock) {
		l.Type = t
	}
}

func WithLeaveDates(start, end time.Time) LeaveOption {
	return func(l *domain.LeaveBlock) {
		l.StartDate = start
		l.EndDate = end
	}
}

func NewTestLeave(memberID string, opts ...LeaveOption) domain.LeaveBlock {
	l := domain.LeaveBlock{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		StartDate: Day(time.March, 3),
		EndDate:   Day(time.March, 7),
		Type:      domain.LeaveAnnual,
		Coverage:  domain.CoverageFull,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func NewTestPeriod(color domain.PeriodColor, label string) domain.PeriodMarker {
	return domain.PeriodMarker{
		ID:        uuid.New().String(),
		StartDate: Day(time.June, 1),
		EndDate:   Day(time.June, 14),
		Color:     color,
		Label:     &label,
	}
}
