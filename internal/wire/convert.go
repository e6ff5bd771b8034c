package wire

import (
	"fmt"
	"sort"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
)

// ToWireFormat converts data into the keyed document shape. Entities without
// an id are dropped. Team member order is rewritten from slice position.
func ToWireFormat(data domain.RoadmapData) (Document, error) {
	var doc Document
	var err error

	projects := make([]projectDoc, 0, len(data.Projects))
	for _, p := range data.Projects {
		if p.ID == "" {
			continue
		}
		pd, err := toProjectDoc(p)
		if err != nil {
			return Document{}, err
		}
		projects = append(projects, pd)
	}
	if doc.Projects, err = encodeKeyed(projects, func(p projectDoc) string { return p.ID }); err != nil {
		return Document{}, fmt.Errorf("projects: %w", err)
	}

	members := make([]memberDoc, len(data.TeamMembers))
	for i, m := range data.TeamMembers {
		order := i
		members[i] = memberDoc{ID: m.ID, Name: m.Name, JobTitle: m.JobTitle, Order: &order}
	}
	if doc.TeamMembers, err = encodeKeyed(members, func(m memberDoc) string { return m.ID }); err != nil {
		return Document{}, fmt.Errorf("teamMembers: %w", err)
	}

	deps := make([]dependencyDoc, len(data.Dependencies))
	for i, d := range data.Dependencies {
		deps[i] = toDependencyDoc(d)
	}
	if doc.Dependencies, err = encodeKeyed(deps, func(d dependencyDoc) string { return d.ID }); err != nil {
		return Document{}, fmt.Errorf("dependencies: %w", err)
	}

	leaves := make([]leaveDoc, len(data.LeaveBlocks))
	for i, l := range data.LeaveBlocks {
		leaves[i] = toLeaveDoc(l)
	}
	if doc.LeaveBlocks, err = encodeKeyed(leaves, func(l leaveDoc) string { return l.ID }); err != nil {
		return Document{}, fmt.Errorf("leaveBlocks: %w", err)
	}

	periods := make([]periodDoc, len(data.PeriodMarkers))
	for i, m := range data.PeriodMarkers {
		periods[i] = toPeriodDoc(m)
	}
	if doc.PeriodMarkers, err = encodeKeyed(periods, func(m periodDoc) string { return m.ID }); err != nil {
		return Document{}, fmt.Errorf("periodMarkers: %w", err)
	}
	return doc, nil
}

// FromWireFormat normalizes a document of either shape into RoadmapData.
// Absent collections become empty, null entries are skipped, and team
// members are sorted by order (members without one last, ties by id).
func FromWireFormat(doc Document) (domain.RoadmapData, error) {
	var data domain.RoadmapData

	projects, err := decodeCollection("projects", doc.Projects, func(p *projectDoc) *string { return &p.ID })
	if err != nil {
		return data, err
	}
	data.Projects = make([]domain.Project, 0, len(projects))
	for _, pd := range projects {
		p, err := pd.toDomain()
		if err != nil {
			return domain.RoadmapData{}, err
		}
		data.Projects = append(data.Projects, p)
	}

	members, err := decodeCollection("teamMembers", doc.TeamMembers, func(m *memberDoc) *string { return &m.ID })
	if err != nil {
		return domain.RoadmapData{}, err
	}
	sortMembers(members)
	data.TeamMembers = make([]domain.TeamMember, len(members))
	for i, m := range members {
		tm := domain.TeamMember{ID: m.ID, Name: m.Name, JobTitle: m.JobTitle, Order: i}
		if m.Order != nil {
			tm.Order = *m.Order
		}
		data.TeamMembers[i] = tm
	}

	deps, err := decodeCollection("dependencies", doc.Dependencies, func(d *dependencyDoc) *string { return &d.ID })
	if err != nil {
		return domain.RoadmapData{}, err
	}
	data.Dependencies = make([]domain.Dependency, len(deps))
	for i, d := range deps {
		data.Dependencies[i] = d.toDomain()
	}

	leaves, err := decodeCollection("leaveBlocks", doc.LeaveBlocks, func(l *leaveDoc) *string { return &l.ID })
	if err != nil {
		return domain.RoadmapData{}, err
	}
	data.LeaveBlocks = make([]domain.LeaveBlock, 0, len(leaves))
	for _, ld := range leaves {
		l, err := ld.toDomain()
		if err != nil {
			return domain.RoadmapData{}, err
		}
		data.LeaveBlocks = append(data.LeaveBlocks, l)
	}

	periods, err := decodeCollection("periodMarkers", doc.PeriodMarkers, func(m *periodDoc) *string { return &m.ID })
	if err != nil {
		return domain.RoadmapData{}, err
	}
	data.PeriodMarkers = make([]domain.PeriodMarker, 0, len(periods))
	for _, pd := range periods {
		m, err := pd.toDomain()
		if err != nil {
			return domain.RoadmapData{}, err
		}
		data.PeriodMarkers = append(data.PeriodMarkers, m)
	}
	return data, nil
}

// sortMembers orders members by their stored order. Keyed maps carry no
// order of their own, so the id tie-break keeps the result stable.
func sortMembers(members []memberDoc) {
	sort.SliceStable(members, func(i, j int) bool {
		a, b := members[i].Order, members[j].Order
		switch {
		case a != nil && b != nil && *a != *b:
			return *a < *b
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return members[i].ID < members[j].ID
	})
}
