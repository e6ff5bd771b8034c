package importer

import (
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
)

// ValidateRoadmap checks a whole roadmap before it replaces the live one.
// Returns a slice of all validation errors found.
func ValidateRoadmap(data domain.RoadmapData) []error {
	var errs []error

	memberRefs := make(map[string]bool)
	errs = append(errs, validateMembers(data.TeamMembers, memberRefs)...)
	errs = append(errs, validateProjects(data.Projects, memberRefs)...)
	errs = append(errs, validateLeaveBlocks(data.LeaveBlocks, memberRefs)...)
	errs = append(errs, validatePeriodMarkers(data.PeriodMarkers)...)
	errs = append(errs, validateDependencies(data)...)

	return errs
}

func validateMembers(members []domain.TeamMember, refs map[string]bool) []error {
	var errs []error
	for i, m := range members {
		prefix := fmt.Sprintf("teamMembers[%d]", i)
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if refs[m.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, m.ID))
		}
		refs[m.ID] = true
		if err := domain.ValidateTeamMember(m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}

func validateProjects(projects []domain.Project, memberRefs map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, p.ID))
		}
		seen[p.ID] = true
		if err := domain.ValidateProject(p); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
		if p.OwnerID != "" && !memberRefs[p.OwnerID] {
			errs = append(errs, fmt.Errorf("%s.ownerId: unknown team member %q", prefix, p.OwnerID))
		}
		for j, m := range p.Milestones {
			if m.ID == "" {
				errs = append(errs, fmt.Errorf("%s.milestones[%d].id is required", prefix, j))
			}
		}
	}
	return errs
}

func validateLeaveBlocks(blocks []domain.LeaveBlock, memberRefs map[string]bool) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, l := range blocks {
		prefix := fmt.Sprintf("leaveBlocks[%d]", i)
		if l.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[l.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, l.ID))
		}
		seen[l.ID] = true
		if err := domain.ValidateLeaveBlock(l); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
			continue
		}
		if !memberRefs[l.MemberID] {
			errs = append(errs, fmt.Errorf("%s.memberId: unknown team member %q", prefix, l.MemberID))
		}
	}
	return errs
}

func validatePeriodMarkers(markers []domain.PeriodMarker) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, m := range markers {
		prefix := fmt.Sprintf("periodMarkers[%d]", i)
		if m.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[m.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, m.ID))
		}
		seen[m.ID] = true
		if err := domain.ValidatePeriodMarker(m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
	}
	return errs
}

// validateDependencies replays the edges one at a time through the same
// validator interactive edits use, so an imported graph obeys the same rules:
// endpoints exist, no self edges, no duplicates, no cycles.
func validateDependencies(data domain.RoadmapData) []error {
	var errs []error
	accepted := make([]domain.Dependency, 0, len(data.Dependencies))
	seen := make(map[string]bool)
	for i, d := range data.Dependencies {
		prefix := fmt.Sprintf("dependencies[%d]", i)
		if d.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[d.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", prefix, d.ID))
		}
		seen[d.ID] = true
		if err := domain.ValidateDependencyFields(d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
			continue
		}
		if err := checkEndpoint(data, depgraph.From(d)); err != nil {
			errs = append(errs, fmt.Errorf("%s.from: %w", prefix, err))
			continue
		}
		if err := checkEndpoint(data, depgraph.To(d)); err != nil {
			errs = append(errs, fmt.Errorf("%s.to: %w", prefix, err))
			continue
		}
		if res := depgraph.Validate(accepted, depgraph.From(d), depgraph.To(d)); !res.Valid {
			errs = append(errs, fmt.Errorf("%s %s -> %s: %s", prefix, depgraph.From(d), depgraph.To(d), res.Reason))
			continue
		}
		accepted = append(accepted, d)
	}
	return errs
}

func checkEndpoint(data domain.RoadmapData, ep depgraph.Endpoint) error {
	if data.ProjectIndex(ep.ProjectID) < 0 {
		return fmt.Errorf("unknown project %q", ep.ProjectID)
	}
	if ep.MilestoneID != "" && !data.HasMilestone(ep.ProjectID, ep.MilestoneID) {
		return fmt.Errorf("unknown milestone %q in project %q", ep.MilestoneID, ep.ProjectID)
	}
	return nil
}
