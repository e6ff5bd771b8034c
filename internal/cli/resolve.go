package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
)

// candidate is something a user can refer to by id, id prefix or name.
type candidate struct {
	id   string
	name string
}

// resolveRef turns a user-supplied reference into an id. It tries, in
// order: exact id, case-insensitive exact name, then id prefix. A name or
// prefix that matches more than one candidate is an error.
func resolveRef(kind, ref string, cands []candidate) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%s reference is empty", kind)
	}
	for _, c := range cands {
		if c.id == ref {
			return c.id, nil
		}
	}

	var byName []candidate
	for _, c := range cands {
		if c.name != "" && strings.EqualFold(c.name, ref) {
			byName = append(byName, c)
		}
	}
	if id, err := single(kind, ref, byName); id != "" || err != nil {
		return id, err
	}

	var byPrefix []candidate
	for _, c := range cands {
		if strings.HasPrefix(c.id, ref) {
			byPrefix = append(byPrefix, c)
		}
	}
	if id, err := single(kind, ref, byPrefix); id != "" || err != nil {
		return id, err
	}
	return "", fmt.Errorf("%s %q: %w", kind, ref, domain.ErrNotFound)
}

// single returns the only match, an ambiguity error for several, or ""
// for none.
func single(kind, ref string, matches []candidate) (string, error) {
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0].id, nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.id
	}
	sort.Strings(ids)
	return "", fmt.Errorf("%s %q is ambiguous: matches %s", kind, ref, strings.Join(ids, ", "))
}

func resolveMember(data domain.RoadmapData, ref string) (domain.TeamMember, error) {
	cands := make([]candidate, len(data.TeamMembers))
	for i, m := range data.TeamMembers {
		cands[i] = candidate{id: m.ID, name: m.Name}
	}
	id, err := resolveRef("team member", ref, cands)
	if err != nil {
		return domain.TeamMember{}, err
	}
	return data.TeamMembers[data.MemberIndex(id)], nil
}

func resolveProject(data domain.RoadmapData, ref string) (domain.Project, error) {
	cands := make([]candidate, len(data.Projects))
	for i, p := range data.Projects {
		cands[i] = candidate{id: p.ID, name: p.Title}
	}
	id, err := resolveRef("project", ref, cands)
	if err != nil {
		return domain.Project{}, err
	}
	return data.Projects[data.ProjectIndex(id)], nil
}

func resolveMilestone(p domain.Project, ref string) (domain.Milestone, error) {
	cands := make([]candidate, len(p.Milestones))
	for i, m := range p.Milestones {
		cands[i] = candidate{id: m.ID, name: m.Title}
	}
	id, err := resolveRef("milestone", ref, cands)
	if err != nil {
		return domain.Milestone{}, err
	}
	return p.Milestones[p.MilestoneIndex(id)], nil
}

func resolveDependencyID(data domain.RoadmapData, ref string) (string, error) {
	cands := make([]candidate, len(data.Dependencies))
	for i, d := range data.Dependencies {
		cands[i] = candidate{id: d.ID}
	}
	return resolveRef("dependency", ref, cands)
}

func resolveLeave(data domain.RoadmapData, ref string) (domain.LeaveBlock, error) {
	cands := make([]candidate, len(data.LeaveBlocks))
	for i, l := range data.LeaveBlocks {
		cands[i] = candidate{id: l.ID}
	}
	id, err := resolveRef("leave block", ref, cands)
	if err != nil {
		return domain.LeaveBlock{}, err
	}
	return data.LeaveBlocks[data.LeaveIndex(id)], nil
}

func resolvePeriod(data domain.RoadmapData, ref string) (domain.PeriodMarker, error) {
	cands := make([]candidate, len(data.PeriodMarkers))
	for i, m := range data.PeriodMarkers {
		cands[i] = candidate{id: m.ID, name: domain.StrValue(m.Label)}
	}
	id, err := resolveRef("period marker", ref, cands)
	if err != nil {
		return domain.PeriodMarker{}, err
	}
	return data.PeriodMarkers[data.PeriodIndex(id)], nil
}
