package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
)

// resolveOwner returns the cached owner name and authoritative owner id for a
// project. An explicit id must exist; a bare name is linked to the member of
// that name when exactly one exists.
func (s *roadmapService) resolveOwner(owner, ownerID string) (string, string, error) {
	if ownerID != "" {
		i := s.data.MemberIndex(ownerID)
		if i < 0 {
			return "", "", domain.NewValidationError("ownerId", fmt.Sprintf("team member %q does not exist", ownerID))
		}
		return s.data.TeamMembers[i].Name, ownerID, nil
	}
	owner = strings.TrimSpace(owner)
	if named := s.data.MembersNamed(owner); len(named) == 1 {
		return owner, named[0].ID, nil
	}
	return owner, "", nil
}

func (s *roadmapService) AddProject(ctx context.Context, in ProjectInput) (p domain.Project, err error) {
	defer s.observe(ctx, "project.add", nil, &err)()

	owner, ownerID, err := s.resolveOwner(in.Owner, in.OwnerID)
	if err != nil {
		return domain.Project{}, fmt.Errorf("adding project: %w", err)
	}
	p = domain.Project{
		ID:                  s.newID(),
		Title:               strings.TrimSpace(in.Title),
		Owner:               owner,
		OwnerID:             ownerID,
		StartDate:           domain.TruncateDay(in.StartDate),
		EndDate:             domain.TruncateDay(in.EndDate),
		StatusColor:         domain.CoalesceStr(in.StatusColor, domain.DefaultStatusColor),
		ManualColorOverride: in.ManualColorOverride,
	}
	if err := domain.ValidateProject(p); err != nil {
		return domain.Project{}, fmt.Errorf("adding project: %w", err)
	}
	put := projectPut{Project: p, Index: len(s.data.Projects)}
	if err := s.commit(ctx, history.CreateProject, put, projectDelete{ID: p.ID}); err != nil {
		return p, err
	}
	return p.Clone(), nil
}

func (s *roadmapService) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (p domain.Project, err error) {
	defer s.observe(ctx, "project.update", map[string]any{"project_id": id}, &err)()

	idx := s.data.ProjectIndex(id)
	if idx < 0 {
		return domain.Project{}, notFound("project", id)
	}
	old := s.data.Projects[idx]
	p = old.Clone()
	if patch.Title != nil {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Owner != nil || patch.OwnerID != nil {
		owner, ownerID := p.Owner, ""
		if patch.Owner != nil {
			owner = *patch.Owner
		}
		if patch.OwnerID != nil {
			ownerID = *patch.OwnerID
		}
		if p.Owner, p.OwnerID, err = s.resolveOwner(owner, ownerID); err != nil {
			return domain.Project{}, fmt.Errorf("updating project: %w", err)
		}
	}
	if patch.StartDate != nil {
		p.StartDate = domain.TruncateDay(*patch.StartDate)
	}
	if patch.EndDate != nil {
		p.EndDate = domain.TruncateDay(*patch.EndDate)
	}
	if patch.StatusColor != nil {
		p.StatusColor = *patch.StatusColor
	}
	switch {
	case patch.ClearColorOverride:
		p.ManualColorOverride = nil
	case patch.ManualColorOverride != nil:
		p.ManualColorOverride = domain.StrPtr(*patch.ManualColorOverride)
	}
	if err := domain.ValidateProject(p); err != nil {
		return domain.Project{}, fmt.Errorf("updating project: %w", err)
	}
	err = s.commit(ctx, history.UpdateProject,
		projectPut{Project: p, Index: idx},
		projectPut{Project: old.Clone(), Index: idx})
	return p, err
}

// MoveProject shifts a project and its milestones by days. Drag handling
// resolves pixels to whole days before calling in.
func (s *roadmapService) MoveProject(ctx context.Context, id string, days int) (p domain.Project, err error) {
	defer s.observe(ctx, "project.move", map[string]any{"project_id": id, "days": days}, &err)()

	idx := s.data.ProjectIndex(id)
	if idx < 0 {
		return domain.Project{}, notFound("project", id)
	}
	old := s.data.Projects[idx]
	if days == 0 {
		return old.Clone(), nil
	}
	p = old.Shift(days)
	err = s.commit(ctx, history.MoveProject,
		projectPut{Project: p, Index: idx},
		projectPut{Project: old.Clone(), Index: idx})
	return p, err
}

// DeleteProject removes the project, its milestones and every dependency
// touching either. Undo restores the dependencies at their old positions.
func (s *roadmapService) DeleteProject(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "project.delete", map[string]any{"project_id": id}, &err)()

	idx := s.data.ProjectIndex(id)
	if idx < 0 {
		return notFound("project", id)
	}
	restore := projectPut{
		Project:      s.data.Projects[idx].Clone(),
		Index:        idx,
		Dependencies: s.indexedDependencies(depgraph.AffectedDependencies(s.data.Dependencies, id, "")),
	}
	return s.commit(ctx, history.DeleteProject, projectDelete{ID: id}, restore)
}

func (s *roadmapService) AddMilestone(ctx context.Context, projectID string, in MilestoneInput) (m domain.Milestone, err error) {
	defer s.observe(ctx, "milestone.add", map[string]any{"project_id": projectID}, &err)()

	pi := s.data.ProjectIndex(projectID)
	if pi < 0 {
		return domain.Milestone{}, notFound("project", projectID)
	}
	m = domain.Milestone{
		ID:                  s.newID(),
		Title:               strings.TrimSpace(in.Title),
		StartDate:           domain.TruncateDay(in.StartDate),
		EndDate:             domain.TruncateDay(in.EndDate),
		Tags:                domain.NormalizeTags(in.Tags),
		StatusColor:         domain.CoalesceStr(in.StatusColor, domain.DefaultStatusColor),
		ManualColorOverride: in.ManualColorOverride,
	}
	if err := domain.ValidateMilestone(m); err != nil {
		return domain.Milestone{}, fmt.Errorf("adding milestone: %w", err)
	}
	put := milestonePut{ProjectID: projectID, Milestone: m, Index: len(s.data.Projects[pi].Milestones)}
	err = s.commit(ctx, history.CreateMilestone, put, milestoneDelete{ProjectID: projectID, MilestoneID: m.ID})
	return m.Clone(), err
}

func (s *roadmapService) UpdateMilestone(ctx context.Context, projectID, milestoneID string, patch MilestonePatch) (m domain.Milestone, err error) {
	defer s.observe(ctx, "milestone.update", map[string]any{"project_id": projectID, "milestone_id": milestoneID}, &err)()

	pi := s.data.ProjectIndex(projectID)
	if pi < 0 {
		return domain.Milestone{}, notFound("project", projectID)
	}
	mi := s.data.Projects[pi].MilestoneIndex(milestoneID)
	if mi < 0 {
		return domain.Milestone{}, notFound("milestone", milestoneID)
	}
	old := s.data.Projects[pi].Milestones[mi]
	m = old.Clone()
	if patch.Title != nil {
		m.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.StartDate != nil {
		m.StartDate = domain.TruncateDay(*patch.StartDate)
	}
	if patch.EndDate != nil {
		m.EndDate = domain.TruncateDay(*patch.EndDate)
	}
	if patch.Tags != nil {
		m.Tags = domain.NormalizeTags(*patch.Tags)
	}
	if patch.StatusColor != nil {
		m.StatusColor = *patch.StatusColor
	}
	switch {
	case patch.ClearColorOverride:
		m.ManualColorOverride = nil
	case patch.ManualColorOverride != nil:
		m.ManualColorOverride = domain.StrPtr(*patch.ManualColorOverride)
	}
	if err := domain.ValidateMilestone(m); err != nil {
		return domain.Milestone{}, fmt.Errorf("updating milestone: %w", err)
	}
	err = s.commit(ctx, history.UpdateMilestone,
		milestonePut{ProjectID: projectID, Milestone: m, Index: mi},
		milestonePut{ProjectID: projectID, Milestone: old.Clone(), Index: mi})
	return m, err
}

// DeleteMilestone removes the milestone and the dependencies naming it.
func (s *roadmapService) DeleteMilestone(ctx context.Context, projectID, milestoneID string) (err error) {
	defer s.observe(ctx, "milestone.delete", map[string]any{"project_id": projectID, "milestone_id": milestoneID}, &err)()

	pi := s.data.ProjectIndex(projectID)
	if pi < 0 {
		return notFound("project", projectID)
	}
	mi := s.data.Projects[pi].MilestoneIndex(milestoneID)
	if mi < 0 {
		return notFound("milestone", milestoneID)
	}
	restore := milestonePut{
		ProjectID:    projectID,
		Milestone:    s.data.Projects[pi].Milestones[mi].Clone(),
		Index:        mi,
		Dependencies: s.indexedDependencies(depgraph.AffectedDependencies(s.data.Dependencies, projectID, milestoneID)),
	}
	return s.commit(ctx, history.DeleteMilestone, milestoneDelete{ProjectID: projectID, MilestoneID: milestoneID}, restore)
}

// indexedDependencies pairs each dependency with its current position.
func (s *roadmapService) indexedDependencies(deps []domain.Dependency) []indexed[domain.Dependency] {
	out := make([]indexed[domain.Dependency], 0, len(deps))
	for _, d := range deps {
		out = append(out, indexed[domain.Dependency]{Index: s.data.DependencyIndex(d.ID), Value: d.Clone()})
	}
	return out
}
