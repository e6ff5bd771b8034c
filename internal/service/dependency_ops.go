package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/depgraph"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
)

// AddDependency adds the edge From -> To after checking both endpoints exist
// and that the edge keeps the graph a DAG without duplicates.
func (s *roadmapService) AddDependency(ctx context.Context, in DependencyInput) (d domain.Dependency, err error) {
	defer s.observe(ctx, "dependency.add", map[string]any{
		"from": in.FromProjectID, "to": in.ToProjectID,
	}, &err)()

	d = domain.Dependency{
		ID:              s.newID(),
		FromProjectID:   in.FromProjectID,
		FromMilestoneID: in.FromMilestoneID,
		ToProjectID:     in.ToProjectID,
		ToMilestoneID:   in.ToMilestoneID,
		Waypoints:       slices.Clone(in.Waypoints),
	}
	if err := domain.ValidateDependencyFields(d); err != nil {
		return domain.Dependency{}, fmt.Errorf("adding dependency: %w", err)
	}
	if err := s.checkEndpoint("from", depgraph.From(d)); err != nil {
		return domain.Dependency{}, fmt.Errorf("adding dependency: %w", err)
	}
	if err := s.checkEndpoint("to", depgraph.To(d)); err != nil {
		return domain.Dependency{}, fmt.Errorf("adding dependency: %w", err)
	}
	if res := depgraph.Validate(s.data.Dependencies, depgraph.From(d), depgraph.To(d)); !res.Valid {
		return domain.Dependency{}, fmt.Errorf("adding dependency: %w", res.Err())
	}
	put := dependencyPut{Dependency: d, Index: len(s.data.Dependencies)}
	err = s.commit(ctx, history.CreateDep, put, dependencyDelete{ID: d.ID})
	return d.Clone(), err
}

func (s *roadmapService) checkEndpoint(side string, ep depgraph.Endpoint) error {
	if s.data.ProjectIndex(ep.ProjectID) < 0 {
		return domain.NewValidationError(side+"ProjectId", fmt.Sprintf("project %q does not exist", ep.ProjectID))
	}
	if ep.MilestoneID != "" && !s.data.HasMilestone(ep.ProjectID, ep.MilestoneID) {
		return domain.NewValidationError(side+"MilestoneId",
			fmt.Sprintf("milestone %q does not exist in project %q", ep.MilestoneID, ep.ProjectID))
	}
	return nil
}

// SetDependencyWaypoints replaces the routing hints of an edge. Endpoints
// cannot change; delete and re-add the edge instead.
func (s *roadmapService) SetDependencyWaypoints(ctx context.Context, id string, waypoints []domain.Waypoint) (d domain.Dependency, err error) {
	defer s.observe(ctx, "dependency.waypoints", map[string]any{"dependency_id": id}, &err)()

	idx := s.data.DependencyIndex(id)
	if idx < 0 {
		return domain.Dependency{}, notFound("dependency", id)
	}
	old := s.data.Dependencies[idx]
	d = old.Clone()
	d.Waypoints = slices.Clone(waypoints)
	err = s.commit(ctx, history.UpdateDep,
		dependencyPut{Dependency: d, Index: idx},
		dependencyPut{Dependency: old.Clone(), Index: idx})
	return d, err
}

func (s *roadmapService) DeleteDependency(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "dependency.delete", map[string]any{"dependency_id": id}, &err)()

	idx := s.data.DependencyIndex(id)
	if idx < 0 {
		return notFound("dependency", id)
	}
	restore := dependencyPut{Dependency: s.data.Dependencies[idx].Clone(), Index: idx}
	return s.commit(ctx, history.DeleteDep, dependencyDelete{ID: id}, restore)
}
