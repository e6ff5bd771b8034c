package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
)

func (s *roadmapService) AddTeamMember(ctx context.Context, in MemberInput) (m domain.TeamMember, err error) {
	defer s.observe(ctx, "member.add", nil, &err)()

	m = domain.TeamMember{
		ID:       s.newID(),
		Name:     strings.TrimSpace(in.Name),
		JobTitle: strings.TrimSpace(in.JobTitle),
		Order:    len(s.data.TeamMembers),
	}
	if err := domain.ValidateTeamMember(m); err != nil {
		return domain.TeamMember{}, fmt.Errorf("adding team member: %w", err)
	}
	idx := len(s.data.TeamMembers)
	if err := s.commit(ctx, history.CreateMember, memberPut{Member: m, Index: idx}, memberDelete{ID: m.ID}); err != nil {
		return m, err
	}
	return m, nil
}

// UpdateTeamMember renames a member or changes the job title. Projects are not
// rewritten: their OwnerID keeps resolving to the member under the new name.
func (s *roadmapService) UpdateTeamMember(ctx context.Context, id string, in MemberInput) (m domain.TeamMember, err error) {
	defer s.observe(ctx, "member.update", map[string]any{"member_id": id}, &err)()

	idx := s.data.MemberIndex(id)
	if idx < 0 {
		return domain.TeamMember{}, notFound("team member", id)
	}
	old := s.data.TeamMembers[idx]
	m = old
	if name := strings.TrimSpace(in.Name); name != "" {
		m.Name = name
	}
	if title := strings.TrimSpace(in.JobTitle); title != "" {
		m.JobTitle = title
	}
	if err := domain.ValidateTeamMember(m); err != nil {
		return domain.TeamMember{}, fmt.Errorf("updating team member: %w", err)
	}
	if m == old {
		return m, nil
	}
	if err := s.commit(ctx, history.UpdateMember, memberPut{Member: m, Index: idx}, memberPut{Member: old, Index: idx}); err != nil {
		return m, err
	}
	return m, nil
}

// DeleteTeamMember removes the member together with their leave blocks and
// clears OwnerID on their projects. Undo restores all three.
func (s *roadmapService) DeleteTeamMember(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "member.delete", map[string]any{"member_id": id}, &err)()

	idx := s.data.MemberIndex(id)
	if idx < 0 {
		return notFound("team member", id)
	}
	restore := memberPut{Member: s.data.TeamMembers[idx], Index: idx}
	for i, l := range s.data.LeaveBlocks {
		if l.MemberID == id {
			restore.Leaves = append(restore.Leaves, indexed[domain.LeaveBlock]{Index: i, Value: l.Clone()})
		}
	}
	for _, p := range s.data.Projects {
		if p.OwnerID == id {
			restore.Owned = append(restore.Owned, ownerRef{ProjectID: p.ID, OwnerID: id})
		}
	}
	return s.commit(ctx, history.DeleteMember, memberDelete{ID: id}, restore)
}

// ReorderTeamMembers sets the lane order. ids must name every member exactly
// once.
func (s *roadmapService) ReorderTeamMembers(ctx context.Context, ids []string) (err error) {
	defer s.observe(ctx, "member.reorder", map[string]any{"members": len(ids)}, &err)()

	current := make([]string, len(s.data.TeamMembers))
	for i, m := range s.data.TeamMembers {
		current[i] = m.ID
	}
	if !samePermutation(current, ids) {
		return domain.NewValidationError("teamMembers", "reorder must list every team member exactly once")
	}
	if slices.Equal(current, ids) {
		return nil
	}
	return s.commit(ctx, history.ReorderMembers, memberOrder{IDs: slices.Clone(ids)}, memberOrder{IDs: current})
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y) && len(slices.Compact(y)) == len(a)
}
