package service

import (
	"context"
	"fmt"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
)

// leaveFromInput builds a leave block, filling in annual/full for an unset
// type and coverage.
func leaveFromInput(id string, in LeaveInput) domain.LeaveBlock {
	l := domain.LeaveBlock{
		ID:        id,
		MemberID:  in.MemberID,
		StartDate: domain.TruncateDay(in.StartDate),
		EndDate:   domain.TruncateDay(in.EndDate),
		Type:      in.Type,
		Coverage:  in.Coverage,
		Label:     in.Label,
	}
	if l.Type == "" {
		l.Type = domain.LeaveAnnual
	}
	if l.Coverage == "" {
		l.Coverage = domain.CoverageFull
	}
	return l.Clone()
}

func (s *roadmapService) validateLeave(l domain.LeaveBlock) error {
	if err := domain.ValidateLeaveBlock(l); err != nil {
		return err
	}
	if s.data.MemberIndex(l.MemberID) < 0 {
		return domain.NewValidationError("memberId", fmt.Sprintf("team member %q does not exist", l.MemberID))
	}
	return nil
}

func (s *roadmapService) AddLeaveBlock(ctx context.Context, in LeaveInput) (l domain.LeaveBlock, err error) {
	defer s.observe(ctx, "leave.add", map[string]any{"member_id": in.MemberID}, &err)()

	l = leaveFromInput(s.newID(), in)
	if err := s.validateLeave(l); err != nil {
		return domain.LeaveBlock{}, fmt.Errorf("adding leave block: %w", err)
	}
	put := leavePut{Leave: l, Index: len(s.data.LeaveBlocks)}
	err = s.commit(ctx, history.CreateLeave, put, leaveDelete{ID: l.ID})
	return l.Clone(), err
}

func (s *roadmapService) UpdateLeaveBlock(ctx context.Context, id string, in LeaveInput) (l domain.LeaveBlock, err error) {
	defer s.observe(ctx, "leave.update", map[string]any{"leave_id": id}, &err)()

	idx := s.data.LeaveIndex(id)
	if idx < 0 {
		return domain.LeaveBlock{}, notFound("leave block", id)
	}
	old := s.data.LeaveBlocks[idx]
	l = leaveFromInput(id, in)
	if err := s.validateLeave(l); err != nil {
		return domain.LeaveBlock{}, fmt.Errorf("updating leave block: %w", err)
	}
	err = s.commit(ctx, history.UpdateLeave,
		leavePut{Leave: l, Index: idx},
		leavePut{Leave: old.Clone(), Index: idx})
	return l.Clone(), err
}

func (s *roadmapService) DeleteLeaveBlock(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "leave.delete", map[string]any{"leave_id": id}, &err)()

	idx := s.data.LeaveIndex(id)
	if idx < 0 {
		return notFound("leave block", id)
	}
	restore := leavePut{Leave: s.data.LeaveBlocks[idx].Clone(), Index: idx}
	return s.commit(ctx, history.DeleteLeave, leaveDelete{ID: id}, restore)
}

func periodFromInput(id string, in PeriodInput) domain.PeriodMarker {
	m := domain.PeriodMarker{
		ID:        id,
		StartDate: domain.TruncateDay(in.StartDate),
		EndDate:   domain.TruncateDay(in.EndDate),
		Color:     in.Color,
		Label:     in.Label,
	}
	if m.Color == "" {
		m.Color = domain.PeriodGrey
	}
	return m.Clone()
}

func (s *roadmapService) AddPeriodMarker(ctx context.Context, in PeriodInput) (m domain.PeriodMarker, err error) {
	defer s.observe(ctx, "period.add", nil, &err)()

	m = periodFromInput(s.newID(), in)
	if err := domain.ValidatePeriodMarker(m); err != nil {
		return domain.PeriodMarker{}, fmt.Errorf("adding period marker: %w", err)
	}
	put := periodPut{Marker: m, Index: len(s.data.PeriodMarkers)}
	err = s.commit(ctx, history.CreatePeriod, put, periodDelete{ID: m.ID})
	return m.Clone(), err
}

func (s *roadmapService) UpdatePeriodMarker(ctx context.Context, id string, in PeriodInput) (m domain.PeriodMarker, err error) {
	defer s.observe(ctx, "period.update", map[string]any{"period_id": id}, &err)()

	idx := s.data.PeriodIndex(id)
	if idx < 0 {
		return domain.PeriodMarker{}, notFound("period marker", id)
	}
	old := s.data.PeriodMarkers[idx]
	m = periodFromInput(id, in)
	if err := domain.ValidatePeriodMarker(m); err != nil {
		return domain.PeriodMarker{}, fmt.Errorf("updating period marker: %w", err)
	}
	err = s.commit(ctx, history.UpdatePeriod,
		periodPut{Marker: m, Index: idx},
		periodPut{Marker: old.Clone(), Index: idx})
	return m.Clone(), err
}

func (s *roadmapService) DeletePeriodMarker(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "period.delete", map[string]any{"period_id": id}, &err)()

	idx := s.data.PeriodIndex(id)
	if idx < 0 {
		return notFound("period marker", id)
	}
	restore := periodPut{Marker: s.data.PeriodMarkers[idx].Clone(), Index: idx}
	return s.commit(ctx, history.DeletePeriod, periodDelete{ID: id}, restore)
}
