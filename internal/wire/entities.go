package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
)

type projectDoc struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Owner               string          `json:"owner"`
	OwnerID             string          `json:"ownerId,omitempty"`
	StartDate           string          `json:"startDate"`
	EndDate             string          `json:"endDate"`
	StatusColor         string          `json:"statusColor"`
	ManualColorOverride *string         `json:"manualColorOverride,omitempty"`
	Milestones          json.RawMessage `json:"milestones,omitempty"`
}

type milestoneDoc struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	StartDate           string   `json:"startDate"`
	EndDate             string   `json:"endDate"`
	Tags                []string `json:"tags,omitempty"`
	StatusColor         string   `json:"statusColor"`
	ManualColorOverride *string  `json:"manualColorOverride,omitempty"`
}

type memberDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	JobTitle string `json:"jobTitle"`
	Order    *int   `json:"order,omitempty"`
}

type dependencyDoc struct {
	ID              string        `json:"id"`
	FromProjectID   string        `json:"fromProjectId"`
	ToProjectID     string        `json:"toProjectId"`
	FromMilestoneID string        `json:"fromMilestoneId,omitempty"`
	ToMilestoneID   string        `json:"toMilestoneId,omitempty"`
	Waypoints       []waypointDoc `json:"waypoints,omitempty"`
}

type waypointDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type leaveDoc struct {
	ID        string  `json:"id"`
	MemberID  string  `json:"memberId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Type      string  `json:"type"`
	Coverage  string  `json:"coverage"`
	Label     *string `json:"label,omitempty"`
}

type periodDoc struct {
	ID        string  `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Color     string  `json:"color"`
	Label     *string `json:"label,omitempty"`
}

func toProjectDoc(p domain.Project) (projectDoc, error) {
	ms := make([]milestoneDoc, len(p.Milestones))
	for i, m := range p.Milestones {
		ms[i] = milestoneDoc{
			ID:                  m.ID,
			Title:               m.Title,
			StartDate:           domain.FormatDate(m.StartDate),
			EndDate:             domain.FormatDate(m.EndDate),
			Tags:                m.Tags,
			StatusColor:         m.StatusColor,
			ManualColorOverride: m.ManualColorOverride,
		}
	}
	keyed, err := encodeKeyed(ms, func(m milestoneDoc) string { return m.ID })
	if err != nil {
		return projectDoc{}, fmt.Errorf("project %s milestones: %w", p.ID, err)
	}
	return projectDoc{
		ID:                  p.ID,
		Title:               p.Title,
		Owner:               p.Owner,
		OwnerID:             p.OwnerID,
		StartDate:           domain.FormatDate(p.StartDate),
		EndDate:             domain.FormatDate(p.EndDate),
		StatusColor:         p.StatusColor,
		ManualColorOverride: p.ManualColorOverride,
		Milestones:          keyed,
	}, nil
}

func (d projectDoc) toDomain() (domain.Project, error) {
	p := domain.Project{
		ID:                  d.ID,
		Title:               d.Title,
		Owner:               d.Owner,
		OwnerID:             d.OwnerID,
		StatusColor:         d.StatusColor,
		ManualColorOverride: d.ManualColorOverride,
	}
	var err error
	if p.StartDate, p.EndDate, err = parseRange(d.StartDate, d.EndDate); err != nil {
		return domain.Project{}, fmt.Errorf("project %s: %w", d.ID, err)
	}
	docs, err := decodeCollection("milestones", d.Milestones, func(m *milestoneDoc) *string { return &m.ID })
	if err != nil {
		return domain.Project{}, fmt.Errorf("project %s: %w", d.ID, err)
	}
	if len(docs) > 0 {
		p.Milestones = make([]domain.Milestone, len(docs))
	}
	for i, md := range docs {
		m := domain.Milestone{
			ID:                  md.ID,
			Title:               md.Title,
			Tags:                md.Tags,
			StatusColor:         md.StatusColor,
			ManualColorOverride: md.ManualColorOverride,
		}
		if m.StartDate, m.EndDate, err = parseRange(md.StartDate, md.EndDate); err != nil {
			return domain.Project{}, fmt.Errorf("project %s milestone %s: %w", d.ID, md.ID, err)
		}
		p.Milestones[i] = m
	}
	return p, nil
}

func toDependencyDoc(d domain.Dependency) dependencyDoc {
	out := dependencyDoc{
		ID:              d.ID,
		FromProjectID:   d.FromProjectID,
		ToProjectID:     d.ToProjectID,
		FromMilestoneID: d.FromMilestoneID,
		ToMilestoneID:   d.ToMilestoneID,
	}
	if len(d.Waypoints) > 0 {
		out.Waypoints = make([]waypointDoc, len(d.Waypoints))
		for i, w := range d.Waypoints {
			out.Waypoints[i] = waypointDoc{X: w.X, Y: w.Y}
		}
	}
	return out
}

func (d dependencyDoc) toDomain() domain.Dependency {
	out := domain.Dependency{
		ID:              d.ID,
		FromProjectID:   d.FromProjectID,
		ToProjectID:     d.ToProjectID,
		FromMilestoneID: d.FromMilestoneID,
		ToMilestoneID:   d.ToMilestoneID,
	}
	if len(d.Waypoints) > 0 {
		out.Waypoints = make([]domain.Waypoint, len(d.Waypoints))
		for i, w := range d.Waypoints {
			out.Waypoints[i] = domain.Waypoint{X: w.X, Y: w.Y}
		}
	}
	return out
}

func toLeaveDoc(l domain.LeaveBlock) leaveDoc {
	return leaveDoc{
		ID:        l.ID,
		MemberID:  l.MemberID,
		StartDate: domain.FormatDate(l.StartDate),
		EndDate:   domain.FormatDate(l.EndDate),
		Type:      string(l.Type),
		Coverage:  string(l.Coverage),
		Label:     l.Label,
	}
}

func (d leaveDoc) toDomain() (domain.LeaveBlock, error) {
	l := domain.LeaveBlock{
		ID:       d.ID,
		MemberID: d.MemberID,
		Type:     domain.LeaveType(d.Type),
		Coverage: domain.LeaveCoverage(d.Coverage),
		Label:    d.Label,
	}
	var err error
	if l.StartDate, l.EndDate, err = parseRange(d.StartDate, d.EndDate); err != nil {
		return domain.LeaveBlock{}, fmt.Errorf("leave block %s: %w", d.ID, err)
	}
	return l, nil
}

func toPeriodDoc(m domain.PeriodMarker) periodDoc {
	return periodDoc{
		ID:        m.ID,
		StartDate: domain.FormatDate(m.StartDate),
		EndDate:   domain.FormatDate(m.EndDate),
		Color:     string(m.Color),
		Label:     m.Label,
	}
}

func (d periodDoc) toDomain() (domain.PeriodMarker, error) {
	m := domain.PeriodMarker{
		ID:    d.ID,
		Color: domain.PeriodColor(d.Color),
		Label: d.Label,
	}
	var err error
	if m.StartDate, m.EndDate, err = parseRange(d.StartDate, d.EndDate); err != nil {
		return domain.PeriodMarker{}, fmt.Errorf("period marker %s: %w", d.ID, err)
	}
	return m, nil
}

// parseRange parses a pair of wire dates. Blank dates decode to the zero
// time; validation rejects them later if the entity is edited.
func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := parseWireDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := parseWireDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

func parseWireDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return t, nil
}
