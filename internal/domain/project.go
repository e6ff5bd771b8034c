package domain

import (
	"slices"
	"strings"
	"time"
)

// Project is a time-ranged piece of work owned by one team member.
//
// Owner is the owner's display name as it was when the project was last
// written. OwnerID is the authoritative reference; when it is set, lanes and
// display resolve the member through it and Owner is only a fallback.
type Project struct {
	ID                  string
	Title               string    `validate:"notblank"`
	Owner               string    `validate:"required_without=OwnerID"`
	OwnerID             string
	StartDate           time.Time `validate:"required"`
	EndDate             time.Time `validate:"required,gtefield=StartDate"`
	StatusColor         string    `validate:"rgbhex"`
	ManualColorOverride *string   `validate:"omitempty,rgbhex"`
	Milestones          []Milestone
}

// Milestone is a dated checkpoint inside a project. Its ID is unique within
// the owning project.
type Milestone struct {
	ID                  string
	Title               string    `validate:"notblank"`
	StartDate           time.Time `validate:"required"`
	EndDate             time.Time `validate:"required,gtefield=StartDate"`
	Tags                []string
	StatusColor         string  `validate:"rgbhex"`
	ManualColorOverride *string `validate:"omitempty,rgbhex"`
}

// EffectiveColor returns the manual override when present, else the status color.
func (p Project) EffectiveColor() string {
	if p.ManualColorOverride != nil {
		return *p.ManualColorOverride
	}
	return p.StatusColor
}

// EffectiveColor returns the manual override when present, else the status color.
func (m Milestone) EffectiveColor() string {
	if m.ManualColorOverride != nil {
		return *m.ManualColorOverride
	}
	return m.StatusColor
}

// MilestoneIndex returns the position of the milestone with the given id.
func (p Project) MilestoneIndex(id string) int {
	return slices.IndexFunc(p.Milestones, func(m Milestone) bool { return m.ID == id })
}

// Clone returns a deep copy; the result shares no slices or pointers with p.
func (p Project) Clone() Project {
	out := p
	out.ManualColorOverride = cloneString(p.ManualColorOverride)
	if p.Milestones != nil {
		out.Milestones = make([]Milestone, len(p.Milestones))
		for i, m := range p.Milestones {
			out.Milestones[i] = m.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the milestone.
func (m Milestone) Clone() Milestone {
	out := m
	out.Tags = slices.Clone(m.Tags)
	out.ManualColorOverride = cloneString(m.ManualColorOverride)
	return out
}

// Shift moves the project and all its milestones by days calendar days.
func (p Project) Shift(days int) Project {
	out := p.Clone()
	out.StartDate = out.StartDate.AddDate(0, 0, days)
	out.EndDate = out.EndDate.AddDate(0, 0, days)
	for i := range out.Milestones {
		out.Milestones[i].StartDate = out.Milestones[i].StartDate.AddDate(0, 0, days)
		out.Milestones[i].EndDate = out.Milestones[i].EndDate.AddDate(0, 0, days)
	}
	return out
}

// NormalizeTags returns tags with blanks removed, duplicates collapsed and
// sorted, so two milestones with the same tag set compare equal.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
