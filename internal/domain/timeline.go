package domain

import "time"

// LeaveBlock marks a member as away for a date range.
type LeaveBlock struct {
	ID        string
	MemberID  string        `validate:"required"`
	StartDate time.Time     `validate:"required"`
	EndDate   time.Time     `validate:"required,gtefield=StartDate"`
	Type      LeaveType     `validate:"leavetype"`
	Coverage  LeaveCoverage `validate:"coverage"`
	Label     *string
}

// PeriodMarker annotates a date range across the whole timeline.
type PeriodMarker struct {
	ID        string
	StartDate time.Time   `validate:"required"`
	EndDate   time.Time   `validate:"required,gtefield=StartDate"`
	Color     PeriodColor `validate:"periodcolor"`
	Label     *string
}

// Clone returns a copy with its own label storage.
func (l LeaveBlock) Clone() LeaveBlock {
	l.Label = cloneString(l.Label)
	return l
}

// Clone returns a copy with its own label storage.
func (m PeriodMarker) Clone() PeriodMarker {
	m.Label = cloneString(m.Label)
	return m
}
