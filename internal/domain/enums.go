package domain

type LeaveType string

const (
	LeaveAnnual        LeaveType = "annual"
	LeaveSick          LeaveType = "sick"
	LeavePublicHoliday LeaveType = "public-holiday"
	LeaveTraining      LeaveType = "training"
	LeaveOther         LeaveType = "other"
)

type LeaveCoverage string

const (
	CoverageFull      LeaveCoverage = "full"
	CoverageMorning   LeaveCoverage = "morning"
	CoverageAfternoon LeaveCoverage = "afternoon"
)

type PeriodColor string

const (
	PeriodGrey   PeriodColor = "grey"
	PeriodYellow PeriodColor = "yellow"
	PeriodOrange PeriodColor = "orange"
	PeriodRed    PeriodColor = "red"
	PeriodGreen  PeriodColor = "green"
	PeriodBlue   PeriodColor = "blue"
	PeriodPurple PeriodColor = "purple"
)

// ValidLeaveTypes is the canonical set of accepted leave type strings.
var ValidLeaveTypes = map[string]bool{
	"annual": true, "sick": true, "public-holiday": true,
	"training": true, "other": true,
}

// ValidCoverages is the canonical set of accepted leave coverage strings.
var ValidCoverages = map[string]bool{
	"full": true, "morning": true, "afternoon": true,
}

// ValidPeriodColors is the canonical set of accepted period marker colors.
var ValidPeriodColors = map[string]bool{
	"grey": true, "yellow": true, "orange": true, "red": true,
	"green": true, "blue": true, "purple": true,
}

// DefaultStatusColor is applied to projects and milestones created without one.
const DefaultStatusColor = "#83a598"
