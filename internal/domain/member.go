package domain

// TeamMember is a person whose projects form one lane of the roadmap.
// Order is not intrinsic: it is recomputed from the member's position in
// RoadmapData.TeamMembers on every write.
type TeamMember struct {
	ID       string
	Name     string `validate:"notblank"`
	JobTitle string
	Order    int
}
