package wire

import (
	"encoding/json"
	"testing"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() domain.RoadmapData {
	override := "#fb4934"
	label := "Q3 freeze"
	return domain.RoadmapData{
		TeamMembers: []domain.TeamMember{
			{ID: "tm-2", Name: "Bob", JobTitle: "Engineer", Order: 0},
			{ID: "tm-1", Name: "Ada", JobTitle: "Lead", Order: 1},
		},
		Projects: []domain.Project{
			{
				ID: "p-9", Title: "Billing", Owner: "Ada", OwnerID: "tm-1",
				StartDate: domain.Date(2025, 3, 1), EndDate: domain.Date(2025, 4, 30),
				StatusColor: "#83a598", ManualColorOverride: &override,
				Milestones: []domain.Milestone{
					{ID: "m-2", Title: "Beta", StartDate: domain.Date(2025, 3, 10), EndDate: domain.Date(2025, 3, 20), Tags: []string{"beta", "ext"}, StatusColor: "#b8bb26"},
					{ID: "m-1", Title: "GA", StartDate: domain.Date(2025, 4, 20), EndDate: domain.Date(2025, 4, 30), StatusColor: "#b8bb26"},
				},
			},
			{
				ID: "p-1", Title: "Search", Owner: "Bob",
				StartDate: domain.Date(2025, 2, 1), EndDate: domain.Date(2025, 2, 28),
				StatusColor: "#83a598",
			},
		},
		Dependencies: []domain.Dependency{
			{ID: "d-1", FromProjectID: "p-1", ToProjectID: "p-9", ToMilestoneID: "m-2", Waypoints: []domain.Waypoint{{X: 1.5, Y: 2}}},
		},
		LeaveBlocks: []domain.LeaveBlock{
			{ID: "l-1", MemberID: "tm-2", StartDate: domain.Date(2025, 3, 3), EndDate: domain.Date(2025, 3, 7), Type: domain.LeaveAnnual, Coverage: domain.CoverageFull},
		},
		PeriodMarkers: []domain.PeriodMarker{
			{ID: "pm-1", StartDate: domain.Date(2025, 6, 1), EndDate: domain.Date(2025, 6, 14), Color: domain.PeriodRed, Label: &label},
		},
	}
}

func TestRoundTrip_ExactValues(t *testing.T) {
	data := sampleData()

	doc, err := ToWireFormat(data)
	require.NoError(t, err)
	got, err := FromWireFormat(doc)
	require.NoError(t, err)

	assert.Equal(t, data, got)
}

func TestRoundTrip_AfterLastMilestoneRemoved(t *testing.T) {
	data := sampleData()
	data.Projects[0].Milestones = domain.Remove(data.Projects[0].Milestones, 1)
	data.Projects[0].Milestones = domain.Remove(data.Projects[0].Milestones, 0)
	data.Dependencies = nil

	doc, err := ToWireFormat(data)
	require.NoError(t, err)
	got, err := FromWireFormat(doc)
	require.NoError(t, err)

	assert.Equal(t, data, got)
}

func TestRoundTrip_ThroughEncodedBytes(t *testing.T) {
	doc, err := ToWireFormat(sampleData())
	require.NoError(t, err)
	body, err := doc.Encode()
	require.NoError(t, err)

	decoded, err := Decode(body)
	require.NoError(t, err)
	assert.False(t, IsLegacyFormat(decoded))

	got, err := FromWireFormat(decoded)
	require.NoError(t, err)
	assert.Equal(t, sampleData(), got)
}

func TestToWireFormat_RecomputesMemberOrder(t *testing.T) {
	data := sampleData()
	data.TeamMembers[0].Order = 7
	data.TeamMembers[1].Order = 3

	doc, err := ToWireFormat(data)
	require.NoError(t, err)

	var members map[string]struct {
		Order int `json:"order"`
	}
	require.NoError(t, json.Unmarshal(doc.TeamMembers, &members))
	assert.Equal(t, 0, members["tm-2"].Order)
	assert.Equal(t, 1, members["tm-1"].Order)

	got, err := FromWireFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, "tm-2", got.TeamMembers[0].ID)
	assert.Equal(t, 0, got.TeamMembers[0].Order)
}

func TestToWireFormat_KeyedAndDropsMissingIDs(t *testing.T) {
	data := sampleData()
	data.Projects = append(data.Projects, domain.Project{Title: "no id"})
	data.Dependencies = append(data.Dependencies, domain.Dependency{FromProjectID: "p-1", ToProjectID: "p-9"})

	doc, err := ToWireFormat(data)
	require.NoError(t, err)

	var projects map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc.Projects, &projects))
	assert.Len(t, projects, 2)
	assert.Contains(t, projects, "p-9")

	var p struct {
		Milestones map[string]json.RawMessage `json:"milestones"`
	}
	require.NoError(t, json.Unmarshal(projects["p-9"], &p))
	assert.Len(t, p.Milestones, 2, "nested milestones are keyed too")

	var deps map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc.Dependencies, &deps))
	assert.Len(t, deps, 1)
}

func TestToWireFormat_EmptyDataWritesEmptyMaps(t *testing.T) {
	doc, err := ToWireFormat(domain.RoadmapData{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(doc.Projects))
	assert.JSONEq(t, `{}`, string(doc.PeriodMarkers))
	assert.False(t, IsLegacyFormat(doc))
}

func TestToWireFormat_WireFieldNames(t *testing.T) {
	doc, err := ToWireFormat(sampleData())
	require.NoError(t, err)
	assert.JSONEq(t, `{"d-1":{"id":"d-1","fromProjectId":"p-1","toProjectId":"p-9","toMilestoneId":"m-2","waypoints":[{"x":1.5,"y":2}]}}`, string(doc.Dependencies))
	assert.JSONEq(t, `{"l-1":{"id":"l-1","memberId":"tm-2","startDate":"2025-03-03","endDate":"2025-03-07","type":"annual","coverage":"full"}}`, string(doc.LeaveBlocks))
}
