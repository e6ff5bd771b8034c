package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, body string) Document {
	t.Helper()
	doc, err := Decode([]byte(body))
	require.NoError(t, err)
	return doc
}

func TestIsLegacyFormat_OnlyProjectsArray(t *testing.T) {
	doc := mustDecode(t, `{
		"projects": [{"id":"p1","title":"A","owner":"Ada","startDate":"2025-01-01","endDate":"2025-01-05","statusColor":"#83a598"}],
		"teamMembers": {}, "dependencies": {}, "leaveBlocks": {}, "periodMarkers": {}
	}`)
	assert.True(t, IsLegacyFormat(doc))
	assert.Equal(t, []string{"projects"}, LegacyCollections(doc))
}

func TestIsLegacyFormat_NestedMilestonesArray(t *testing.T) {
	doc := mustDecode(t, `{"projects": {"p1": {"id":"p1","milestones":[{"id":"m1"}]}}}`)
	assert.True(t, IsLegacyFormat(doc))
	assert.Empty(t, LegacyCollections(doc))
}

func TestIsLegacyFormat_KeyedAndNullDocuments(t *testing.T) {
	assert.False(t, IsLegacyFormat(mustDecode(t, `{"projects": {}, "teamMembers": null}`)))
	assert.False(t, IsLegacyFormat(mustDecode(t, ``)))
	assert.True(t, mustDecode(t, `{"projects": null}`).IsEmpty())
}

func TestFromWireFormat_MixedShapes(t *testing.T) {
	doc := mustDecode(t, `{
		"projects": [
			{"id":"p1","title":"A","owner":"Ada","startDate":"2025-01-01","endDate":"2025-01-05","statusColor":"#83a598",
			 "milestones": {"m1": {"title":"Kickoff","startDate":"2025-01-01","endDate":"2025-01-01","statusColor":"#83a598"}}},
			null,
			{"id":"p2","title":"B","owner":"Bob","startDate":"2025-02-01","endDate":"2025-02-05","statusColor":"#83a598",
			 "milestones": [{"id":"m9","title":"Ship","startDate":"2025-02-05","endDate":"2025-02-05","statusColor":"#83a598"}, null]}
		],
		"teamMembers": {
			"tm-c": {"name":"Cy"},
			"tm-b": {"id":"tm-b","name":"Bob","order":1},
			"tm-a": {"id":"tm-a","name":"Ada","order":0},
			"tm-x": null
		},
		"dependencies": null,
		"periodMarkers": {"pm1": {"startDate":"2025-01-01","endDate":"2025-01-02","color":"grey"}}
	}`)

	data, err := FromWireFormat(doc)
	require.NoError(t, err)

	require.Len(t, data.Projects, 2, "null entries are skipped")
	assert.Equal(t, "m1", data.Projects[0].Milestones[0].ID, "map key fills a missing id")
	assert.Equal(t, "m9", data.Projects[1].Milestones[0].ID)
	assert.Len(t, data.Projects[1].Milestones, 1)

	require.Len(t, data.TeamMembers, 3)
	assert.Equal(t, "tm-a", data.TeamMembers[0].ID)
	assert.Equal(t, "tm-b", data.TeamMembers[1].ID)
	assert.Equal(t, "tm-c", data.TeamMembers[2].ID, "members without order sort last")

	assert.NotNil(t, data.Dependencies)
	assert.Empty(t, data.Dependencies)
	assert.Empty(t, data.LeaveBlocks)
	require.Len(t, data.PeriodMarkers, 1)
	assert.Equal(t, "pm1", data.PeriodMarkers[0].ID)
}

func TestFromWireFormat_MemberTiesBreakByID(t *testing.T) {
	doc := mustDecode(t, `{"teamMembers": {
		"z": {"name":"Z","order":2}, "b": {"name":"B"}, "a": {"name":"A"}, "y": {"name":"Y","order":2}
	}}`)
	data, err := FromWireFormat(doc)
	require.NoError(t, err)

	var ids []string
	for _, m := range data.TeamMembers {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"y", "z", "a", "b"}, ids)
}

func TestFromWireFormat_LegacyArrayEntriesWithoutIDAreDropped(t *testing.T) {
	doc := mustDecode(t, `{"leaveBlocks": [{"memberId":"tm-1","startDate":"2025-01-01","endDate":"2025-01-02","type":"sick","coverage":"full"}]}`)
	data, err := FromWireFormat(doc)
	require.NoError(t, err)
	assert.Empty(t, data.LeaveBlocks)
}

func TestFromWireFormat_Malformed(t *testing.T) {
	cases := map[string]string{
		"scalar collection": `{"projects": 42}`,
		"bad date":          `{"projects": {"p1": {"startDate":"01/02/2025"}}}`,
		"bad entity":        `{"teamMembers": {"tm": "nope"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromWireFormat(mustDecode(t, body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))
		})
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte(`{"projects": [`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestLegacyDocumentMigratesToKeyed(t *testing.T) {
	doc := mustDecode(t, `{"teamMembers": [{"id":"tm-1","name":"Ada"},{"id":"tm-2","name":"Bob"}]}`)
	require.True(t, IsLegacyFormat(doc))

	data, err := FromWireFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, "tm-1", data.TeamMembers[0].ID)

	migrated, err := ToWireFormat(data)
	require.NoError(t, err)
	assert.False(t, IsLegacyFormat(migrated))
	assert.JSONEq(t, `{"tm-1":{"id":"tm-1","name":"Ada","jobTitle":"","order":0},"tm-2":{"id":"tm-2","name":"Bob","jobTitle":"","order":1}}`, string(migrated.TeamMembers))
}
