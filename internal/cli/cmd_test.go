package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/repository"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/service"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp wires a full App over an in-memory store and a live reconciler.
func testApp(t *testing.T, initial domain.RoadmapData) (*App, *testutil.MemStore) {
	t.Helper()
	t.Setenv("ROADMAP_HOME", t.TempDir())

	store := testutil.NewMemStore(nil)
	rec := reconcile.New(store, reconcile.Options{
		Retry:  reconcile.RetryOptions{MaxRetries: 1, BaseDelay: time.Millisecond},
		Logger: quietLogger(),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = rec.Close(ctx)
	})

	svc := service.NewRoadmapService(initial, rec, history.New(50), quietLogger())
	return &App{Roadmap: svc, Sync: rec}, store
}

// seededData has Ada with two touching projects and Bob with none.
func seededData() domain.RoadmapData {
	ada := testutil.NewTestMember("Ada", testutil.WithMemberID("tm-ada"), testutil.WithJobTitle("Engineer"))
	bob := testutil.NewTestMember("Bob", testutil.WithMemberID("tm-bob"))
	search := testutil.NewTestProject("Search", testutil.WithProjectID("p-search"), testutil.WithOwner(ada),
		testutil.WithDates(testutil.Day(time.March, 1), testutil.Day(time.March, 5)),
		testutil.WithMilestones(testutil.NewTestMilestone("Beta", testutil.WithMilestoneID("m-beta"),
			testutil.WithMilestoneDates(testutil.Day(time.March, 2), testutil.Day(time.March, 3)))))
	billing := testutil.NewTestProject("Billing", testutil.WithProjectID("p-billing"), testutil.WithOwner(ada),
		testutil.WithDates(testutil.Day(time.March, 5), testutil.Day(time.March, 9)))
	return domain.RoadmapData{
		TeamMembers: []domain.TeamMember{ada, bob},
		Projects:    []domain.Project{search, billing},
	}
}

// executeCmd runs a cobra command and captures stdout and stderr together.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- members ---

func TestMemberAdd_PersistsAndLists(t *testing.T) {
	app, store := testApp(t, domain.RoadmapData{})

	out, err := executeCmd(t, app, "member", "add", "--name", "Ada", "--title", "Engineer")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Ada")
	assert.Contains(t, string(store.Body()), "Ada", "one-shot command flushes before exiting")

	out, err = executeCmd(t, app, "member", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Engineer")
}

func TestMemberAdd_NonInteractiveRequiresName(t *testing.T) {
	app, _ := testApp(t, domain.RoadmapData{})

	_, err := executeCmd(t, app, "member", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag --name not set")
}

func TestMemberRename_LinkedProjectsFollow(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "member", "rename", "ada", "--name", "Ada L.")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated Ada L.")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada L.")
}

func TestMemberReorder_ChangesLaneOrder(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "member", "reorder", "Bob", "Ada")
	require.NoError(t, err)
	members := app.Roadmap.Data().TeamMembers
	require.Len(t, members, 2)
	assert.Equal(t, "tm-bob", members[0].ID)
}

func TestMemberRemove_UnknownMember(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "member", "rm", "Zed", "-y")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- projects ---

func TestProjectAdd_LinksMemberByName(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "project", "add",
		"--title", "Infra", "--owner", "bob", "--start", "2025-04-01", "--end", "2025-04-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project Infra")

	data := app.Roadmap.Data()
	p := data.Projects[len(data.Projects)-1]
	assert.Equal(t, "tm-bob", p.OwnerID)
	assert.Equal(t, "Bob", p.Owner)
}

func TestProjectAdd_FreeTextOwnerStaysUnlinked(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "project", "add",
		"--title", "Ghost", "--owner", "Zed", "--start", "2025-04-01", "--end", "2025-04-02")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Zed (unlinked)")
}

func TestProjectAdd_BadDate(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "project", "add",
		"--title", "X", "--owner", "Ada", "--start", "April 1st", "--end", "2025-04-02")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--start")
	assert.Len(t, app.Roadmap.Data().Projects, 2)
}

func TestProjectMove_ShiftsProjectAndMilestones(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "project", "move", "Search", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Moved Search to 2025-03-03")

	p := app.Roadmap.Data().Projects[0]
	assert.Equal(t, testutil.Day(time.March, 3), p.StartDate)
	assert.Equal(t, testutil.Day(time.March, 4), p.Milestones[0].StartDate)
}

func TestProjectMove_ToDate(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "project", "move", "p-billing", "--to", "2025-03-20")
	require.NoError(t, err)
	p := app.Roadmap.Data().Projects[1]
	assert.Equal(t, testutil.Day(time.March, 20), p.StartDate)
	assert.Equal(t, testutil.Day(time.March, 24), p.EndDate)
}

func TestProjectMove_ZeroDaysIsNoop(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "project", "move", "Search", "--days", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to move.")
	assert.False(t, app.Roadmap.CanUndo())
}

func TestProjectUpdate_ClearOverrideConflictsWithOverride(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "project", "update", "Search", "--override", "#ff0000", "--clear-override")
	require.Error(t, err)
}

func TestProjectRemove_DropsDependencies(t *testing.T) {
	app, _ := testApp(t, seededData())
	_, err := executeCmd(t, app, "dep", "add", "Search", "Billing")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "project", "rm", "Search", "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project Search")
	assert.Empty(t, app.Roadmap.Data().Dependencies)
}

// --- milestones and dependencies ---

func TestMilestoneAdd_AndShow(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "milestone", "add", "Billing",
		"--title", "GA", "--start", "2025-03-08", "--end", "2025-03-09", "--tags", "launch,external")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "project", "show", "Billing")
	require.NoError(t, err)
	assert.Contains(t, out, "GA")
}

func TestDepAdd_RejectsCycle(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "dep", "add", "Search", "Billing")
	require.NoError(t, err)
	assert.Contains(t, out, "Search → Billing")

	_, err = executeCmd(t, app, "dep", "add", "Billing", "Search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
	assert.Len(t, app.Roadmap.Data().Dependencies, 1)
}

func TestDepAdd_MilestoneEndpoint(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "dep", "add", "Billing", "Search", "--to-milestone", "Beta")
	require.NoError(t, err)
	assert.Contains(t, out, "Search / Beta")

	// The reverse edge at project granularity touches different nodes.
	_, err = executeCmd(t, app, "dep", "add", "Search", "Billing")
	require.NoError(t, err)
}

func TestDepRoute_SetsWaypoints(t *testing.T) {
	app, _ := testApp(t, seededData())
	_, err := executeCmd(t, app, "dep", "add", "Search", "Billing")
	require.NoError(t, err)
	id := app.Roadmap.Data().Dependencies[0].ID

	out, err := executeCmd(t, app, "dep", "route", id, "--point", "10,20", "--point", "30,40")
	require.NoError(t, err)
	assert.Contains(t, out, "2 waypoint(s)")
	assert.Equal(t, []domain.Waypoint{{X: 10, Y: 20}, {X: 30, Y: 40}}, app.Roadmap.Data().Dependencies[0].Waypoints)
}

// --- leave and periods ---

func TestLeaveAdd_DefaultsToAnnualFullDay(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "leave", "add", "--member", "Bob", "--start", "2025-03-03", "--end", "2025-03-07")
	require.NoError(t, err)
	assert.Contains(t, out, "Booked annual leave")

	l := app.Roadmap.Data().LeaveBlocks[0]
	assert.Equal(t, "tm-bob", l.MemberID)
	assert.Equal(t, domain.LeaveAnnual, l.Type)
	assert.Equal(t, domain.CoverageFull, l.Coverage)
}

func TestPeriodAdd_AndList(t *testing.T) {
	app, _ := testApp(t, seededData())

	_, err := executeCmd(t, app, "period", "add", "--start", "2025-03-10", "--end", "2025-03-14", "--color", "red", "--label", "Freeze")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "period", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Freeze")
}

// --- views ---

func TestLayout_ShowsStackedRows(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "layout", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "TIMELINE")
	assert.Contains(t, out, "2 rows", "Search and Billing share 2025-03-05")
}

func TestConflicts_ListsTouchingProjects(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "conflicts")
	require.NoError(t, err)
	assert.Contains(t, out, "CONFLICTS (1)")
	assert.Contains(t, out, "Search")
	assert.Contains(t, out, "Billing")
}

// --- undo / redo ---

func TestUndoRedo_AcrossCommands(t *testing.T) {
	app, _ := testApp(t, domain.RoadmapData{})

	_, err := executeCmd(t, app, "member", "add", "--name", "Ada")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Undone.")
	assert.Empty(t, app.Roadmap.Data().TeamMembers)

	out, err = executeCmd(t, app, "redo")
	require.NoError(t, err)
	assert.Contains(t, out, "Redone.")
	assert.Len(t, app.Roadmap.Data().TeamMembers, 1)

	out, err = executeCmd(t, app, "redo")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to redo.")
}

func TestUndo_EmptyStack(t *testing.T) {
	app, _ := testApp(t, domain.RoadmapData{})

	out, err := executeCmd(t, app, "undo")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to undo.")
}

func TestUndoMessage(t *testing.T) {
	assert.Contains(t, undoMessage(true, true, "Undone.", "Nothing to undo."), "Undone.")
	assert.Contains(t, undoMessage(false, true, "Undone.", "Nothing to undo."), "no longer applies")
	assert.Contains(t, undoMessage(false, false, "Undone.", "Nothing to undo."), "Nothing to undo.")
}

// --- export / import ---

func TestExportImport_RoundTrip(t *testing.T) {
	app, _ := testApp(t, seededData())
	dir := t.TempDir()
	path := filepath.Join(dir, "roadmap.yaml")

	out, err := executeCmd(t, app, "export", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Search")

	other, _ := testApp(t, domain.RoadmapData{})
	out, err = executeCmd(t, other, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 project(s), 2 member(s), 0 dependency(ies)")
	assert.Equal(t, app.Roadmap.Data().Projects[0].Title, other.Roadmap.Data().Projects[0].Title)

	// Import is one undoable step.
	_, err = executeCmd(t, other, "undo")
	require.NoError(t, err)
	assert.Empty(t, other.Roadmap.Data().Projects)
}

func TestImport_RejectsCycles(t *testing.T) {
	app, _ := testApp(t, domain.RoadmapData{})
	path := filepath.Join(t.TempDir(), "cyclic.json")
	doc := `{
  "projects": {
    "a": {"id": "a", "title": "A", "owner": "X", "startDate": "2025-03-01", "endDate": "2025-03-02", "statusColor": "#83a598"},
    "b": {"id": "b", "title": "B", "owner": "X", "startDate": "2025-03-01", "endDate": "2025-03-02", "statusColor": "#83a598"}
  },
  "dependencies": {
    "d1": {"id": "d1", "fromProjectId": "a", "toProjectId": "b"},
    "d2": {"id": "d2", "fromProjectId": "b", "toProjectId": "a"}
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := executeCmd(t, app, "import", path)
	require.Error(t, err)
	assert.Empty(t, app.Roadmap.Data().Projects)
}

func TestExport_UnknownFormat(t *testing.T) {
	app, _ := testApp(t, domain.RoadmapData{})

	_, err := executeCmd(t, app, "export", "--format", "toml")
	require.Error(t, err)
}

// --- sync and doctor ---

func TestSyncStatus_ReportsOffline(t *testing.T) {
	app, store := testApp(t, domain.RoadmapData{})
	store.SetUnreachable(true)

	out, err := executeCmd(t, app, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "offline")
}

func TestOfflineEdit_WarnsAndQueues(t *testing.T) {
	app, store := testApp(t, domain.RoadmapData{})
	store.SetUnreachable(true)
	_, err := executeCmd(t, app, "sync", "status")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "member", "add", "--name", "Ada")
	require.NoError(t, err, "offline is not a command failure")
	assert.Contains(t, out, "offline")
	assert.True(t, app.Sync.Status().Pending)

	store.SetUnreachable(false)
	out, err = executeCmd(t, app, "sync", "push")
	require.NoError(t, err)
	assert.Contains(t, out, "Roadmap saved.")
	assert.Contains(t, string(store.Body()), "Ada")
}

func TestSyncPush_FailsWhileUnreachable(t *testing.T) {
	app, store := testApp(t, domain.RoadmapData{})
	store.SetUnreachable(true)

	_, err := executeCmd(t, app, "sync", "push")
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrOffline)
}

func TestDoctor_Healthy(t *testing.T) {
	app, _ := testApp(t, seededData())

	out, err := executeCmd(t, app, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "dependency graph has no cycles")
	assert.Contains(t, out, "1 owner conflict(s)")
}

func TestDoctor_UnreachableStore(t *testing.T) {
	app, store := testApp(t, seededData())
	store.SetUnreachable(true)

	out, err := executeCmd(t, app, "doctor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doctor found 1 problem(s)")
	assert.Contains(t, out, "store is reachable")
}

// --- SQLite-backed store ---

// sqliteApp wires the App the way main does: a file-backed document store,
// a local outbox and an inspector for sync status and doctor.
func sqliteApp(t *testing.T, storePath string) *App {
	t.Helper()
	t.Setenv("ROADMAP_HOME", t.TempDir())

	store := repository.OpenSQLiteDocumentStore(storePath, "team", "tester")
	t.Cleanup(func() { _ = store.Close() })
	rec := reconcile.New(store, reconcile.Options{
		Retry:  reconcile.RetryOptions{MaxRetries: 1, BaseDelay: time.Millisecond},
		Outbox: repository.NewSQLiteOutbox(testutil.NewTestDB(t), "team"),
		Logger: quietLogger(),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = rec.Close(ctx)
	})

	data, err := rec.Load(context.Background())
	require.NoError(t, err)
	svc := service.NewRoadmapService(data, rec, history.New(50), quietLogger())
	return &App{Roadmap: svc, Sync: rec, Store: store}
}

func TestSQLiteStore_EditsSurviveRestart(t *testing.T) {
	path := testutil.NewTestDBPath(t, "shared")

	first := sqliteApp(t, path)
	_, err := executeCmd(t, first, "member", "add", "--name", "Ada")
	require.NoError(t, err)
	_, err = executeCmd(t, first, "project", "add",
		"--title", "Search", "--owner", "Ada", "--start", "2025-03-01", "--end", "2025-03-05")
	require.NoError(t, err)

	out, err := executeCmd(t, first, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "synced")
	assert.Contains(t, out, "tester")

	second := sqliteApp(t, path)
	data := second.Roadmap.Data()
	require.Len(t, data.Projects, 1)
	assert.Equal(t, data.TeamMembers[0].ID, data.Projects[0].OwnerID)
}

func TestDoctor_ReportsStoredRevision(t *testing.T) {
	app := sqliteApp(t, testutil.NewTestDBPath(t, "shared"))
	_, err := executeCmd(t, app, "member", "add", "--name", "Ada")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "stored document is readable")
	assert.Contains(t, out, "revision 1 by tester")
}

func TestDoctor_EmptyStore(t *testing.T) {
	app := sqliteApp(t, testutil.NewTestDBPath(t, "shared"))

	out, err := executeCmd(t, app, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "no document stored yet")
}
