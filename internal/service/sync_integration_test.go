package service

import (
	"context"
	"testing"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/history"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/repository"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/testutil"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncedService(t *testing.T, store reconcile.Store, outbox reconcile.Outbox) (RoadmapService, *reconcile.Reconciler) {
	t.Helper()
	rec := reconcile.New(store, reconcile.Options{
		Retry:  reconcile.RetryOptions{MaxRetries: 1, BaseDelay: time.Millisecond},
		Outbox: outbox,
		Logger: quietLogger(),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = rec.Close(ctx)
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := rec.Load(ctx)
	require.NoError(t, err)
	return NewRoadmapService(data, rec, history.New(history.DefaultLimit), quietLogger()), rec
}

func flushCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRoadmapService_WritesThroughReconciler(t *testing.T) {
	store := testutil.NewMemStore(nil)
	svc, rec := newSyncedService(t, store, nil)
	ctx := flushCtx(t)

	_, err := svc.AddTeamMember(ctx, MemberInput{Name: "Ada"})
	require.NoError(t, err)
	_, err = svc.AddProject(ctx, ProjectInput{
		Title: "Search", Owner: "Ada",
		StartDate: testutil.Day(time.March, 1), EndDate: testutil.Day(time.March, 9),
	})
	require.NoError(t, err)
	require.NoError(t, rec.Flush(ctx))

	doc, err := wire.Decode(store.Body())
	require.NoError(t, err)
	assert.False(t, wire.IsLegacyFormat(doc))
	got, err := wire.FromWireFormat(doc)
	require.NoError(t, err)
	assert.Equal(t, svc.Data().TeamMembers, got.TeamMembers)
	assert.Equal(t, svc.Data().Projects, got.Projects)
}

func TestRoadmapService_OfflineEditsFlushOnReconnect(t *testing.T) {
	store := testutil.NewMemStore(nil)
	svc, rec := newSyncedService(t, store, nil)
	ctx := flushCtx(t)

	store.SetUnreachable(true)
	rec.SetOnline(false)

	_, err := svc.AddTeamMember(ctx, MemberInput{Name: "Ada"})
	require.NoError(t, err, "offline edits are optimistic")
	_, err = svc.AddTeamMember(ctx, MemberInput{Name: "Bob"})
	require.NoError(t, err)
	assert.ErrorIs(t, rec.Wait(ctx), reconcile.ErrOffline)
	assert.True(t, rec.Pending())
	assert.Zero(t, store.Writes())

	store.SetUnreachable(false)
	require.NoError(t, rec.Probe(ctx))
	require.NoError(t, rec.Wait(ctx))
	assert.Equal(t, 1, store.Writes(), "queued edits coalesce into one write")

	doc, err := wire.Decode(store.Body())
	require.NoError(t, err)
	got, err := wire.FromWireFormat(doc)
	require.NoError(t, err)
	assert.Len(t, got.TeamMembers, 2)
}

func TestRoadmapService_OutboxSurvivesRestart(t *testing.T) {
	conn := testutil.NewTestDB(t)
	outbox := repository.NewSQLiteOutbox(conn, "team")
	store := testutil.NewMemStore(nil)

	first, rec := newSyncedService(t, store, outbox)
	ctx := flushCtx(t)
	store.SetUnreachable(true)
	rec.SetOnline(false)
	_, err := first.AddTeamMember(ctx, MemberInput{Name: "Ada"})
	require.NoError(t, err)
	require.ErrorIs(t, rec.Wait(ctx), reconcile.ErrOffline)

	// A new session prefers the unsynced local copy over the store.
	store.SetUnreachable(false)
	second, rec2 := newSyncedService(t, store, outbox)
	require.Len(t, second.Data().TeamMembers, 1)
	assert.Equal(t, "Ada", second.Data().TeamMembers[0].Name)
	require.NoError(t, rec2.Flush(ctx))

	entry, ok, err := outbox.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, entry.Dirty)
	assert.Equal(t, 1, store.Writes())
}
