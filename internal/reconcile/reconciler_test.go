package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/domain"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/wire"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	body       []byte
	writes     [][]byte
	failWrites int
	failErr    error
	readErr    error
	pingErr    error
	gate       chan struct{} // when set, writes block until it is closed
	started    chan struct{} // when set, receives one value per write
}

func (s *fakeStore) Read(context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.body, nil
}

func (s *fakeStore) Write(ctx context.Context, body []byte) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites > 0 {
		s.failWrites--
		return s.failErr
	}
	s.body = body
	s.writes = append(s.writes, body)
	return nil
}

func (s *fakeStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

func (s *fakeStore) snapshot() ([]byte, [][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body, append([][]byte(nil), s.writes...)
}

type memOutbox struct {
	mu    sync.Mutex
	entry *OutboxEntry
}

func (o *memOutbox) Get(context.Context) (OutboxEntry, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.entry == nil {
		return OutboxEntry{}, false, nil
	}
	return *o.entry, true, nil
}

func (o *memOutbox) Put(_ context.Context, body []byte, dirty bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entry = &OutboxEntry{Body: body, Dirty: dirty, UpdatedAt: time.Now()}
	return nil
}

func (o *memOutbox) MarkSynced(_ context.Context, body []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.entry != nil && string(o.entry.Body) == string(body) {
		o.entry.Dirty = false
	}
	return nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestReconciler(t *testing.T, store Store, opts Options) *Reconciler {
	t.Helper()
	if opts.Retry.Sleep == nil {
		opts.Retry.Sleep = noSleep
	}
	r := New(store, opts)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = r.Close(ctx)
	})
	return r
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func roadmapWith(titles ...string) domain.RoadmapData {
	var data domain.RoadmapData
	for i, title := range titles {
		data.Projects = append(data.Projects, domain.Project{
			ID: title, Title: title, Owner: "Ada",
			StartDate: domain.Date(2025, 1, 1+i), EndDate: domain.Date(2025, 1, 10+i),
			StatusColor: domain.DefaultStatusColor,
		})
	}
	return data
}

func encoded(t *testing.T, data domain.RoadmapData) []byte {
	t.Helper()
	doc, err := wire.ToWireFormat(data)
	require.NoError(t, err)
	body, err := doc.Encode()
	require.NoError(t, err)
	return body
}

func TestReconciler_SaveWritesInBackground(t *testing.T) {
	store := &fakeStore{}
	outbox := &memOutbox{}
	r := newTestReconciler(t, store, Options{Outbox: outbox})

	data := roadmapWith("alpha")
	require.NoError(t, r.Save(context.Background(), data))
	require.NoError(t, r.Wait(waitCtx(t)))

	body, _ := store.snapshot()
	assert.Equal(t, encoded(t, data), body)
	assert.False(t, r.Pending())

	entry, ok, _ := outbox.Get(context.Background())
	require.True(t, ok)
	assert.False(t, entry.Dirty, "outbox copy is marked synced after the write")
}

func TestReconciler_OfflineQueuesUntilOnline(t *testing.T) {
	store := &fakeStore{}
	outbox := &memOutbox{}
	r := newTestReconciler(t, store, Options{Outbox: outbox, Offline: true})

	data := roadmapWith("alpha")
	require.NoError(t, r.Save(context.Background(), data))
	assert.ErrorIs(t, r.Wait(waitCtx(t)), ErrOffline)
	assert.True(t, r.Pending())

	_, writes := store.snapshot()
	assert.Empty(t, writes, "nothing is attempted while offline")
	entry, ok, _ := outbox.Get(context.Background())
	require.True(t, ok)
	assert.True(t, entry.Dirty)

	r.SetOnline(true)
	require.NoError(t, r.Wait(waitCtx(t)))
	body, _ := store.snapshot()
	assert.Equal(t, encoded(t, data), body)
}

func TestReconciler_CoalescesToNewestSnapshot(t *testing.T) {
	store := &fakeStore{gate: make(chan struct{}), started: make(chan struct{}, 8)}
	r := newTestReconciler(t, store, Options{})
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, roadmapWith("a")))
	<-store.started // first write is in flight and blocked

	require.NoError(t, r.Save(ctx, roadmapWith("a", "b")))
	require.NoError(t, r.Save(ctx, roadmapWith("a", "b", "c")))
	close(store.gate)

	require.NoError(t, r.Wait(waitCtx(t)))
	body, writes := store.snapshot()
	assert.Equal(t, encoded(t, roadmapWith("a", "b", "c")), body)
	assert.Len(t, writes, 2, "the intermediate snapshot is never written")
}

func TestReconciler_TransientExhaustionGoesOfflineAndRecovers(t *testing.T) {
	store := &fakeStore{failWrites: 3, failErr: ErrUnavailable}
	var retries int
	var mu sync.Mutex
	r := newTestReconciler(t, store, Options{Retry: RetryOptions{
		MaxRetries: 2,
		OnRetry: func(error, int) {
			mu.Lock()
			retries++
			mu.Unlock()
		},
	}})

	require.NoError(t, r.Save(context.Background(), roadmapWith("a")))
	err := r.Wait(waitCtx(t))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, r.Online())
	assert.True(t, r.Pending(), "the snapshot is not dropped")

	mu.Lock()
	assert.Equal(t, 2, retries)
	mu.Unlock()

	assert.ErrorIs(t, r.TakeError(), ErrUnavailable)
	assert.NoError(t, r.TakeError(), "the error slot is consumed once")

	r.SetOnline(true)
	require.NoError(t, r.Wait(waitCtx(t)))
	body, _ := store.snapshot()
	assert.Equal(t, encoded(t, roadmapWith("a")), body)
}

func TestReconciler_PermanentErrorSurfacesWithoutRetry(t *testing.T) {
	store := &fakeStore{failWrites: 1, failErr: ErrPermissionDenied, started: make(chan struct{}, 8)}
	r := newTestReconciler(t, store, Options{Retry: RetryOptions{MaxRetries: 5}})

	require.NoError(t, r.Save(context.Background(), roadmapWith("a")))
	assert.ErrorIs(t, r.Wait(waitCtx(t)), ErrPermissionDenied)
	assert.Len(t, store.started, 1)
	assert.True(t, r.Online())
	assert.True(t, r.Status().Stalled)

	// A manual flush tries again.
	require.NoError(t, r.Flush(waitCtx(t)))
	assert.False(t, r.Pending())
}

func TestReconciler_StalledWaitSettlesAfterErrorIsTaken(t *testing.T) {
	store := &fakeStore{failWrites: 1, failErr: ErrPermissionDenied}
	r := newTestReconciler(t, store, Options{Retry: RetryOptions{MaxRetries: 5}})

	require.NoError(t, r.Save(context.Background(), roadmapWith("a")))
	assert.ErrorIs(t, r.Wait(waitCtx(t)), ErrPermissionDenied)
	assert.ErrorIs(t, r.TakeError(), ErrPermissionDenied)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	err := r.Wait(ctx)
	assert.ErrorIs(t, err, ErrPermissionDenied, "a stalled queue still settles once the report is consumed")
	assert.NotErrorIs(t, err, context.DeadlineExceeded)

	st := r.Status()
	assert.True(t, st.Stalled)
	assert.NoError(t, st.LastErr)
}

func TestReconciler_LoadMigratesLegacyDocument(t *testing.T) {
	legacy := []byte(`{"projects":[{"id":"p1","title":"A","owner":"Ada","startDate":"2025-01-01","endDate":"2025-01-05","statusColor":"#83a598"}],"teamMembers":{}}`)
	store := &fakeStore{body: legacy}
	r := newTestReconciler(t, store, Options{Outbox: &memOutbox{}})

	data, err := r.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Projects, 1)

	require.NoError(t, r.Wait(waitCtx(t)))
	body, writes := store.snapshot()
	require.Len(t, writes, 1, "legacy documents are rewritten once")
	doc, err := wire.Decode(body)
	require.NoError(t, err)
	assert.False(t, wire.IsLegacyFormat(doc))
}

func TestReconciler_LoadKeyedDocumentDoesNotWrite(t *testing.T) {
	store := &fakeStore{body: encoded(t, roadmapWith("a"))}
	r := newTestReconciler(t, store, Options{})

	data, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, roadmapWith("a").Projects, data.Projects)
	require.NoError(t, r.Wait(waitCtx(t)))
	_, writes := store.snapshot()
	assert.Empty(t, writes)
}

func TestReconciler_LoadPrefersDirtyOutbox(t *testing.T) {
	store := &fakeStore{body: encoded(t, roadmapWith("remote"))}
	outbox := &memOutbox{}
	require.NoError(t, outbox.Put(context.Background(), encoded(t, roadmapWith("local")), true))
	r := newTestReconciler(t, store, Options{Outbox: outbox})

	data, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "local", data.Projects[0].ID)

	require.NoError(t, r.Wait(waitCtx(t)))
	body, _ := store.snapshot()
	assert.Equal(t, encoded(t, roadmapWith("local")), body, "unsynced local changes are pushed")
}

func TestReconciler_LoadFallsBackToCleanLocalCopy(t *testing.T) {
	store := &fakeStore{readErr: ErrUnavailable}
	outbox := &memOutbox{}
	require.NoError(t, outbox.Put(context.Background(), encoded(t, roadmapWith("cached")), false))
	r := newTestReconciler(t, store, Options{Outbox: outbox, Retry: RetryOptions{MaxRetries: 1}})

	data, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cached", data.Projects[0].ID)
	assert.False(t, r.Online())
}

func TestReconciler_LoadOfflineWithoutLocalCopy(t *testing.T) {
	r := newTestReconciler(t, &fakeStore{}, Options{Offline: true})
	_, err := r.Load(context.Background())
	assert.ErrorIs(t, err, ErrOffline)
}

func TestReconciler_LoadMalformedIsNotRetried(t *testing.T) {
	store := &fakeStore{body: []byte(`{"projects": 7}`)}
	r := newTestReconciler(t, store, Options{Retry: RetryOptions{MaxRetries: 3}})
	_, err := r.Load(context.Background())
	assert.ErrorIs(t, err, wire.ErrMalformedDocument)
}

func TestReconciler_Probe(t *testing.T) {
	store := &fakeStore{pingErr: errors.New("unreachable")}
	r := newTestReconciler(t, store, Options{})

	assert.Error(t, r.Probe(context.Background()))
	assert.False(t, r.Online())

	store.mu.Lock()
	store.pingErr = nil
	store.mu.Unlock()
	assert.NoError(t, r.Probe(context.Background()))
	assert.True(t, r.Online())
}

func TestReconciler_Metrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	store := &fakeStore{failWrites: 1, failErr: ErrUnavailable}
	r := newTestReconciler(t, store, Options{Metrics: m, Retry: RetryOptions{MaxRetries: 2}})

	require.NoError(t, r.Save(context.Background(), roadmapWith("a")))
	require.NoError(t, r.Wait(waitCtx(t)))

	assert.Equal(t, 1.0, promtest.ToFloat64(m.writes.WithLabelValues("ok")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.writes.WithLabelValues("error")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.retries))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.pending))
}

func TestReconciler_SaveAfterClose(t *testing.T) {
	r := New(&fakeStore{}, Options{})
	require.NoError(t, r.Close(context.Background()))
	assert.ErrorIs(t, r.Save(context.Background(), roadmapWith("a")), ErrClosed)
}
