package syncer

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"issue-sync/internal/model"
	"issue-sync/internal/pipeline"
	"issue-sync/internal/source"
	"issue-sync/internal/store"
)

type fakeLister struct {
	issues  []*model.Issue
	err     error
	gotOpts source.ListOptions
}

func (f *fakeLister) ListIssues(ctx context.Context, owner, repo string, opts source.ListOptions) ([]*model.Issue, error) {
	f.gotOpts = opts
	return f.issues, f.err
}

type fakeWriter struct {
	mu      sync.Mutex
	written []model.Document
	err     error
}

func (f *fakeWriter) WriteBatch(ctx context.Context, docs []model.Document) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, docs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func newTestSyncer(t *testing.T, lister *fakeLister, writer *fakeWriter) (*Syncer, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	exec := pipeline.NewExecutor(2)
	t.Cleanup(exec.Close)

	reg := pipeline.NewRegistry[model.Issue, model.Document]()
	require.NoError(t, reg.Register(pipeline.NewIssuePipeline(exec)))

	return New(lister, writer, st, reg, zap.NewNop().Sugar()), st
}

func testSpec() model.SyncJobSpec {
	return model.SyncJobSpec{Owner: "o", Repo: "r", State: "all", Collection: "issues", Workers: 2}
}

func TestRunEndToEnd(t *testing.T) {
	created := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	lister := &fakeLister{issues: []*model.Issue{
		{ID: 1, Title: "a", State: "open", URL: "https://x/1", CreatedAt: created},
		{ID: 2, Title: "b", State: "closed", URL: "https://x/2", CreatedAt: created.Add(time.Hour)},
	}}
	writer := &fakeWriter{}
	s, st := newTestSyncer(t, lister, writer)

	require.NoError(t, st.SaveRun("run-1", testSpec()))
	require.NoError(t, s.Run(context.Background(), "run-1", testSpec()))

	require.Len(t, writer.written, 2)
	assert.Equal(t, "1", writer.written[0].ID)
	assert.Equal(t, writer.written[0].SyncedAt, writer.written[1].SyncedAt)

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, run.Status)
	assert.Equal(t, 2, run.IssuesFetched)
	assert.Equal(t, 2, run.DocsWritten)

	cp, err := st.GetCheckpoint("o", "r")
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.True(t, cp.LastSyncedAt.Equal(created.Add(time.Hour)))
}

func TestRunUsesCheckpointAsSince(t *testing.T) {
	lister := &fakeLister{}
	s, st := newTestSyncer(t, lister, &fakeWriter{})

	last := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveCheckpoint("o", "r", last))
	require.NoError(t, st.SaveRun("run-1", testSpec()))

	require.NoError(t, s.Run(context.Background(), "run-1", testSpec()))
	assert.True(t, lister.gotOpts.Since.Equal(last))
}

func TestRunFullResyncIgnoresCheckpoint(t *testing.T) {
	lister := &fakeLister{}
	s, st := newTestSyncer(t, lister, &fakeWriter{})

	require.NoError(t, st.SaveCheckpoint("o", "r", time.Now()))
	spec := testSpec()
	spec.FullResync = true
	require.NoError(t, st.SaveRun("run-1", spec))

	require.NoError(t, s.Run(context.Background(), "run-1", spec))
	assert.True(t, lister.gotOpts.Since.IsZero())
}

func TestRunEmptyFetchCompletes(t *testing.T) {
	s, st := newTestSyncer(t, &fakeLister{}, &fakeWriter{})
	require.NoError(t, st.SaveRun("run-1", testSpec()))

	require.NoError(t, s.Run(context.Background(), "run-1", testSpec()))

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, run.Status)
	assert.Equal(t, 0, run.IssuesFetched)
}

func TestRunFetchFailureMarksRunFailed(t *testing.T) {
	lister := &fakeLister{err: errors.New("api down")}
	s, st := newTestSyncer(t, lister, &fakeWriter{})
	require.NoError(t, st.SaveRun("run-1", testSpec()))

	err := s.Run(context.Background(), "run-1", testSpec())
	require.Error(t, err)

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, run.Status)

	errsOut, err := st.GetRunErrors("run-1")
	require.NoError(t, err)
	assert.NotEmpty(t, errsOut)
}

func TestRunWriteFailureMarksRunFailed(t *testing.T) {
	lister := &fakeLister{issues: []*model.Issue{{ID: 1, Title: "a", CreatedAt: time.Now()}}}
	writer := &fakeWriter{err: errors.New("firestore unavailable")}
	s, st := newTestSyncer(t, lister, writer)
	require.NoError(t, st.SaveRun("run-1", testSpec()))

	err := s.Run(context.Background(), "run-1", testSpec())
	require.Error(t, err)

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, run.Status)

	// Checkpoint must not advance when writes failed.
	cp, err := st.GetCheckpoint("o", "r")
	require.NoError(t, err)
	assert.Nil(t, cp)
}
