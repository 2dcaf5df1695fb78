package poller

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"issue-sync/internal/model"
	"issue-sync/internal/store"
)

type countingRunner struct {
	runs  int64
	block chan struct{} // when set, Run blocks until closed
}

func (c *countingRunner) Run(ctx context.Context, runID string, spec model.SyncJobSpec) error {
	atomic.AddInt64(&c.runs, 1)
	if c.block != nil {
		<-c.block
	}
	return nil
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestPollerRunsOnSchedule(t *testing.T) {
	runner := &countingRunner{}
	p := New(20*time.Millisecond, model.SyncJobSpec{Owner: "o", Repo: "r"}, runner, openTestStore(t), zap.NewNop().Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
	defer cancel()
	p.Start(ctx)

	// Immediate run plus a few ticks.
	assert.GreaterOrEqual(t, atomic.LoadInt64(&runner.runs), int64(3))
}

func TestPollerSkipsOverlappingTicks(t *testing.T) {
	runner := &countingRunner{block: make(chan struct{})}
	p := New(10*time.Millisecond, model.SyncJobSpec{Owner: "o", Repo: "r"}, runner, openTestStore(t), zap.NewNop().Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	p.Start(ctx)
	close(runner.block)

	// The first run never finished, so every later tick was skipped.
	assert.Equal(t, int64(1), atomic.LoadInt64(&runner.runs))
}

func TestPollerPersistsRuns(t *testing.T) {
	st := openTestStore(t)
	runner := &countingRunner{}
	p := New(time.Hour, model.SyncJobSpec{Owner: "o", Repo: "r"}, runner, st, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	p.tick(ctx)

	require.Eventually(t, func() bool {
		runs, err := st.ListRuns()
		return err == nil && len(runs) == 1
	}, time.Second, 10*time.Millisecond)
	cancel()
}
