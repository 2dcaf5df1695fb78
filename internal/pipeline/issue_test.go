package pipeline

import (
	"context"
	"testing"
	"time"

	"issue-sync/internal/model"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T) *IssuePipeline {
	t.Helper()
	exec := NewExecutor(2)
	t.Cleanup(exec.Close)
	return NewIssuePipeline(exec)
}

func TestTransformCopiesFields(t *testing.T) {
	p := newTestPipeline(t)
	createdAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	issue := &model.Issue{
		ID:        42,
		Title:     "Bug",
		State:     "open",
		URL:       "https://x/42",
		CreatedAt: createdAt,
	}

	before := time.Now().UTC()
	res := <-p.Transform(context.Background(), issue)
	after := time.Now().UTC()

	require.NoError(t, res.Err)
	doc := res.Value
	assert.Equal(t, "42", doc.ID)
	assert.Equal(t, "Bug", doc.Title)
	assert.Equal(t, "open", doc.State)
	assert.Equal(t, "https://x/42", doc.URL)
	assert.Equal(t, createdAt, doc.CreatedAt)
	assert.False(t, doc.SyncedAt.Before(before))
	assert.False(t, doc.SyncedAt.After(after))
}

func TestTransformNilIssue(t *testing.T) {
	p := newTestPipeline(t)

	res := <-p.Transform(context.Background(), nil)
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, ErrInvalidArgument))
}

func TestTransformBatchNilList(t *testing.T) {
	p := newTestPipeline(t)

	res := <-p.TransformBatch(context.Background(), nil)
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, ErrInvalidArgument))
}

func TestTransformBatchFiltersNilElements(t *testing.T) {
	p := newTestPipeline(t)
	a := &model.Issue{ID: 1, Title: "A", State: "open", URL: "https://x/1"}
	b := &model.Issue{ID: 2, Title: "B", State: "closed", URL: "https://x/2"}

	res := <-p.TransformBatch(context.Background(), []*model.Issue{a, nil, b})

	require.NoError(t, res.Err)
	require.Len(t, res.Value, 2)
	assert.Equal(t, "1", res.Value[0].ID)
	assert.Equal(t, "2", res.Value[1].ID)
}

func TestTransformBatchEmptyList(t *testing.T) {
	p := newTestPipeline(t)

	res := <-p.TransformBatch(context.Background(), []*model.Issue{})
	require.NoError(t, res.Err)
	assert.Empty(t, res.Value)
}

func TestTransformBatchSharedTimestamp(t *testing.T) {
	p := newTestPipeline(t)

	ins := make([]*model.Issue, 50)
	for i := range ins {
		ins[i] = &model.Issue{ID: int64(i + 1), Title: "issue", State: "open"}
	}

	res := <-p.TransformBatch(context.Background(), ins)
	require.NoError(t, res.Err)
	require.Len(t, res.Value, 50)

	syncedAt := res.Value[0].SyncedAt
	for _, doc := range res.Value {
		assert.Equal(t, syncedAt, doc.SyncedAt)
	}
}

func TestTransformEqualIssuesDifferOnlyInSyncedAt(t *testing.T) {
	p := newTestPipeline(t)
	createdAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	mk := func() *model.Issue {
		return &model.Issue{ID: 7, Title: "same", State: "open", URL: "https://x/7", CreatedAt: createdAt}
	}

	first := <-p.Transform(context.Background(), mk())
	second := <-p.Transform(context.Background(), mk())
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)

	a, b := first.Value, second.Value
	a.SyncedAt = time.Time{}
	b.SyncedAt = time.Time{}
	assert.Equal(t, a, b)
}

func TestSupports(t *testing.T) {
	p := newTestPipeline(t)

	assert.True(t, p.Supports(CapGitHubIssue, CapFirestoreDocument))
	assert.False(t, p.Supports(CapFirestoreDocument, CapGitHubIssue))
	assert.False(t, p.Supports(CapFirestoreDocument, CapFirestoreDocument))
	assert.False(t, p.Supports(Capability("jira.issue"), CapFirestoreDocument))
}

func TestIdentityAndPriority(t *testing.T) {
	p := newTestPipeline(t)

	assert.Equal(t, IssuePipelineID, p.ID())
	assert.Equal(t, 100, p.Priority())
}

func TestTransformCancelledContext(t *testing.T) {
	p := newTestPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-p.Transform(ctx, &model.Issue{ID: 1})
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, context.Canceled))
}
