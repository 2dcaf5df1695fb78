package pipeline

import (
	"context"
	"time"

	"issue-sync/internal/model"

	"github.com/cockroachdb/errors"
)

// IssuePipelineID is the registry key of the default issue pipeline.
const IssuePipelineID = "github-issues.firestore"

// IssuePipeline maps GitHub issues to Firestore documents. It is the
// primary variant for the github.issue -> firestore.document pair,
// registered with a high priority so alternatives lose ties.
type IssuePipeline struct {
	exec *Executor
}

func NewIssuePipeline(exec *Executor) *IssuePipeline {
	return &IssuePipeline{exec: exec}
}

// Transform maps a single issue, stamping SyncedAt at execution time.
func (p *IssuePipeline) Transform(ctx context.Context, in *model.Issue) <-chan Result[model.Document] {
	out := make(chan Result[model.Document], 1)
	p.exec.Submit(func() {
		defer close(out)

		if in == nil {
			out <- Result[model.Document]{Err: errors.Wrap(ErrInvalidArgument, "nil issue")}
			return
		}
		if err := ctx.Err(); err != nil {
			out <- Result[model.Document]{Err: err}
			return
		}

		out <- Result[model.Document]{Value: mapIssue(*in, time.Now().UTC())}
	})
	return out
}

// TransformBatch maps a sequence of issues. One SyncedAt is captured
// before any element is processed and shared across the whole batch;
// nil elements are dropped, order is otherwise preserved.
func (p *IssuePipeline) TransformBatch(ctx context.Context, ins []*model.Issue) <-chan Result[[]model.Document] {
	out := make(chan Result[[]model.Document], 1)
	p.exec.Submit(func() {
		defer close(out)

		if ins == nil {
			out <- Result[[]model.Document]{Err: errors.Wrap(ErrInvalidArgument, "nil issue list")}
			return
		}
		if err := ctx.Err(); err != nil {
			out <- Result[[]model.Document]{Err: err}
			return
		}

		syncedAt := time.Now().UTC()
		docs := make([]model.Document, 0, len(ins))
		for _, in := range ins {
			if in == nil {
				continue
			}
			docs = append(docs, mapIssue(*in, syncedAt))
		}
		out <- Result[[]model.Document]{Value: docs}
	})
	return out
}

func (p *IssuePipeline) Supports(in, out Capability) bool {
	return in == CapGitHubIssue && out == CapFirestoreDocument
}

func (p *IssuePipeline) ID() string { return IssuePipelineID }

func (p *IssuePipeline) Priority() int { return 100 }

// mapIssue builds the destination document for one issue. All source
// fields are copied verbatim; only SyncedAt is new.
func mapIssue(in model.Issue, syncedAt time.Time) model.Document {
	return model.Document{
		ID:        in.DocID(),
		Title:     in.Title,
		State:     in.State,
		URL:       in.URL,
		CreatedAt: in.CreatedAt,
		SyncedAt:  syncedAt,
	}
}
