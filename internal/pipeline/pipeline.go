package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrInvalidArgument is returned through a failed Result when a
// required top-level argument is missing. Check with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Capability is an enumerated tag naming a record shape a pipeline can
// consume or produce. Selection works on tags, not runtime types.
type Capability string

const (
	CapGitHubIssue       Capability = "github.issue"
	CapFirestoreDocument Capability = "firestore.document"
)

// Result is the outcome of an asynchronous transformation. Err is set
// when the call failed; Value is meaningful otherwise.
type Result[T any] struct {
	Value T
	Err   error
}

// Pipeline is a named, priority-ranked transformation strategy from one
// typed record to another. Implementations are stateless across calls
// and safe for concurrent use; work runs on a shared executor, so the
// returned channel must be awaited rather than assumed complete.
//
// Transform rejects a nil input with ErrInvalidArgument. TransformBatch
// rejects a nil slice with ErrInvalidArgument but silently drops nil
// elements inside the slice; the asymmetry is deliberate, see DESIGN.md.
// Within one TransformBatch call every output shares a single sync
// timestamp captured before any element is processed, and output order
// matches input order minus the dropped elements.
type Pipeline[In, Out any] interface {
	Transform(ctx context.Context, in *In) <-chan Result[Out]
	TransformBatch(ctx context.Context, ins []*In) <-chan Result[[]Out]

	// Supports reports whether this pipeline can produce output records
	// tagged out from input records tagged in. Pure, no side effects.
	Supports(in, out Capability) bool

	// ID is the stable registry key for this pipeline variant.
	ID() string

	// Priority breaks ties when several pipelines support the same
	// capability pair; higher wins. Default is 0.
	Priority() int
}

// Info is the API-facing description of a registered pipeline.
type Info struct {
	ID       string     `json:"id"`
	Priority int        `json:"priority"`
	Input    Capability `json:"input"`
	Output   Capability `json:"output"`
}
