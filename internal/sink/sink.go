package sink

import (
	"context"

	"issue-sync/internal/model"
)

// Writer persists transformed documents. The syncer only depends on
// this interface so tests can swap in a fake.
type Writer interface {
	WriteBatch(ctx context.Context, docs []model.Document) error
	Close() error
}
