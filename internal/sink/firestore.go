package sink

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/option"

	"issue-sync/internal/model"
)

// FirestoreWriter writes documents into one Firestore collection,
// keyed by the document ID. Writes are upserts, so re-syncing the same
// issue overwrites the previous version.
type FirestoreWriter struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreWriter connects to Firestore. credentialsFile may be
// empty, in which case application default credentials are used.
func NewFirestoreWriter(ctx context.Context, projectID, collection, credentialsFile string) (*FirestoreWriter, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to firestore project %s", projectID)
	}

	return &FirestoreWriter{client: client, collection: collection}, nil
}

// WriteBatch upserts a batch of documents through a BulkWriter and
// waits for all writes to flush before returning.
func (w *FirestoreWriter) WriteBatch(ctx context.Context, docs []model.Document) error {
	if len(docs) == 0 {
		return nil
	}

	bw := w.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		ref := w.client.Collection(w.collection).Doc(doc.ID)
		job, err := bw.Set(ref, doc)
		if err != nil {
			bw.End()
			return errors.Wrapf(err, "enqueueing document %s", doc.ID)
		}
		jobs = append(jobs, job)
	}
	bw.End() // flushes and waits

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errors.Wrapf(err, "writing document %s", docs[i].ID)
		}
	}
	return nil
}

func (w *FirestoreWriter) Close() error {
	return w.client.Close()
}
