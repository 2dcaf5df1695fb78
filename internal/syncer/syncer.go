package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"issue-sync/internal/model"
	"issue-sync/internal/pipeline"
	"issue-sync/internal/sink"
	"issue-sync/internal/source"
	"issue-sync/internal/store"
	"issue-sync/pkg/utils"
)

// writeChunkSize is how many documents one write worker hands to the
// sink at a time.
const writeChunkSize = 50

// IssueLister is the part of the source client the syncer depends on.
type IssueLister interface {
	ListIssues(ctx context.Context, owner, repo string, opts source.ListOptions) ([]*model.Issue, error)
}

// Syncer runs one sync cycle: fetch issues, transform them through the
// selected pipeline, write the documents, advance the checkpoint.
type Syncer struct {
	source   IssueLister
	sink     sink.Writer
	store    *store.Store
	registry *pipeline.Registry[model.Issue, model.Document]
	log      *zap.SugaredLogger
}

func New(src IssueLister, snk sink.Writer, st *store.Store, reg *pipeline.Registry[model.Issue, model.Document], log *zap.SugaredLogger) *Syncer {
	return &Syncer{source: src, sink: snk, store: st, registry: reg, log: log}
}

// Run executes a sync run end to end. The run must already be saved in
// the store; Run moves it through its lifecycle statuses and records
// errors, counts and the checkpoint as it goes.
func (s *Syncer) Run(ctx context.Context, runID string, spec model.SyncJobSpec) (err error) {
	start := time.Now()
	s.log.Infow("starting sync run", "run_id", runID, "owner", spec.Owner, "repo", spec.Repo)

	s.store.UpdateRunStatus(runID, model.StatusRunning)
	defer func() {
		if err != nil {
			s.store.UpdateRunStatus(runID, model.StatusFailed)
			s.store.SaveRunError(runID, "run", err)
			s.log.Errorw("sync run failed", "run_id", runID, "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(spec.JobTimeout))
	defer cancel()

	// --- FETCH STAGE ---
	s.store.UpdateRunStatus(runID, model.StatusFetching)

	opts := source.ListOptions{State: spec.State, PageSize: spec.PageSize}
	if !spec.FullResync {
		cp, cpErr := s.store.GetCheckpoint(spec.Owner, spec.Repo)
		if cpErr != nil {
			return errors.Wrap(cpErr, "loading checkpoint")
		}
		if cp != nil {
			opts.Since = cp.LastSyncedAt
		}
	}

	issues, err := s.source.ListIssues(ctx, spec.Owner, spec.Repo, opts)
	if err != nil {
		s.store.SaveRunError(runID, "fetch", err)
		return errors.Wrap(err, "fetching issues")
	}

	s.store.SaveRunLog(runID, "fetch", "info", "fetched issues", map[string]interface{}{
		"count": len(issues),
	})
	s.log.Infow("fetched issues", "run_id", runID, "count", len(issues))

	if len(issues) == 0 {
		s.store.UpdateRunCounts(runID, 0, 0)
		s.store.UpdateRunStatus(runID, model.StatusCompleted)
		s.log.Infow("sync run completed, nothing to do", "run_id", runID, "duration", time.Since(start))
		return nil
	}

	// --- TRANSFORM STAGE ---
	p, err := s.registry.Select(pipeline.CapGitHubIssue, pipeline.CapFirestoreDocument)
	if err != nil {
		return errors.Wrap(err, "selecting pipeline")
	}

	res := <-p.TransformBatch(ctx, issues)
	if res.Err != nil {
		s.store.SaveRunError(runID, "transform", res.Err)
		return errors.Wrap(res.Err, "transforming issues")
	}
	docs := res.Value

	s.store.SaveRunLog(runID, "transform", "info", "transformed issues", map[string]interface{}{
		"pipeline": p.ID(),
		"count":    len(docs),
	})

	// --- WRITE STAGE ---
	s.store.UpdateRunStatus(runID, model.StatusWriting)

	workers := spec.Workers
	if workers <= 0 {
		workers = 2 // default
	}

	chunksCh := make(chan []model.Document, workers)
	var written, writeErrs int64
	var wg sync.WaitGroup

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for chunk := range chunksCh {
				if werr := s.sink.WriteBatch(ctx, chunk); werr != nil {
					atomic.AddInt64(&writeErrs, 1)
					s.store.SaveRunError(runID, "write", werr)
					continue
				}
				atomic.AddInt64(&written, int64(len(chunk)))
			}
		}()
	}

	for begin := 0; begin < len(docs); begin += writeChunkSize {
		end := begin + writeChunkSize
		if end > len(docs) {
			end = len(docs)
		}
		chunksCh <- docs[begin:end]
	}
	close(chunksCh)
	wg.Wait()

	s.store.UpdateRunCounts(runID, len(issues), int(written))
	if n := atomic.LoadInt64(&writeErrs); n > 0 {
		return errors.Newf("%d write batches failed", n)
	}

	// Advance the checkpoint to the newest issue seen so the next run
	// only asks for changes after it.
	latest := issues[0].CreatedAt
	for _, issue := range issues[1:] {
		if issue.CreatedAt.After(latest) {
			latest = issue.CreatedAt
		}
	}
	if err := s.store.SaveCheckpoint(spec.Owner, spec.Repo, latest); err != nil {
		return errors.Wrap(err, "saving checkpoint")
	}

	s.store.UpdateRunStatus(runID, model.StatusCompleted)
	s.log.Infow("sync run completed",
		"run_id", runID,
		"issues", len(issues),
		"written", written,
		"duration", time.Since(start))
	return nil
}
