package poller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-sync/internal/model"
	"issue-sync/internal/store"
)

// Runner starts one sync run. Satisfied by *syncer.Syncer.
type Runner interface {
	Run(ctx context.Context, runID string, spec model.SyncJobSpec) error
}

// Poller triggers a sync run at a fixed cadence. A tick is skipped when
// the previous run is still in flight, so runs never overlap.
type Poller struct {
	interval time.Duration
	spec     model.SyncJobSpec
	runner   Runner
	store    *store.Store
	log      *zap.SugaredLogger
	inFlight atomic.Bool
}

func New(interval time.Duration, spec model.SyncJobSpec, runner Runner, st *store.Store, log *zap.SugaredLogger) *Poller {
	return &Poller{
		interval: interval,
		spec:     spec,
		runner:   runner,
		store:    st,
		log:      log,
	}
}

// Start polls until ctx is cancelled. The first run fires immediately.
func (p *Poller) Start(ctx context.Context) {
	p.log.Infow("poller started", "interval", p.interval, "owner", p.spec.Owner, "repo", p.spec.Repo)

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Infow("poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.log.Warnw("previous sync run still in flight, skipping tick")
		return
	}

	go func() {
		defer p.inFlight.Store(false)

		runID := uuid.New().String()
		if err := p.store.SaveRun(runID, p.spec); err != nil {
			p.log.Errorw("saving run", "run_id", runID, "error", err)
			return
		}
		if err := p.runner.Run(ctx, runID, p.spec); err != nil {
			p.log.Errorw("scheduled sync run failed", "run_id", runID, "error", err)
		}
	}()
}
