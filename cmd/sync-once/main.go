package main

import (
	"context"
	"flag"

	"github.com/google/uuid"

	"issue-sync/internal/config"
	"issue-sync/internal/logging"
	"issue-sync/internal/model"
	"issue-sync/internal/pipeline"
	"issue-sync/internal/sink"
	"issue-sync/internal/source"
	"issue-sync/internal/store"
	"issue-sync/internal/syncer"
)

// Runs a single sync cycle and exits; useful for cron jobs and for
// backfilling with -full.
func main() {
	configPath := flag.String("config", "", "path to config file")
	fullResync := flag.Bool("full", false, "ignore the stored checkpoint and resync everything")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.Logging.JSON)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	st, err := store.Open(cfg.DB.Path)
	if err != nil {
		log.Fatalw("opening store", "error", err)
	}
	defer st.Close()

	exec := pipeline.NewExecutor(4)
	defer exec.Close()

	registry := pipeline.NewRegistry[model.Issue, model.Document]()
	if err := registry.Register(pipeline.NewIssuePipeline(exec)); err != nil {
		log.Fatalw("registering pipeline", "error", err)
	}

	srcOpts := []source.Option{source.WithRequestsPerSecond(cfg.GitHub.RequestsPerSecond)}
	if cfg.GitHub.BaseURL != "" {
		srcOpts = append(srcOpts, source.WithBaseURL(cfg.GitHub.BaseURL))
	}
	src := source.NewClient(cfg.GitHub.Token, srcOpts...)

	writer, err := sink.NewFirestoreWriter(ctx, cfg.Firestore.ProjectID, cfg.Firestore.Collection, cfg.Firestore.CredentialsFile)
	if err != nil {
		log.Fatalw("connecting to firestore", "error", err)
	}
	defer writer.Close()

	spec := cfg.JobSpec()
	spec.FullResync = *fullResync

	runID := uuid.New().String()
	if err := st.SaveRun(runID, spec); err != nil {
		log.Fatalw("saving run", "run_id", runID, "error", err)
	}

	if err := syncer.New(src, writer, st, registry, log).Run(ctx, runID, spec); err != nil {
		log.Fatalw("sync run failed", "run_id", runID, "error", err)
	}
}
