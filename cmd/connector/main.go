package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "issue-sync/docs"
	"issue-sync/internal/api"
	"issue-sync/internal/api/handler"
	"issue-sync/internal/config"
	"issue-sync/internal/logging"
	"issue-sync/internal/model"
	"issue-sync/internal/pipeline"
	"issue-sync/internal/poller"
	"issue-sync/internal/sink"
	"issue-sync/internal/source"
	"issue-sync/internal/store"
	"issue-sync/internal/syncer"
	"issue-sync/pkg/router"
	"issue-sync/pkg/utils"
)

// @title issue-sync API
// @version 1.0
// @description GitHub issues to Firestore sync connector
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "", "path to config file")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	s := syncer.New(src, writer, st, registry, log)

	p := poller.New(utils.ParseDuration(cfg.Sync.Interval), cfg.JobSpec(), s, st, log)
	go p.Start(ctx)

	r := router.New(log)
	api.RegisterRoutes(r, handler.NewSyncHandler(st, s, registry, cfg.JobSpec(), log))

	if err := r.Start(cfg.Server.Addr); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
