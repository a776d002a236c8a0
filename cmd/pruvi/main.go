package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/pruvi/pruvi/internal/config"
	"github.com/pruvi/pruvi/internal/prep"
	"github.com/pruvi/pruvi/internal/scheduler"
	"github.com/pruvi/pruvi/internal/storage"
	"github.com/pruvi/pruvi/internal/sync"
	"github.com/pruvi/pruvi/internal/web"
)

func main() {
	defaults := config.Default()

	flags := flag.NewFlagSet("pruvi", flag.ExitOnError)
	flags.String("config", "", "Path to a yaml config file")
	flags.String("listen", defaults.Listen, "HTTP listen address")
	flags.String("db", defaults.DB, "Path to the SQLite database file")
	flags.String("repos", defaults.Repos, "Checkout directory for git question packs")
	flags.Int("count", defaults.Count, "Default session size")
	flags.Int("queue", defaults.Queue, "Prep queue capacity")
	addSource := flags.String("add-source", "", "Register a question-pack source (path or git URL) and exit")
	runSync := flags.Bool("sync", false, "Reconcile all sources and exit")
	flags.Parse(os.Args[1:])

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath, configPath != "", flags)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DB)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DB, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.DB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *addSource != "" {
		sourceType := sync.SourceTypeFor(*addSource)
		id, err := db.InsertSource(ctx, *addSource, sourceType)
		if err != nil {
			logger.Error("failed to add source", "path", *addSource, "error", err)
			os.Exit(1)
		}
		logger.Info("source added", "id", id, "type", sourceType, "path", *addSource)
		return
	}

	if *runSync {
		if err := sync.RunSync(ctx, db, cfg.Repos); err != nil {
			logger.Error("sync failed", "error", err)
			os.Exit(1)
		}
		return
	}

	engine := scheduler.New(db, nil, logger)
	worker := prep.NewWorker(engine, db, cfg.Queue, cfg.Count, logger)
	engine.SetQueue(worker)
	go worker.Run(ctx)

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: web.NewServer(engine, db, cfg.Repos, cfg.Count, logger),
	}

	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
