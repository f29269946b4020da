package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FinLens/internal/config"
	"FinLens/internal/fetcher"
	"FinLens/internal/pipeline"
	"FinLens/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FinLens starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init fetcher; without storage the questions still run on local files
	var f *fetcher.Fetcher
	if !cfg.Storage.SkipFetch {
		store, err := fetcher.NewS3Store(ctx, cfg.Storage.Region)
		if err != nil {
			log.Printf("[ERROR] An error occurred: %v", err)
		} else {
			f = fetcher.NewFetcher(store)
			log.Printf("[INFO] object store: %s", store.Name())
		}
	}

	job := func(ctx context.Context) {
		pipeline.Run(ctx, cfg, f, os.Stdout)
	}

	if cfg.Schedule.Cron == "" {
		job(ctx)
		return
	}

	sched := scheduler.NewScheduler(ctx, job)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron job: %v", err)
	}
	sched.RunNow()
	sched.Start()
	log.Printf("[INFO] FinLens is running on schedule %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)

	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	log.Println("[INFO] FinLens stopped")
}
