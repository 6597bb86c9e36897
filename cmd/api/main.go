package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"nbrb-rates/internal/app"
	"nbrb-rates/pkg/config"
	"nbrb-rates/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting app...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer application.Close()

	r, err := application.Router()
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	sched, err := application.Scheduler()
	if err != nil {
		log.Fatalf("Error adding task to schedule: %v", err)
	}
	if cfg.Scheduler.Enabled {
		sched.Start()
		log.Infof("Scheduler initialized, rates update on %q", cfg.Scheduler.Spec)
	}

	if cfg.Scheduler.RunOnStart {
		go func() {
			log.Info("Updating rates on server start...")
			if err := sched.RunOnce(ctx); err != nil {
				log.Errorf("Error updating rates on server start: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s...", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	<-ctx.Done()
	log.Info("Got shutdown signal...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error on server shutdown: %v", err)
	}
	log.Info("Server stopped")

	if cfg.Scheduler.Enabled {
		sched.Stop(shutdownCtx)
	}

	log.Info("Gracefully shut down")
}
