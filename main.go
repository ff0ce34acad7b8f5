package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nikhil-sh2112/azure-webapp/internal/config"
	"github.com/Nikhil-sh2112/azure-webapp/internal/events"
	"github.com/Nikhil-sh2112/azure-webapp/internal/logging"
	"github.com/Nikhil-sh2112/azure-webapp/internal/ml"
	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
	"github.com/Nikhil-sh2112/azure-webapp/internal/profiling"
	"github.com/Nikhil-sh2112/azure-webapp/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Init(&logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Output: os.Stdout,
		Format: cfg.LogFormat,
	})
	logging.LogRuntimeInfo()
	logging.Info("Starting AIOps log analysis service",
		"port", cfg.Port,
		"log_file", cfg.LogFilePath,
		"trees", cfg.Trees,
		"contamination", cfg.Contamination,
	)

	bus := events.NewEventBus()
	bus.Subscribe(events.EventAnomalyDetected, logAnomaly)

	if cfg.EnablePprof {
		prof := profiling.New(cfg.PprofAddr)
		prof.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			prof.Stop(ctx)
		}()
	}

	srv := server.New(cfg, nil, bus)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info("Received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		bus.EmitError(err, "shutdown")
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// logAnomaly writes a structured line for every flagged record.
func logAnomaly(e *events.Event) {
	data, ok := e.Data.(map[string]interface{})
	if !ok {
		return
	}
	rec, ok := data["record"].(*models.ScoredRecord)
	if !ok {
		return
	}
	logging.MLLogger().Warn("Anomaly detected",
		"run_id", data["run_id"],
		"severity", ml.ScoreSeverity(rec.Score),
		logging.Record(rec.Level, rec.Message, rec.Score),
	)
}
