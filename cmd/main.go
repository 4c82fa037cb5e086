package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/Hidendra/nzbget-capped-download-queue/api/v1"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/config"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/metrics"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/nzbget"
	nzbgetq "github.com/Hidendra/nzbget-capped-download-queue/internal/queue/nzbget"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/router"
	"github.com/Hidendra/nzbget-capped-download-queue/internal/scheduler"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	client, err := nzbget.NewClientFromEnv()
	if err != nil {
		logger.Error("nzbget client", "err", err)
		os.Exit(1)
	}
	host := nzbgetq.NewAdapter(client)
	host.SetLogger(logger)

	metrics.Register()

	hub := scheduler.NewHub()
	sched := scheduler.New(logger, host, cfg, hub)
	gate := scheduler.NewGate(logger, sched)

	handler := v1.NewQueueHandler(logger, gate, sched, hub)

	server := &http.Server{
		Addr:        cfg.ListenAddr,
		Handler:     router.New(logger, handler, host),
		IdleTimeout: 120 * time.Second,
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting intake API", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	sched.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received terminate, graceful shutdown", "signal", sig.String())

	// Stop intake first so no new add events arrive mid-shutdown, then let
	// any in-flight scheduling pass finish issuing its commands.
	timeoutContext, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(timeoutContext); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	sched.Stop()
}

// newLogger writes rotated JSON logs when a log file is configured and plain
// text to stdout otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.LogFile != "" {
		return slog.New(slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
		}, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
