// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dverbeek/windriver/internal/config"
	"github.com/dverbeek/windriver/internal/element"
	"github.com/dverbeek/windriver/internal/input"
	"github.com/dverbeek/windriver/internal/logging"
	"github.com/dverbeek/windriver/internal/persistence/postgres"
	"github.com/dverbeek/windriver/internal/repository"
	"github.com/dverbeek/windriver/internal/session"
	httptransport "github.com/dverbeek/windriver/internal/transport/http"
	"github.com/dverbeek/windriver/internal/winauto"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := logging.NewLogger(cfg.Env, cfg.LogLevel)

	sender := input.NewSystemSender()
	auto := winauto.New(sender)
	dispatcher := input.NewDispatcher(sender, logger)
	sessions := session.NewStore(auto, cfg.MaxSessions, logger)
	elements := element.NewRepository(auto)

	var recorder httptransport.CommandRecorder
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect failed: %v", err)
		}
		defer pool.Close()

		if err := postgres.EnsureSchema(ctx, pool, logger); err != nil {
			log.Fatalf("audit schema bootstrap failed: %v", err)
		}
		recorder = repository.NewCommandRepository(pool, logger)
	}

	handler := httptransport.NewRouter(httptransport.Deps{
		Sessions:      sessions,
		Elements:      elements,
		Engine:        dispatcher,
		Native:        auto,
		Recorder:      recorder,
		Logger:        logger,
		CmdRatePerMin: cfg.CmdRatePerMin,
		Version:       Version,
		Commit:        Commit,
		BuildDate:     BuildDate,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("driver listening",
			"addr", cfg.HTTPAddr,
			"max_sessions", cfg.MaxSessions,
			"audit", recorder != nil,
			"version", Version,
			"commit", Commit,
			"build_date", BuildDate,
		)

		if err := srv.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}
