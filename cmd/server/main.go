package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docfind/internal/api"
	"github.com/dgallion1/docfind/internal/config"
	"github.com/dgallion1/docfind/internal/dom"
	"github.com/dgallion1/docfind/internal/session"
	"github.com/dgallion1/docfind/internal/stats"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rules := dom.DefaultRules()
	if cfg.ExcludeRulesFile != "" {
		extra, err := dom.LoadRules(cfg.ExcludeRulesFile)
		if err != nil {
			log.Error("invalid exclusion rules", "error", err)
			os.Exit(1)
		}
		rules = rules.Merge(extra)
		log.Info("loaded exclusion rules", "path", cfg.ExcludeRulesFile,
			"tags", len(rules.Tags), "ids", len(rules.IDs), "classes", len(rules.Classes))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore(cfg.SessionTTL, cfg.MaxSessions)
	go store.Run(ctx, 5*time.Minute, log)

	srv := api.NewServer(store, stats.NewPassStats(time.Hour), rules, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting docfind", "port", cfg.Port, "max_sessions", cfg.MaxSessions, "session_ttl", cfg.SessionTTL.String())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
