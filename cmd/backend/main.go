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

	configloader "github.com/meetscribe/meetscribe/external/config"
	repositoryimpl "github.com/meetscribe/meetscribe/external/repository"
	summarizerimpl "github.com/meetscribe/meetscribe/external/summarizer"
	transcriberimpl "github.com/meetscribe/meetscribe/external/transcriber"
	webhookimpl "github.com/meetscribe/meetscribe/external/webhook"
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/gateway"
	"github.com/meetscribe/meetscribe/internal/pipeline"
	"github.com/meetscribe/meetscribe/internal/session"
	"github.com/samber/do/v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "stt_backend", cfg.SttBackend)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching http server", "addr", cfg.HTTPAddr)
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	summarizerimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	pipeline.RegisterDI(injector)
	session.RegisterDI(injector)
	gateway.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.Config, injector do.Injector) {
	gw, err := do.Invoke[*gateway.Gateway](injector)
	if err != nil {
		slog.Error("failed to resolve gateway", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: gw.Routes(),
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering http serve loop")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("http shutdown failed", "error", err)
		}
	case <-done:
	}
}
