package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	riskform "github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/logging"
	"github.com/goliatone/go-riskform/internal/server"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	listen := flag.String("listen", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := riskform.NewClient(ctx, riskform.ClientConfig{
		Endpoint:       cfg.Endpoint,
		StatusEndpoint: cfg.StatusEndpoint,
		Timeout:        cfg.Timeout,
	})
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	renderers, err := riskform.NewRenderers(vanilla.WithTheme(cfg.Theme.Name, cfg.Theme.Variant))
	if err != nil {
		log.Fatalf("renderers: %v", err)
	}

	srv, err := server.New(client, renderers, "vanilla",
		server.WithLogger(logger),
		server.WithStatusChecker(client),
		server.WithAssets(riskform.EmbeddedAssets()),
	)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.Listen, "endpoint", cfg.Endpoint)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("listen: %v", err)
	}
}
