package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	riskform "github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/internal/config"
	"github.com/goliatone/go-riskform/internal/logging"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
	"github.com/goliatone/go-riskform/pkg/submission"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	endpoint := flag.String("endpoint", "", "prediction service URL (overrides config)")
	timeout := flag.Duration("timeout", 0, "request timeout (overrides config)")
	check := flag.Bool("check", false, "query the service status and exit")
	once := flag.Bool("once", false, "submit a single time without offering another round")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := riskform.NewClient(ctx, riskform.ClientConfig{
		Endpoint:       cfg.Endpoint,
		StatusEndpoint: cfg.StatusEndpoint,
		Timeout:        cfg.Timeout,
	})
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	if *check {
		statusCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		info, err := client.Status(statusCtx)
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		fmt.Printf("%s %s (%s)\n", info.Service, info.Version, info.Status)
		return
	}

	workflow, err := riskform.NewWorkflow(client, submission.WithLogger(logger))
	if err != nil {
		log.Fatalf("workflow: %v", err)
	}
	session, err := tui.NewSession(workflow,
		tui.WithLogger(logger),
		tui.WithRepeat(!*once),
	)
	if err != nil {
		log.Fatalf("session: %v", err)
	}

	if _, err := session.Run(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			return
		}
		log.Fatalf("session: %v", err)
	}
}
