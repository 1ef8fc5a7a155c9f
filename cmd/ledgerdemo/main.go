package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/samvad-hq/ledger-demo/internal/app"
	"github.com/samvad-hq/ledger-demo/internal/config"
	"github.com/samvad-hq/ledger-demo/internal/logger"
)

// cli flags override the environment-driven config when set.
type cli struct {
	URL         string  `help:"Target URL for the demo request."`
	Method      string  `help:"HTTP method. A payload is only sent for POST and PUT."`
	Payload     *string `help:"Request body for POST and PUT. An explicit empty value clears HTTP_PAYLOAD."`
	BodyMode    string  `help:"Response body handling: lines (line breaks dropped) or raw."`
	FailOnError bool    `help:"Exit non-zero when the HTTP request fails."`
	Amounts     []int64 `arg:"" optional:"" help:"Credit and debit amounts (default 100 50)."`
}

func main() {
	var args cli
	kong.Parse(&args,
		kong.Name("ledgerdemo"),
		kong.Description("Run one HTTP request and print the credit and debit legs."),
		kong.UsageOnError(),
	)

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerdemo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args cli) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := args.apply(cfg); err != nil {
		return err
	}

	sugar, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	log := logger.New(sugar)

	log.DebugObj("ledgerdemo starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	demo, err := app.NewDemo(ctx, cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize demo", "error", err)
		return err
	}

	if err := demo.Run(ctx); err != nil {
		return fmt.Errorf("demo run: %w", err)
	}
	return nil
}

func (c cli) apply(cfg *config.Config) error {
	if c.URL != "" {
		cfg.TargetURL = c.URL
	}
	if c.Method != "" {
		cfg.HTTPMethod = c.Method
	}
	if c.Payload != nil {
		cfg.HTTPPayload = *c.Payload
	}
	if c.BodyMode != "" {
		cfg.ResponseBodyMode = c.BodyMode
	}
	if c.FailOnError {
		cfg.FailOnError = true
	}
	switch len(c.Amounts) {
	case 0:
	case 1:
		cfg.CreditAmount = c.Amounts[0]
	case 2:
		cfg.CreditAmount, cfg.DebitAmount = c.Amounts[0], c.Amounts[1]
	default:
		return fmt.Errorf("expected at most two amounts (credit, debit), got %d", len(c.Amounts))
	}
	return cfg.Finalize()
}
