package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/samvad-hq/ledger-demo/internal/config"
	"github.com/samvad-hq/ledger-demo/internal/domain"
	"github.com/samvad-hq/ledger-demo/internal/ledger"
	"github.com/samvad-hq/ledger-demo/internal/logger"
	"github.com/samvad-hq/ledger-demo/internal/storage"
	"github.com/samvad-hq/ledger-demo/pkg/httpclient"
	"github.com/samvad-hq/ledger-demo/pkg/publishers"
)

// RequestExecutor issues the demo's single HTTP request.
type RequestExecutor interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Result, error)
}

// Demo represents the demonstration runtime: one HTTP request followed by
// the credit and debit legs.
type Demo struct {
	cfg      *config.Config
	executor RequestExecutor
	legs     *ledger.Service
	fanout   *publishers.Fanout
	store    storage.Store
	stdout   io.Writer
	stderr   io.Writer
	log      logger.Logger
}

// Option customizes a Demo.
type Option func(*Demo)

// WithExecutor replaces the resty-backed request executor.
func WithExecutor(e RequestExecutor) Option {
	return func(d *Demo) { d.executor = e }
}

// WithOutput redirects the printed lines and diagnostics.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Demo) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// NewDemo builds the demo runtime from config.
func NewDemo(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Demo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d := &Demo{
		cfg:    cfg,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    log,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if d.executor == nil {
		mode, err := httpclient.ParseBodyMode(cfg.ResponseBodyMode)
		if err != nil {
			return nil, err
		}
		execOpts := []httpclient.Option{httpclient.WithBodyMode(mode)}
		if logger.S != nil {
			execOpts = append(execOpts, httpclient.WithLogger(logger.S))
		}
		d.executor = httpclient.NewExecutor(execOpts...)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	d.fanout = fanout

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		EntryTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	d.store = store
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"entry_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	d.legs = ledger.NewService(cfg.AppName, d.stdout, store, fanout, log)
	return d, nil
}

// buildFanout loads publishers when a publishers file is configured; otherwise legs are not published.
func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Run executes the demo once. A failure is logged and printed; it is only
// returned when fail_on_error is set, so by default the process exits 0.
func (d *Demo) Run(ctx context.Context) error {
	if d == nil || d.executor == nil || d.legs == nil {
		return fmt.Errorf("demo is not initialized")
	}
	defer d.close()

	fmt.Fprintln(d.stdout, "Executing Go demo...")

	if err := d.runOnce(ctx); err != nil {
		d.log.ErrorObj("demo failed", "error", err)
		fmt.Fprintf(d.stderr, "demo failed: %v\n", err)
		if d.cfg.FailOnError {
			return err
		}
	}
	return nil
}

// runOnce sends the request first, then both legs.
// A request failure skips the legs.
func (d *Demo) runOnce(ctx context.Context) error {
	req := httpclient.Request{
		URL:     d.cfg.TargetURL,
		Method:  d.cfg.HTTPMethod,
		Payload: d.cfg.HTTPPayload,
	}

	res, err := d.executor.Do(ctx, req)
	d.recordExchange(req, res, err)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	d.log.InfoObj("http request completed", "http_result", map[string]any{
		"method":     req.Method,
		"url":        req.URL,
		"status":     res.StatusCode,
		"body_bytes": len(res.Body),
	})
	fmt.Fprintf(d.stdout, "HTTP Response: %s\n", res.Body)

	var errs []error
	if err := d.legs.Credit(ctx, d.cfg.CreditAmount, d.cfg.CreditAccount); err != nil {
		errs = append(errs, err)
	}
	if err := d.legs.Debit(ctx, d.cfg.DebitAmount, d.cfg.DebitAccount); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *Demo) recordExchange(req httpclient.Request, res *httpclient.Result, reqErr error) {
	entry := domain.JournalEntry{
		Kind:   domain.EntryHTTP,
		Method: req.Method,
		URL:    req.URL,
	}
	if res != nil {
		entry.StatusCode = res.StatusCode
		entry.BodyBytes = len(res.Body)
	}
	if reqErr != nil {
		entry.Error = reqErr.Error()
	}
	if err := d.store.Record(entry); err != nil {
		d.log.WarnObj("journal http exchange failed", "error", err)
	}
}

// close releases publishers and storage, logging any errors encountered.
func (d *Demo) close() {
	if err := d.fanout.Close(); err != nil {
		d.log.ErrorObj("publishers close failed", "error", err)
	}
	if d.store == nil {
		return
	}
	if err := d.store.Close(); err != nil {
		d.log.ErrorObj("storage close failed", "error", err)
	}
}
