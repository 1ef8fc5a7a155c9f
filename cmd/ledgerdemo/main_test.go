package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/samvad-hq/ledger-demo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseArgs(t *testing.T, argv ...string) cli {
	t.Helper()
	var args cli
	parser, err := kong.New(&args, kong.Name("ledgerdemo"))
	require.NoError(t, err)
	_, err = parser.Parse(argv)
	require.NoError(t, err)
	return args
}

func TestApplyOverridesConfig(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	args := parseArgs(t, "--url", "http://localhost:9999/echo", "--method", "put", "--payload", `{"a":1}`, "--body-mode", "raw", "--fail-on-error", "7", "3")
	require.NoError(t, args.apply(cfg))

	assert.Equal(t, "http://localhost:9999/echo", cfg.TargetURL)
	assert.Equal(t, "PUT", cfg.HTTPMethod)
	assert.Equal(t, `{"a":1}`, cfg.HTTPPayload)
	assert.Equal(t, "raw", cfg.ResponseBodyMode)
	assert.True(t, cfg.FailOnError)
	assert.EqualValues(t, 7, cfg.CreditAmount)
	assert.EqualValues(t, 3, cfg.DebitAmount)
}

func TestApplyKeepsDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.NoError(t, parseArgs(t).apply(cfg))
	assert.Equal(t, config.DefaultTargetURL, cfg.TargetURL)
	assert.EqualValues(t, 100, cfg.CreditAmount)
	assert.EqualValues(t, 50, cfg.DebitAmount)
}

func TestApplyRejectsExtraAmounts(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Error(t, parseArgs(t, "1", "2", "3").apply(cfg))
	assert.Error(t, parseArgs(t, "--body-mode", "json").apply(cfg))
}

func TestApplyEmptyPayloadClearsEnvironment(t *testing.T) {
	t.Setenv("HTTP_PAYLOAD", `{"from":"env"}`)
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, `{"from":"env"}`, cfg.HTTPPayload)

	require.NoError(t, parseArgs(t).apply(cfg))
	assert.Equal(t, `{"from":"env"}`, cfg.HTTPPayload)

	require.NoError(t, parseArgs(t, "--payload=").apply(cfg))
	assert.Empty(t, cfg.HTTPPayload)
}
