package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultTargetURL is the public test API the demo calls when nothing else is configured.
const DefaultTargetURL = "https://jsonplaceholder.typicode.com/posts"

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	TargetURL        string `mapstructure:"target_url"`
	HTTPMethod       string `mapstructure:"http_method"`
	HTTPPayload      string `mapstructure:"http_payload"`
	ResponseBodyMode string `mapstructure:"response_body_mode"`
	FailOnError      bool   `mapstructure:"fail_on_error"`

	CreditAmount  int64  `mapstructure:"credit_amount"`
	DebitAmount   int64  `mapstructure:"debit_amount"`
	CreditAccount string `mapstructure:"credit_account"`
	DebitAccount  string `mapstructure:"debit_account"`

	PublishersFile string `mapstructure:"publishers_file"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "ledger-demo")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("target_url", DefaultTargetURL)
	v.SetDefault("http_method", "GET")
	v.SetDefault("http_payload", "")
	v.SetDefault("response_body_mode", "lines")
	v.SetDefault("fail_on_error", false)
	v.SetDefault("credit_amount", 100)
	v.SetDefault("debit_amount", 50)
	v.SetDefault("credit_account", "")
	v.SetDefault("debit_account", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/journal.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize normalizes fields and derives durations. It is re-run after CLI overrides.
func (c *Config) Finalize() error {
	c.TargetURL = strings.TrimSpace(c.TargetURL)
	c.HTTPMethod = strings.ToUpper(strings.TrimSpace(c.HTTPMethod))
	c.ResponseBodyMode = strings.ToLower(strings.TrimSpace(c.ResponseBodyMode))

	if c.TargetURL == "" {
		return fmt.Errorf("invalid target_url (must not be empty)")
	}
	switch c.ResponseBodyMode {
	case "", "lines", "raw":
	default:
		return fmt.Errorf("invalid response_body_mode %q (expected lines or raw)", c.ResponseBodyMode)
	}
	if c.CreditAmount < 0 {
		return fmt.Errorf("invalid credit_amount (must not be negative)")
	}
	if c.DebitAmount < 0 {
		return fmt.Errorf("invalid debit_amount (must not be negative)")
	}

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	return nil
}
