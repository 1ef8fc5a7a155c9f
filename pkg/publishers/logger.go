package publishers

import "github.com/samvad-hq/ledger-demo/internal/logger"

// Logger is the structured logging surface publishers log through.
// logger.ZapLogger satisfies it.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
