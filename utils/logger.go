package utils

import (
	"strings"

	"go.uber.org/zap"
)

// Log is the application logger. It is a no-op until InitLogger runs so tests
// and scripts can use packages without wiring a logger first.
var Log = zap.NewNop().Sugar()

// InitLogger builds the zap logger for the given mode ("prod" or "dev").
func InitLogger(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l.Sugar()
	return nil
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = Log.Sync()
}
