package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// GetLogger returns zap.Logger instance, but using singleton pattern creates only one reusable instace
// development config by default, production config when APP_ENV=production.
// LOG_LEVEL overrides the level of either config (debug, info, warn, error)
func GetLogger() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		if os.Getenv("APP_ENV") == "production" {
			cfg = zap.NewProductionConfig()
		}
		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			level, err := zap.ParseAtomicLevel(lvl)
			if err == nil {
				cfg.Level = level
			}
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}

	})
	return logger
}
