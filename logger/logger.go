package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"product-cart-store/config"
)

// New builds a zap logger. Development environments get a console encoder
// at debug level regardless of the configured values.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	level, encoding := cfg.Logger.Level, cfg.Logger.Encoding
	if cfg.Server.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
		level, encoding = "debug", "console"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = encoding
	return zcfg.Build()
}
