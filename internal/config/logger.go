package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the tool's logger. Verbose selects a development logger
// at debug level; otherwise a production logger at LogLevel is used.
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.Verbose {
		return zap.NewDevelopment()
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, configError("Config.NewLogger", "invalid log_level", err)
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg.Build()
}
