package util

import (
	"github.com/SeakMengs/ProjectHub/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func NewLogger(env string) *zap.SugaredLogger {
	return NewLoggerWithConfig(env, config.LogConfig{})
}

// NewLoggerWithConfig tees production logs into a rotating file when cfg.FilePath is set.
func NewLoggerWithConfig(env string, cfg config.LogConfig) *zap.SugaredLogger {
	var logger *zap.Logger

	if env == "production" {
		logger = zap.Must(zap.NewProduction())
		if cfg.FilePath != "" {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				fileWriter,
				zap.InfoLevel,
			)
			logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
				return zapcore.NewTee(c, fileCore)
			}))
		}
	} else {
		logger = zap.Must(zap.NewDevelopment())
	}

	defer logger.Sync()

	return logger.Sugar()
}
