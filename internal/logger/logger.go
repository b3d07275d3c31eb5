package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"boundedq/internal/settings"
)

// New builds a zap logger writing JSON to stderr and, when FileLogName is set,
// to a lumberjack-rotated file.
func New(cfg settings.Logger) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	if cfg.FileLogName != "" {
		sinks = append(sinks, zapcore.AddSync(newRotator(cfg)))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core, zap.AddCaller()), nil
}

func newRotator(cfg settings.Logger) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FileLogName,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// Reporter returns a queue error hook that logs precondition violations.
func Reporter(log *zap.Logger) func(error) {
	return func(err error) {
		log.Debug("queue precondition violated", zap.Error(err))
	}
}
