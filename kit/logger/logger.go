package logger

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Field = zap.Field

type Logger struct {
	*zap.Logger
}

type loggerConfig struct {
	noStdout  bool
	rotateLog *rotateLogConfig
}

type rotateLogConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

type Option func(*loggerConfig)

func NoStdout(config *loggerConfig) {
	config.noStdout = true
}

func WithRotateLog(maxSizeMB, maxBackups, maxAgeDays int) Option {
	return func(config *loggerConfig) {
		config.rotateLog = &rotateLogConfig{
			maxSizeMB:  maxSizeMB,
			maxBackups: maxBackups,
			maxAgeDays: maxAgeDays,
		}
	}
}

// NewLogger writes JSON lines to path and, unless NoStdout is set, to stdout.
// An empty path disables the file output.
func NewLogger(path string, level Level, options ...Option) (*Logger, error) {
	var config loggerConfig
	for _, option := range options {
		option(&config)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	var cores []zapcore.Core
	if path != "" {
		var writer zapcore.WriteSyncer
		if config.rotateLog != nil {
			writer = zapcore.AddSync(&lumberjack.Logger{
				Filename:   path,
				MaxSize:    config.rotateLog.maxSizeMB,
				MaxBackups: config.rotateLog.maxBackups,
				MaxAge:     config.rotateLog.maxAgeDays,
			})
		} else {
			file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err != nil {
				return nil, errors.Wrap(err, "open log file failed")
			}
			writer = zapcore.AddSync(file)
		}
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}
	if !config.noStdout {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...), zap.AddCaller()),
	}, nil
}

func NewNopLogger() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}
