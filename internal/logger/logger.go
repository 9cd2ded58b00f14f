// Package logger builds the process-wide zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Development selects the human-readable console encoder and debug level.
	Development bool
	// Level is a zap level name ("debug", "info", "warn", "error"). Ignored when invalid.
	Level string
	// File, when set, routes output to a rotating file instead of stderr.
	File string
	// MaxSizeMB, MaxBackups and MaxAgeDays tune rotation; zero values use defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a zap logger. Production output is JSON; development output is console.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		var cfg zap.Config
		if opts.Development {
			cfg = zap.NewDevelopmentConfig()
		} else {
			cfg = zap.NewProductionConfig()
		}
		if lvl, err := zapcore.ParseLevel(opts.Level); err == nil && opts.Level != "" {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		return cfg.Build()
	}

	level := zapcore.InfoLevel
	if opts.Development {
		level = zapcore.DebugLevel
	}
	if lvl, err := zapcore.ParseLevel(opts.Level); err == nil && opts.Level != "" {
		level = lvl
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(rotator(opts)),
		level,
	)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.AddSync(os.Stderr))), nil
}

func rotator(opts Options) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
	}
	if opts.MaxSizeMB > 0 {
		l.MaxSize = opts.MaxSizeMB
	}
	if opts.MaxBackups > 0 {
		l.MaxBackups = opts.MaxBackups
	}
	if opts.MaxAgeDays > 0 {
		l.MaxAge = opts.MaxAgeDays
	}
	return l
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
