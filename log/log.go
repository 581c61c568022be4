//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package log provides logging utilities.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Default borrows logging utilities from zap. You may replace it with
// whatever logger you like as long as it implements the Logger interface.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// SetLevel sets the log level. Valid levels are: "debug", "info", "warn",
// "error". Unknown levels are ignored.
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	}
}

// Logger is the interface that wraps the basic logging methods.
type Logger interface {
	// Debugf logs at the debug level.
	Debugf(format string, args ...any)
	// Infof logs at the info level.
	Infof(format string, args ...any)
	// Warnf logs at the warn level.
	Warnf(format string, args ...any)
	// Errorf logs at the error level.
	Errorf(format string, args ...any)
}

// Debugf logs at the debug level using the default logger.
func Debugf(format string, args ...any) {
	Default.Debugf(format, args...)
}

// Infof logs at the info level using the default logger.
func Infof(format string, args ...any) {
	Default.Infof(format, args...)
}

// Warnf logs at the warn level using the default logger.
func Warnf(format string, args ...any) {
	Default.Warnf(format, args...)
}

// Errorf logs at the error level using the default logger.
func Errorf(format string, args ...any) {
	Default.Errorf(format, args...)
}
