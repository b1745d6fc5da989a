// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package commons

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the narrow logging surface every package in this module depends
// on. Keeping it an interface (rather than importing zap directly
// everywhere) lets tests inject a no-op or recording implementation.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalf(format string, args ...interface{})
	// Benchmark logs the elapsed time since start at debug level, tagged
	// with name. Intended to bookend hot paths the way the rest of the
	// pipeline times its own stages.
	Benchmark(name string, start time.Time)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewApplicationLogger builds the application-wide logger. logPath may be
// empty, in which case only stderr is used; otherwise output is duplicated
// to a rotating file via lumberjack.
func NewApplicationLogger(level string, logPath string) (Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(level); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if logPath != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), zapLevel)
	logger := zap.New(core)

	return &zapLogger{sugar: logger.Sugar()}, nil
}

func (l *zapLogger) Debug(args ...interface{})                          { l.sugar.Debug(args...) }
func (l *zapLogger) Debugf(format string, args ...interface{})          { l.sugar.Debugf(format, args...) }
func (l *zapLogger) Debugw(msg string, keysAndValues ...interface{})    { l.sugar.Debugw(msg, keysAndValues...) }
func (l *zapLogger) Info(args ...interface{})                           { l.sugar.Info(args...) }
func (l *zapLogger) Infof(format string, args ...interface{})           { l.sugar.Infof(format, args...) }
func (l *zapLogger) Infow(msg string, keysAndValues ...interface{})     { l.sugar.Infow(msg, keysAndValues...) }
func (l *zapLogger) Warn(args ...interface{})                           { l.sugar.Warn(args...) }
func (l *zapLogger) Warnf(format string, args ...interface{})           { l.sugar.Warnf(format, args...) }
func (l *zapLogger) Warnw(msg string, keysAndValues ...interface{})     { l.sugar.Warnw(msg, keysAndValues...) }
func (l *zapLogger) Error(args ...interface{})                          { l.sugar.Error(args...) }
func (l *zapLogger) Errorf(format string, args ...interface{})          { l.sugar.Errorf(format, args...) }
func (l *zapLogger) Errorw(msg string, keysAndValues ...interface{})    { l.sugar.Errorw(msg, keysAndValues...) }
func (l *zapLogger) Fatalf(format string, args ...interface{})          { l.sugar.Fatalf(format, args...) }

func (l *zapLogger) Benchmark(name string, start time.Time) {
	l.sugar.Debugw("benchmark", "name", name, "elapsed_ms", time.Since(start).Milliseconds())
}
