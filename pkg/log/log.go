// Package log wraps a zap sugared logger shared by the whole service.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// sugar starts as a no-op so packages can log before Init runs.
var sugar = zap.NewNop().Sugar()

// Init builds the process logger. format "console" selects the development
// encoder, anything else produces JSON.
func Init(level, format string) {
	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel.SetLevel(zap.InfoLevel)
	}

	var zapConfig zap.Config
	if format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
		format = "json"
	}

	zapConfig.Level = logLevel
	zapConfig.Encoding = format
	zapConfig.OutputPaths = []string{"stdout"}

	logger, err := zapConfig.Build()
	if err != nil {
		panic(err)
	}
	sugar = logger.Sugar()
}

// Info logs a message at info level.
func Info(msg string) {
	sugar.Info(msg)
}

// Infof logs a formatted message at info level.
func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow logs a message with key/value pairs at info level.
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

// Warnf logs a formatted message at warn level.
func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

// Warnw logs a message with key/value pairs at warn level.
func Warnw(msg string, keysAndValues ...interface{}) {
	sugar.Warnw(msg, keysAndValues...)
}

// Error logs msg together with err.
func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

// Fatal logs msg together with err and exits the process.
func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	_ = sugar.Sync()
}
