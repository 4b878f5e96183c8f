package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/status-demo/internal/platform/timeutil"
)

var (
	once    sync.Once
	logger  *zap.Logger
	openErr error
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Cloud Logging severity names for the levels this service logs at.
var severities = map[zapcore.Level]string{
	zapcore.DebugLevel: "DEBUG",
	zapcore.InfoLevel:  "INFO",
	zapcore.WarnLevel:  "WARNING",
	zapcore.ErrorLevel: "ERROR",
}

func severity(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	name, ok := severities[l]
	switch {
	case ok:
	case l > zapcore.ErrorLevel:
		name = "CRITICAL"
	default:
		name = "DEFAULT"
	}
	enc.AppendString(name)
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "timestamp",
		LevelKey:      "severity",
		MessageKey:    "message",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   severity,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(timeutil.FormatMicros(t))
		},
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// build writes JSON lines to stdout. If stdout cannot be opened the logger
// falls back to a no-op and the error is reported by Err.
func build() {
	out, _, err := zap.Open("stdout")
	if err != nil {
		openErr = err
		logger = zap.NewNop()
		return
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), out, level)
	logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel), zap.ErrorOutput(out))
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	once.Do(build)
	return logger
}

// SetLevel changes the minimum level, e.g. "debug" or "warn".
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

// Sync flushes buffered entries.
func Sync() error {
	return Logger().Sync()
}

// Err reports whether the logger failed to open its output.
func Err() error {
	once.Do(build)
	return openErr
}
