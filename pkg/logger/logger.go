// Package logger wraps logrus behind the small surface the rest of the
// service uses: package-level levelled logging plus request-scoped entries
// via WithContext.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hamzaalmahdi/civitai/pkg/config"
)

type contextKey string

// RequestIDKey is the context key the request middleware stores the
// request id under; WithContext reads it back.
const RequestIDKey contextKey = "request_id"

// Logger wraps a configured logrus instance plus its closable sink.
type Logger struct {
	log    *logrus.Logger
	closer io.Closer
}

// NewLogger builds a logger from the log section of the service config.
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var closer io.Closer
	switch strings.ToLower(cfg.Log.Output) {
	case "file":
		rotator := newRotator(&cfg.Log)
		l.SetOutput(rotator)
		closer = rotator
	case "both":
		rotator := newRotator(&cfg.Log)
		l.SetOutput(io.MultiWriter(os.Stdout, rotator))
		closer = rotator
	default:
		l.SetOutput(os.Stdout)
	}

	return &Logger{log: l, closer: closer}
}

func newRotator(cfg *config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
}

// Close flushes and closes the file sink if one is configured.
func (l *Logger) Close() {
	if l != nil && l.closer != nil {
		_ = l.closer.Close()
	}
}

// global defaults to a plain stdout logger so early startup logging works
// before SetGlobalLogger runs.
var global = &Logger{log: logrus.New()}

// SetGlobalLogger installs the configured logger as the package-level one.
func SetGlobalLogger(l *Logger) {
	if l != nil {
		global = l
	}
}

func Debugf(format string, args ...interface{}) {
	global.log.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	global.log.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	global.log.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	global.log.Errorf(format, args...)
}

// Fatal logs the message and exits the process.
func Fatal(msg string) {
	global.log.Fatal(msg)
}

// WithContext returns an entry annotated with the request id when the
// context carries one.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(global.log)
	if ctx == nil {
		return entry
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
