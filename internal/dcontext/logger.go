package dcontext

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Logger provides a leveled-logging interface, matching the subset of
// logrus's *Entry API the resolver needs.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type loggerKey struct{}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns a logger built on the *logrus.Entry stored in ctx by
// WithLogger, falling back to the standard logrus logger if none is present;
// a stored Logger of any other type is not used. If keys are provided, their
// values are resolved against ctx (via WithValues) and attached as log
// fields.
func GetLogger(ctx context.Context, keys ...string) Logger {
	return &entry{getEntry(ctx, keys...)}
}

// GetLoggerWithFields returns a logger carrying the given fields in addition
// to whatever is resolved for keys.
func GetLoggerWithFields(ctx context.Context, fields map[string]interface{}, keys ...string) Logger {
	return &entry{getEntry(ctx, keys...).WithFields(logrus.Fields(fields))}
}

func getEntry(ctx context.Context, keys ...string) *logrus.Entry {
	var base *logrus.Entry
	if l, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		base = l
	} else {
		base = logrus.NewEntry(logrus.StandardLogger())
	}

	fields := logrus.Fields{}
	for _, key := range keys {
		if v, ok := lookupValues(ctx, key); ok {
			fields[key] = v
		}
	}
	return base.WithFields(fields)
}

var _ Logger = (*entry)(nil)

type entry struct {
	*logrus.Entry
}

func (e *entry) Debug(args ...interface{})                 { e.Entry.Debug(args...) }
func (e *entry) Debugf(format string, args ...interface{}) { e.Entry.Debugf(format, args...) }
func (e *entry) Info(args ...interface{})                  { e.Entry.Info(args...) }
func (e *entry) Infof(format string, args ...interface{})  { e.Entry.Infof(format, args...) }
func (e *entry) Warn(args ...interface{})                  { e.Entry.Warn(args...) }
func (e *entry) Warnf(format string, args ...interface{})  { e.Entry.Warnf(format, args...) }
func (e *entry) Error(args ...interface{})                 { e.Entry.Error(args...) }
func (e *entry) Errorf(format string, args ...interface{}) { e.Entry.Errorf(format, args...) }

// noopLogger is used by tests that don't care about log output.
type noopLogger struct{}

func (noopLogger) Debug(args ...interface{})                 {}
func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Info(args ...interface{})                  {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Warn(args ...interface{})                  {}
func (noopLogger) Warnf(format string, args ...interface{})  {}
func (noopLogger) Error(args ...interface{})                 {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// NoopLogger returns a Logger that discards everything, for use in tests
// and other contexts where a concrete context.Context is unavailable.
func NoopLogger() Logger { return noopLogger{} }
