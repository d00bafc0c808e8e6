// Package logger carries a logrus entry on the job context. The consumer
// adds job_id, job_type and user_id once, and everything below it (text
// extraction, model calls, merges, chat dispatch) logs with those fields
// by calling G(ctx).
package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// std is the worker's process-wide logger, set up by Configure at startup.
var std = logrus.NewEntry(newLogger())

type entryKey struct{}

// G returns the entry for the job running on ctx. Outside a job it is the
// bare process logger.
func G(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(entryKey{}).(*logrus.Entry); ok {
		return entry
	}
	return std.WithContext(ctx)
}

// WithFields adds fields to the entry on ctx, e.g. the worker number or a
// certificate id.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return withEntry(ctx, G(ctx).WithFields(fields))
}

func withEntry(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, entryKey{}, entry.WithContext(ctx))
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	setFormat(l, "text")
	return l
}

// setFormat picks LOG_FORMAT: "json" for log shippers, anything else is
// human readable text.
func setFormat(l *logrus.Logger, format string) {
	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "logLevel",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	default:
		l.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		}
	}
}

// Configure applies LOG_LEVEL and LOG_FORMAT before the consumer pool
// starts. A level logrus cannot parse keeps the current level and is
// returned so main can warn about it.
func Configure(level, format string) error {
	setFormat(std.Logger, format)
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	std.Logger.SetLevel(lvl)
	return nil
}
