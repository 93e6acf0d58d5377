package logger

import (
	"log/slog"
	"time"
)

// LogQuery logs store operations with timing.
func LogQuery(op string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "db"),
		slog.String("op", op),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Store operation failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Debug("Store operation executed", attrs...)
	}
}

// LogJob logs scheduler-triggered job runs.
func LogJob(name string, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "job"),
		slog.String("name", name),
	}
	slog.Info("Job fired", append(baseAttrs, attrs...)...)
}

// LogSystem logs process-level events.
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}
