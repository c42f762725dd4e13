package pkg

import (
	"log/slog"
	"os"
	"strings"
)

// CustomSlog renames time/msg to timestamp/message and stamps every record
// with host and service.
func CustomSlog(service string, level ...string) *slog.Logger {
	lvl := slog.LevelDebug
	if len(level) > 0 {
		lvl = parseLevel(level[0])
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("timestamp", a.Value.Time().Format("2006-01-02T15:04:05Z07:00"))
			}
			if a.Key == slog.MessageKey {
				return slog.String("message", a.Value.String())
			}
			return a
		},
	})
	logger := slog.New(handler)
	host, err := os.Hostname()
	if err != nil {
		logger.Error("cant get host name", "action", "init logger", "error", err)
		os.Exit(1)
	}
	return logger.With("host", host, "service", service)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
