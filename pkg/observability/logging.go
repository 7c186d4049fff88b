package observability

import (
	"log/slog"
	"os"
	"strings"
)

// LogConfig comes from LOG_LEVEL and LOG_FORMAT. Production runs json;
// text is for reading loanctl output on a terminal.
type LogConfig struct {
	Level  string
	Format string
}

// InitLogger builds the process logger. Callers install it as the slog
// default themselves.
func InitLogger(cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
