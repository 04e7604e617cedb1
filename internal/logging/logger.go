package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the stdout JSON logger. Development builds log at debug.
func Setup(env string) {
	slog.SetDefault(slog.New(NewStdoutHandler(os.Stdout, env)))
}

func NewStdoutHandler(w io.Writer, env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
